package driver

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/viant/houghcircles/progress"
	"github.com/viant/houghcircles/service/messaging"
	"github.com/viant/houghcircles/service/messaging/memory"
	"github.com/viant/houghcircles/service/task"
	"github.com/viant/houghcircles/tracing"
)

// Lifecycle is the callback surface of a managed task.
type Lifecycle interface {
	Name() string
	UID() string
	Setup(ctx context.Context) error
	Configure(ctx context.Context, modeID int) error
	Run(ctx context.Context) (task.Result, error)
	Monitor(ctx context.Context) (task.Telemetry, error)
	Suspend(ctx context.Context) error
	Release(ctx context.Context) error
}

// Commands is a command queue the driver can drain and fill without blocking.
type Commands interface {
	messaging.Queue[Command]
	messaging.Poller[Command]
	messaging.Offerer[Command]
}

// Reason tells why the driving loop ended.
type Reason string

const (
	ReasonCompleted Reason = "completed"
	ReasonStopped   Reason = "stopped"
	ReasonCanceled  Reason = "canceled"
	ReasonFailed    Reason = "failed"
)

// Summary describes a finished drive.
type Summary struct {
	Task      string
	UID       string
	Reason    Reason
	Progress  progress.Progress
	Telemetry *task.Telemetry
}

// Driver drives one task through its lifecycle.
type Driver struct {
	lifecycle  Lifecycle
	config     Config
	commands   Commands
	logger     logrus.FieldLogger
	onProgress func(progress.Progress)
}

// Submit queues a command; it is applied before the next cycle.
func (d *Driver) Submit(ctx context.Context, command Command) error {
	return d.commands.Publish(ctx, &command)
}

// TrySubmit queues a command without waiting for capacity; it returns
// messaging.ErrFull when the queue is full.  Callbacks running on the driving
// goroutine must use it instead of Submit.
func (d *Driver) TrySubmit(command Command) error {
	return d.commands.Offer(&command)
}

// Run drives the task until it reports no more work, a stop command arrives,
// ctx is done or an unrecoverable error occurs.  The task is released in all
// cases; release errors are combined with the driving error.
func (d *Driver) Run(ctx context.Context) (summary *Summary, err error) {
	ctx, span := tracing.StartSpan(ctx, "driver.run", map[string]string{"task.name": d.lifecycle.Name(), "task.uid": d.lifecycle.UID()})
	defer func() { tracing.EndSpan(span, err) }()

	ctx, tracker := progress.WithNewTracker(ctx, d.lifecycle.Name(), d.lifecycle.UID(), d.onProgress)
	summary = &Summary{Task: d.lifecycle.Name(), UID: d.lifecycle.UID()}
	logger := d.logger.WithFields(logrus.Fields{"task": summary.Task, "uid": summary.UID})

	var errs *multierror.Error
	summary.Reason, err = d.drive(ctx, logger, summary)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	if relErr := d.lifecycle.Release(context.WithoutCancel(ctx)); relErr != nil {
		errs = multierror.Append(errs, relErr)
	}
	summary.Progress = tracker.Snapshot()
	err = errs.ErrorOrNil()
	if err != nil && summary.Reason != ReasonFailed {
		summary.Reason = ReasonFailed
	}
	logger.WithFields(logrus.Fields{
		"reason":   summary.Reason,
		"cycles":   summary.Progress.Cycles,
		"failures": summary.Progress.Failures,
	}).Info("task released")
	return summary, err
}

func (d *Driver) drive(ctx context.Context, logger logrus.FieldLogger, summary *Summary) (Reason, error) {
	if err := d.lifecycle.Setup(ctx); err != nil {
		return ReasonFailed, err
	}
	if err := d.lifecycle.Configure(ctx, d.config.InitialMode); err != nil {
		return ReasonFailed, err
	}
	consecutive := 0
	for {
		stop, err := d.apply(ctx, logger)
		if err != nil {
			return ReasonFailed, err
		}
		if ctx.Err() != nil {
			return ReasonCanceled, nil
		}
		if stop {
			return ReasonStopped, nil
		}

		result, err := d.lifecycle.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ReasonCanceled, nil
			}
			if !errors.Is(err, task.ErrWorkExecutionFailed) {
				return ReasonFailed, err
			}
			consecutive++
			progress.UpdateCtx(ctx, progress.Delta{Failures: 1})
			logger.WithError(err).WithField("consecutive", consecutive).Warn("cycle failed")
			if d.config.Policy.Exhausted(consecutive) {
				return ReasonFailed, fmt.Errorf("giving up after %d consecutive failures: %w", consecutive, err)
			}
			continue
		}
		consecutive = 0
		progress.UpdateCtx(ctx, progress.Delta{Cycles: 1})
		cycles := progressOf(ctx).Cycles
		if result == task.ResultNoMoreWork || (d.config.MonitorEvery > 0 && cycles%d.config.MonitorEvery == 0) {
			telemetry, err := d.lifecycle.Monitor(ctx)
			if err != nil {
				return ReasonFailed, err
			}
			summary.Telemetry = &telemetry
			progress.UpdateCtx(ctx, progress.Delta{Monitors: 1})
		}
		if result == task.ResultNoMoreWork {
			return ReasonCompleted, nil
		}
	}
}

// apply drains pending commands.  A suspend blocks until resume, stop or ctx
// is done; a rejected reconfigure blocks until a working mode is accepted,
// stop or ctx is done.
func (d *Driver) apply(ctx context.Context, logger logrus.FieldLogger) (bool, error) {
	for {
		msg, ok := d.commands.Poll()
		if !ok {
			return false, nil
		}
		command := *msg.T()
		_ = msg.Ack()
		logger.WithField("command", command.String()).Debug("applying command")
		switch command.Kind {
		case KindStop:
			return true, nil
		case KindReconfigure:
			if d.reconfigure(ctx, logger, command.ModeID) {
				continue
			}
			logger.Info("waiting for a valid working mode")
			if stop := d.await(ctx, logger, KindReconfigure, KindResume); stop {
				return true, nil
			}
		case KindSuspend:
			if err := d.lifecycle.Suspend(ctx); err != nil {
				return false, err
			}
			progress.UpdateCtx(ctx, progress.Delta{Suspensions: 1})
			logger.Info("task suspended")
			if stop := d.await(ctx, logger, KindResume); stop {
				return true, nil
			}
		case KindResume:
			logger.Debug("ignoring resume of a task that is not suspended")
		default:
			logger.Warnf("unknown command %q", command.Kind)
		}
	}
}

func (d *Driver) reconfigure(ctx context.Context, logger logrus.FieldLogger, modeID int) bool {
	if err := d.lifecycle.Configure(ctx, modeID); err != nil {
		logger.WithError(err).WithField("mode", modeID).Warn("reconfiguration rejected")
		return false
	}
	progress.UpdateCtx(ctx, progress.Delta{Reconfigurations: 1})
	return true
}

// await blocks on the command queue until a command of one of the accepted
// kinds configures the task.  It returns true when the drive should stop.
func (d *Driver) await(ctx context.Context, logger logrus.FieldLogger, accepted ...Kind) bool {
	for {
		msg, err := d.commands.Consume(ctx)
		if err != nil {
			if !errors.Is(err, memory.ErrClosed) && ctx.Err() == nil {
				logger.WithError(err).Warn("failed to read command")
			}
			return true
		}
		command := *msg.T()
		_ = msg.Ack()
		if command.Kind == KindStop {
			return true
		}
		if !slices.Contains(accepted, command.Kind) {
			logger.WithField("command", command.String()).Debug("ignoring command while waiting")
			continue
		}
		if d.reconfigure(ctx, logger, command.ModeID) {
			logger.WithField("mode", command.ModeID).Info("task resumed")
			return false
		}
	}
}

func progressOf(ctx context.Context) progress.Progress {
	snapshot, _ := progress.GetSnapshot(ctx)
	return snapshot
}

// New creates a driver for lifecycle.
func New(lifecycle Lifecycle, options ...Option) (*Driver, error) {
	ret := &Driver{
		lifecycle: lifecycle,
		config:    DefaultConfig(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if lifecycle == nil {
		return nil, fmt.Errorf("lifecycle is required")
	}
	if err := ret.config.Validate(); err != nil {
		return nil, err
	}
	if ret.logger == nil {
		ret.logger = logrus.StandardLogger()
	}
	if ret.commands == nil {
		ret.commands = memory.NewQueue[Command](ret.config.Queue)
	}
	return ret, nil
}
