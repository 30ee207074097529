package task

import (
	"context"
	"fmt"
	"image"
	"io"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/jonboulle/clockwork"
	"github.com/viant/houghcircles/internal/idgen"
	"github.com/viant/houghcircles/model/allocation"
	"github.com/viant/houghcircles/policy"
	"github.com/viant/houghcircles/service/allocator"
	"github.com/viant/houghcircles/service/imagestore"
	"github.com/viant/houghcircles/service/work"
	"github.com/viant/houghcircles/tracing"
)

// Store loads the work source and persists the result.
type Store interface {
	Load(ctx context.Context, URL string) (image.Image, error)
	Save(ctx context.Context, URL string, img image.Image) error
}

// Task is a managed task.  All working data is owned by the instance.
type Task struct {
	name      string
	uid       string
	sourceURL string
	outputURL string
	recipe    string
	handle    allocator.Handle
	unit      work.Unit
	store     Store
	reporter  Reporter
	policy    *policy.Policy
	clock     clockwork.Clock

	state      State
	modeID     int
	allocation allocation.Snapshot
	input      image.Image
	result     image.Image
	cycles     int
	failures   int
	setupAt    time.Time
	peakCPS    float64
	// unconfirmed is set by a failed Configure; Run is refused until a
	// Configure succeeds.
	unconfirmed bool
}

// Name returns the task name.
func (t *Task) Name() string { return t.name }

// UID returns the unique identifier assigned at construction.
func (t *Task) UID() string { return t.uid }

// Recipe returns the configuration reference.
func (t *Task) Recipe() string { return t.recipe }

// State returns the current lifecycle state.
func (t *Task) State() State { return t.state }

// Cycles returns the number of completed cycles.
func (t *Task) Cycles() int { return t.cycles }

// Failures returns the number of failed cycles.
func (t *Task) Failures() int { return t.failures }

// ModeID returns the working mode of the active allocation.
func (t *Task) ModeID() int { return t.modeID }

// Allocation returns the active allocation.
func (t *Task) Allocation() allocation.Snapshot { return t.allocation }

// Result returns the output of the last completed cycle.
func (t *Task) Result() image.Image { return t.result }

// Setup acquires the work source.
func (t *Task) Setup(ctx context.Context) (err error) {
	ctx, span := t.startSpan(ctx, OpSetup)
	defer func() { tracing.EndSpan(span, err) }()
	if err = t.expect(ctx, OpSetup); err != nil {
		return err
	}
	input, loadErr := t.store.Load(ctx, t.sourceURL)
	if loadErr != nil {
		err = fmt.Errorf("%w: %s: %w", ErrResourceUnavailable, t.sourceURL, loadErr)
		t.fail(ctx, OpSetup, err)
		t.transition(ctx, StateFailed)
		return err
	}
	t.input = input
	t.setupAt = t.clock.Now()
	t.transition(ctx, StateInitialized)
	return nil
}

// Configure resolves modeID with the allocator handle and makes it the active
// allocation.  On failure state and allocation stay unchanged but the task
// refuses to run until a later Configure succeeds.
func (t *Task) Configure(ctx context.Context, modeID int) (err error) {
	ctx, span := t.startSpan(ctx, OpConfigure)
	span.Annotate(map[string]string{"task.mode": strconv.Itoa(modeID)})
	defer func() { tracing.EndSpan(span, err) }()
	if err = t.expect(ctx, OpConfigure); err != nil {
		return err
	}
	if modeID < 0 {
		err = fmt.Errorf("%w: invalid working mode %d", ErrAllocationQueryFailed, modeID)
		t.unconfirmed = true
		t.fail(ctx, OpConfigure, err)
		return err
	}
	snapshot, queryErr := t.handle.Allocation(ctx, modeID)
	if queryErr != nil {
		err = fmt.Errorf("%w: working mode %d: %w", ErrAllocationQueryFailed, modeID, queryErr)
		t.unconfirmed = true
		t.fail(ctx, OpConfigure, err)
		return err
	}
	t.modeID = modeID
	t.allocation = snapshot
	t.unconfirmed = false
	event := t.newEvent(EventConfigured)
	event.Op = OpConfigure
	t.reporter.Report(ctx, event)
	t.transition(ctx, StateConfigured)
	return nil
}

// Run executes one cycle.  It returns ResultNoMoreWork once the cycle counter
// reaches the completion threshold.  After a failed Configure it returns
// ErrAllocationQueryFailed without doing any work.
func (t *Task) Run(ctx context.Context) (result Result, err error) {
	ctx, span := t.startSpan(ctx, OpRun)
	defer func() { tracing.EndSpan(span, err) }()
	if err = t.expect(ctx, OpRun); err != nil {
		return ResultError, err
	}
	if t.policy.Done(t.cycles) {
		err = fmt.Errorf("%w: %s after workload completed (%d cycles)", ErrLifecycleViolation, OpRun, t.cycles)
		t.fail(ctx, OpRun, err)
		return ResultError, err
	}
	if t.unconfirmed {
		err = fmt.Errorf("%w: %s without a confirmed allocation (last good mode %d)", ErrAllocationQueryFailed, OpRun, t.modeID)
		t.fail(ctx, OpRun, err)
		return ResultError, err
	}
	t.transition(ctx, StateRunning)
	output, workErr := t.unit.Process(ctx, t.input, t.allocation)
	if workErr == nil && output == nil {
		workErr = fmt.Errorf("work unit returned no output")
	}
	if workErr != nil {
		t.failures++
		err = fmt.Errorf("%w: cycle %d: %w", ErrWorkExecutionFailed, t.cycles+1, workErr)
		t.fail(ctx, OpRun, err)
		return ResultError, err
	}
	t.result = output
	t.cycles++
	telemetry := t.telemetry()
	event := t.newEvent(EventCycle)
	event.Op = OpRun
	event.Telemetry = &telemetry
	t.reporter.Report(ctx, event)
	if t.policy.Done(t.cycles) {
		return ResultNoMoreWork, nil
	}
	return ResultOK, nil
}

// Monitor reports progress.  Neither the cycle count nor the throughput
// reported by an instance ever decreases.
func (t *Task) Monitor(ctx context.Context) (telemetry Telemetry, err error) {
	ctx, span := t.startSpan(ctx, OpMonitor)
	defer func() { tracing.EndSpan(span, err) }()
	if err = t.expect(ctx, OpMonitor); err != nil {
		return Telemetry{}, err
	}
	t.transition(ctx, StateMonitoring)
	telemetry = t.telemetry()
	event := t.newEvent(EventMonitor)
	event.Op = OpMonitor
	event.Telemetry = &telemetry
	t.reporter.Report(ctx, event)
	return telemetry, nil
}

// Suspend stops work until the next Configure.  Owned resources are kept.
func (t *Task) Suspend(ctx context.Context) (err error) {
	ctx, span := t.startSpan(ctx, OpSuspend)
	defer func() { tracing.EndSpan(span, err) }()
	if err = t.expect(ctx, OpSuspend); err != nil {
		return err
	}
	t.transition(ctx, StateSuspended)
	return nil
}

// Release writes the last result to the output location, closes the work
// unit when it is an io.Closer and moves the task to released.  The task is
// released even when finalisation fails; the errors are returned combined.
func (t *Task) Release(ctx context.Context) (err error) {
	ctx, span := t.startSpan(ctx, OpRelease)
	defer func() { tracing.EndSpan(span, err) }()
	if err = t.expect(ctx, OpRelease); err != nil {
		return err
	}
	var errs *multierror.Error
	if t.outputURL != "" && t.result != nil {
		if saveErr := t.store.Save(ctx, t.outputURL, t.result); saveErr != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to finalize output: %w", saveErr))
		}
	}
	if closer, ok := t.unit.(io.Closer); ok {
		if closeErr := closer.Close(); closeErr != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to close work unit: %w", closeErr))
		}
	}
	t.input = nil
	t.transition(ctx, StateReleased)
	if err = errs.ErrorOrNil(); err != nil {
		t.fail(ctx, OpRelease, err)
	}
	return err
}

func (t *Task) expect(ctx context.Context, op Op) error {
	if t.state.Permits(op) {
		return nil
	}
	err := fmt.Errorf("%w: %s in state %s", ErrLifecycleViolation, op, t.state)
	t.fail(ctx, op, err)
	return err
}

func (t *Task) telemetry() Telemetry {
	var elapsed time.Duration
	if !t.setupAt.IsZero() {
		elapsed = t.clock.Since(t.setupAt)
	}
	cps := 0.0
	if elapsed > 0 {
		cps = float64(t.cycles) / elapsed.Seconds()
	}
	if cps < t.peakCPS {
		cps = t.peakCPS
	}
	t.peakCPS = cps
	return Telemetry{
		Task:       t.name,
		UID:        t.uid,
		ModeID:     t.modeID,
		Cycles:     t.cycles,
		Failures:   t.failures,
		CPS:        cps,
		Elapsed:    elapsed,
		Allocation: t.allocation,
	}
}

func (t *Task) transition(ctx context.Context, to State) {
	if t.state == to {
		return
	}
	event := t.newEvent(EventTransition)
	event.From, event.To = t.state, to
	t.state = to
	t.reporter.Report(ctx, event)
}

func (t *Task) fail(ctx context.Context, op Op, err error) {
	event := t.newEvent(EventError)
	event.Op = op
	event.Err = err
	t.reporter.Report(ctx, event)
}

func (t *Task) newEvent(eventType EventType) *Event {
	return &Event{
		Type:       eventType,
		Task:       t.name,
		UID:        t.uid,
		From:       t.state,
		To:         t.state,
		ModeID:     t.modeID,
		Allocation: t.allocation,
		CreatedAt:  t.clock.Now(),
	}
}

func (t *Task) startSpan(ctx context.Context, op Op) (context.Context, *tracing.Span) {
	return tracing.StartSpan(ctx, "task."+string(op), map[string]string{
		"task.name":  t.name,
		"task.uid":   t.uid,
		"task.state": string(t.state),
	})
}

// New creates a task in the created state.
func New(name string, handle allocator.Handle, options ...Option) (*Task, error) {
	ret := &Task{
		name:  name,
		uid:   idgen.New(),
		state: StateCreated,
	}
	for _, opt := range options {
		opt(ret)
	}
	if name == "" {
		return nil, fmt.Errorf("task name is required")
	}
	if handle == nil {
		return nil, fmt.Errorf("allocator handle is required")
	}
	if ret.unit == nil {
		return nil, fmt.Errorf("work unit is required")
	}
	ret.handle = handle
	if ret.store == nil {
		ret.store = imagestore.New()
	}
	if ret.reporter == nil {
		ret.reporter = nopReporter{}
	}
	if ret.policy == nil {
		ret.policy = policy.Default()
	}
	if ret.clock == nil {
		ret.clock = clockwork.NewRealClock()
	}
	ret.reporter.Report(context.Background(), ret.newEvent(EventCreated))
	return ret, nil
}
