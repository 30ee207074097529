package houghcircles

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/viant/houghcircles/internal/logging"
	"github.com/viant/houghcircles/service/allocator"
	"github.com/viant/houghcircles/service/dao/run"
	runfs "github.com/viant/houghcircles/service/dao/run/fs"
	runmemory "github.com/viant/houghcircles/service/dao/run/memory"
	"github.com/viant/houghcircles/service/driver"
	"github.com/viant/houghcircles/service/event"
	"github.com/viant/houghcircles/service/imagestore"
	"github.com/viant/houghcircles/service/reporter"
	"github.com/viant/houghcircles/service/task"
	"github.com/viant/houghcircles/service/work"
	"github.com/viant/houghcircles/service/work/hough"
)

// Service wires a managed task with its collaborators.
type Service struct {
	config       *Config
	logger       logrus.FieldLogger
	registerer   prometheus.Registerer
	metrics      *reporter.Metrics
	eventService *event.Service
	store        task.Store
	handle       allocator.Handle
	unit         work.Unit
	clock        clockwork.Clock
	reporters    []task.Reporter
	history      run.Service
}

// Config returns the run configuration.
func (s *Service) Config() *Config {
	return s.config
}

// Handle returns the allocator handle tasks query on configure.
func (s *Service) Handle() allocator.Handle {
	return s.handle
}

// History returns the run record store.
func (s *Service) History() run.Service {
	return s.history
}

// NewTask creates a task from the configuration reporting to reporters on
// top of the service reporters.
func (s *Service) NewTask(reporters ...task.Reporter) (*task.Task, error) {
	all := reporter.Multi{reporter.NewLogger(s.logger)}
	if s.metrics != nil {
		all = append(all, s.metrics)
	}
	if s.eventService != nil {
		all = append(all, reporter.NewStream(s.eventService, s.logger))
	}
	all = append(all, s.reporters...)
	all = append(all, reporters...)
	options := []task.Option{
		task.WithSource(s.config.Task.Input),
		task.WithOutput(s.config.Task.Output),
		task.WithWorkUnit(s.unit),
		task.WithStore(s.store),
		task.WithPolicy(s.config.Policy()),
		task.WithReporter(all),
	}
	if s.clock != nil {
		options = append(options, task.WithClock(s.clock))
	}
	return task.New(s.config.Task.Name, s.handle, options...)
}

// Run creates a task and drives it to the end.
func (s *Service) Run(ctx context.Context) (*driver.Summary, error) {
	schedule := newScheduler(s.config.Schedule, s.logger)
	aTask, err := s.NewTask(schedule)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"task": aTask.Name(), "uid": aTask.UID()}).Info("task created")
	driverConfig := driver.DefaultConfig()
	driverConfig.InitialMode = s.config.InitialMode
	driverConfig.MonitorEvery = s.config.Driver.MonitorEvery
	driverConfig.Policy = s.config.Policy()
	schedule.driver, err = driver.New(aTask,
		driver.WithConfig(driverConfig),
		driver.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	summary, err := schedule.driver.Run(ctx)
	finishedAt := time.Now()
	if s.clock != nil {
		finishedAt = s.clock.Now()
	}
	if saveErr := s.history.Save(context.WithoutCancel(ctx), run.NewRecord(summary, finishedAt, err)); saveErr != nil {
		s.logger.WithError(saveErr).Warn("failed to record run")
	}
	return summary, err
}

func (s *Service) init() error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if s.logger == nil {
		logger, err := logging.New(s.config.Log, nil)
		if err != nil {
			return err
		}
		s.logger = logger
	}
	if s.registerer != nil {
		metrics, err := reporter.NewMetrics(s.registerer)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		s.metrics = metrics
	}
	if s.handle == nil {
		modes, err := s.config.WorkingModes()
		if err != nil {
			return err
		}
		s.handle = allocator.NewStatic(modes...)
		if s.config.Allocator == AllocatorHost {
			s.handle = allocator.NewHost(s.handle)
		}
	}
	if s.unit == nil {
		detector, err := hough.New(s.config.Hough)
		if err != nil {
			return err
		}
		s.unit = detector
	}
	if s.store == nil {
		s.store = imagestore.New()
	}
	if s.history == nil {
		if s.config.History == "" {
			s.history = runmemory.New()
		} else {
			history, err := runfs.New(context.Background(), s.config.History, s.logger)
			if err != nil {
				return err
			}
			s.history = history
		}
	}
	return nil
}

// New creates a service; the configuration is validated.
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(); err != nil {
		return nil, err
	}
	return ret, nil
}
