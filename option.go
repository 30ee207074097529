package houghcircles

import (
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/viant/houghcircles/service/allocator"
	"github.com/viant/houghcircles/service/dao/run"
	"github.com/viant/houghcircles/service/event"
	"github.com/viant/houghcircles/service/task"
	"github.com/viant/houghcircles/service/work"
)

type Option func(s *Service)

// WithConfig sets the run configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the logger; by default one is built from Config.Log
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRegisterer registers task metrics with registerer
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(s *Service) {
		s.registerer = registerer
	}
}

// WithEventService publishes task events on the supplied bus
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.eventService = service
	}
}

// WithStore sets the image store
func WithStore(store task.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithHandle replaces the allocator built from Config.Modes
func WithHandle(handle allocator.Handle) Option {
	return func(s *Service) {
		s.handle = handle
	}
}

// WithWorkUnit replaces the circle detector
func WithWorkUnit(unit work.Unit) Option {
	return func(s *Service) {
		s.unit = unit
	}
}

// WithClock sets the task clock
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithReporters adds task reporters
func WithReporters(reporters ...task.Reporter) Option {
	return func(s *Service) {
		s.reporters = append(s.reporters, reporters...)
	}
}

// WithHistory sets the run record store
func WithHistory(history run.Service) Option {
	return func(s *Service) {
		s.history = history
	}
}
