package event

import (
	"github.com/sirupsen/logrus"
	"github.com/viant/houghcircles/service/messaging/memory"
)

type Option func(s *Service)

// WithNewMemoryQueueConfig sets the per-stream memory queue configuration
func WithNewMemoryQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memNewQueueConfig = newConfig
	}
}

// WithLogger sets the logger listeners report consume failures to.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
