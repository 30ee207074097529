package driver

import (
	"github.com/sirupsen/logrus"
	"github.com/viant/houghcircles/progress"
)

type Option func(d *Driver)

// WithConfig sets the configuration for the driver
func WithConfig(config Config) Option {
	return func(d *Driver) {
		d.config = config
	}
}

// WithInitialMode sets the working mode granted after setup
func WithInitialMode(modeID int) Option {
	return func(d *Driver) {
		d.config.InitialMode = modeID
	}
}

// WithLogger sets the logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithCommands sets the command queue
func WithCommands(queue Commands) Option {
	return func(d *Driver) {
		d.commands = queue
	}
}

// WithProgressListener registers a callback invoked after every counter change
func WithProgressListener(fn func(progress.Progress)) Option {
	return func(d *Driver) {
		d.onProgress = fn
	}
}
