package driver

import (
	"fmt"

	"github.com/viant/houghcircles/policy"
	"github.com/viant/houghcircles/service/messaging/memory"
)

// Config represents driver configuration
type Config struct {
	// InitialMode is the working mode granted right after setup
	InitialMode int `json:"initialMode" yaml:"initialMode"`
	// MonitorEvery is the number of cycles between monitor calls
	MonitorEvery int `json:"monitorEvery" yaml:"monitorEvery"`
	// Policy bounds consecutive work failures
	Policy *policy.Policy `json:"policy,omitempty" yaml:"policy,omitempty"`
	// Queue configures the command queue
	Queue memory.Config `json:"-" yaml:"-"`
}

// DefaultConfig returns the default driver configuration
func DefaultConfig() Config {
	queue := memory.DefaultConfig()
	queue.MaxRetries = 0
	return Config{
		MonitorEvery: 1,
		Policy:       policy.Default(),
		Queue:        queue,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.InitialMode < 0 {
		return fmt.Errorf("initialMode must be >= 0")
	}
	if c.MonitorEvery < 0 {
		return fmt.Errorf("monitorEvery must be >= 0")
	}
	return c.Policy.Validate()
}
