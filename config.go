package houghcircles

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/houghcircles/internal/logging"
	"github.com/viant/houghcircles/model/allocation"
	"github.com/viant/houghcircles/policy"
	"github.com/viant/houghcircles/service/driver"
	"github.com/viant/houghcircles/service/work/hough"
	"gopkg.in/yaml.v3"
)

const (
	AllocatorStatic = "static"
	AllocatorHost   = "host"
)

// Config is a serialisable representation of a run.  It is usually loaded
// from a YAML recipe; the zero values of nested sections inherit package
// defaults through DefaultConfig.
type Config struct {
	Task        TaskConfig         `json:"task" yaml:"task"`
	Modes       []ModeConfig       `json:"modes" yaml:"modes"`
	InitialMode int                `json:"initialMode" yaml:"initialMode"`
	Allocator   string             `json:"allocator" yaml:"allocator"`
	Driver      DriverConfig       `json:"driver" yaml:"driver"`
	Schedule    []ScheduledCommand `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	Hough       hough.Config       `json:"hough" yaml:"hough"`
	Log         logging.Config     `json:"log" yaml:"log"`
	Tracing     TracingConfig      `json:"tracing" yaml:"tracing"`
	// History is the location run records are written to; empty keeps them in memory
	History string `json:"history,omitempty" yaml:"history,omitempty"`
}

type TaskConfig struct {
	Name      string `json:"name" yaml:"name"`
	Input     string `json:"input" yaml:"input"`
	Output    string `json:"output,omitempty" yaml:"output,omitempty"`
	MaxCycles int    `json:"maxCycles" yaml:"maxCycles"`
}

// ModeConfig declares a working mode.  With the host allocator zero
// processors or memory are derived from the machine.
type ModeConfig struct {
	ID         int `json:"id" yaml:"id"`
	Quota      int `json:"quota" yaml:"quota"`
	Processors int `json:"processors" yaml:"processors"`
	Memory     int `json:"memory" yaml:"memory"`
}

type DriverConfig struct {
	MaxFailures  int `json:"maxFailures" yaml:"maxFailures"`
	MonitorEvery int `json:"monitorEvery" yaml:"monitorEvery"`
}

// ScheduledCommand is submitted to the driver once AfterCycle cycles completed.
type ScheduledCommand struct {
	AfterCycle int         `json:"afterCycle" yaml:"afterCycle"`
	Kind       driver.Kind `json:"kind" yaml:"kind"`
	ModeID     int         `json:"modeId,omitempty" yaml:"modeId,omitempty"`
}

type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
}

// DefaultConfig returns a single working mode (100% quota, 1 processor, 30
// memory units) and the default completion threshold.
func DefaultConfig() *Config {
	return &Config{
		Task: TaskConfig{
			Name:      "hough",
			MaxCycles: policy.DefaultMaxCycles,
		},
		Modes:     []ModeConfig{{ID: 0, Quota: 100, Processors: 1, Memory: 30}},
		Allocator: AllocatorStatic,
		Driver: DriverConfig{
			MaxFailures:  policy.Default().MaxFailures,
			MonitorEvery: 1,
		},
		Hough: hough.DefaultConfig(),
		Log:   logging.DefaultConfig(),
	}
}

// WorkingModes converts Modes.
func (c *Config) WorkingModes() ([]allocation.WorkingMode, error) {
	ret := make([]allocation.WorkingMode, 0, len(c.Modes))
	for _, mode := range c.Modes {
		snapshot, err := allocation.NewSnapshot(mode.Quota, mode.Processors, mode.Memory)
		if err != nil {
			return nil, fmt.Errorf("mode %d: %w", mode.ID, err)
		}
		workingMode, err := allocation.NewWorkingMode(mode.ID, snapshot)
		if err != nil {
			return nil, err
		}
		ret = append(ret, workingMode)
	}
	return ret, nil
}

// Policy returns the completion policy of the task.
func (c *Config) Policy() *policy.Policy {
	return &policy.Policy{MaxCycles: c.Task.MaxCycles, MaxFailures: c.Driver.MaxFailures}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs *multierror.Error
	if c.Task.Name == "" {
		errs = multierror.Append(errs, fmt.Errorf("task.name is required"))
	}
	if c.Task.Input == "" {
		errs = multierror.Append(errs, fmt.Errorf("task.input is required"))
	}
	if err := c.Policy().Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.Driver.MonitorEvery < 0 {
		errs = multierror.Append(errs, fmt.Errorf("driver.monitorEvery must be >= 0"))
	}
	switch c.Allocator {
	case AllocatorStatic, AllocatorHost:
	default:
		errs = multierror.Append(errs, fmt.Errorf("unsupported allocator: %q", c.Allocator))
	}
	if len(c.Modes) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("at least one working mode is required"))
	}
	seen := map[int]bool{}
	for _, mode := range c.Modes {
		if seen[mode.ID] {
			errs = multierror.Append(errs, fmt.Errorf("duplicate working mode %d", mode.ID))
		}
		seen[mode.ID] = true
	}
	if _, err := c.WorkingModes(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if !seen[c.InitialMode] {
		errs = multierror.Append(errs, fmt.Errorf("initialMode %d is not declared", c.InitialMode))
	}
	for i, command := range c.Schedule {
		switch command.Kind {
		case driver.KindReconfigure, driver.KindSuspend, driver.KindResume, driver.KindStop:
		default:
			errs = multierror.Append(errs, fmt.Errorf("schedule[%d]: unsupported command %q", i, command.Kind))
		}
		if command.AfterCycle < 1 {
			errs = multierror.Append(errs, fmt.Errorf("schedule[%d]: afterCycle must be >= 1", i))
		}
	}
	if err := c.Hough.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := c.Log.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

// LoadConfig reads a YAML recipe from URL on top of DefaultConfig.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode recipe %s: %w", URL, err)
	}
	return ret, nil
}
