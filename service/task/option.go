package task

import (
	"github.com/jonboulle/clockwork"
	"github.com/viant/houghcircles/policy"
	"github.com/viant/houghcircles/service/work"
)

// Option configures a Task.
type Option func(t *Task)

// WithSource sets the work source location read during Setup.
func WithSource(URL string) Option {
	return func(t *Task) {
		t.sourceURL = URL
	}
}

// WithOutput sets the location the last annotated result is written to on Release.
func WithOutput(URL string) Option {
	return func(t *Task) {
		t.outputURL = URL
	}
}

// WithRecipe sets the configuration reference the task was built from.
func WithRecipe(recipe string) Option {
	return func(t *Task) {
		t.recipe = recipe
	}
}

// WithWorkUnit sets the unit executed on every cycle.
func WithWorkUnit(unit work.Unit) Option {
	return func(t *Task) {
		t.unit = unit
	}
}

// WithStore sets the image store used for the source and the output.
func WithStore(store Store) Option {
	return func(t *Task) {
		t.store = store
	}
}

// WithReporter sets the event reporter.
func WithReporter(reporter Reporter) Option {
	return func(t *Task) {
		t.reporter = reporter
	}
}

// WithPolicy sets the completion policy.
func WithPolicy(p *policy.Policy) Option {
	return func(t *Task) {
		t.policy = p
	}
}

// WithMaxCycles sets the completion threshold.
func WithMaxCycles(count int) Option {
	return func(t *Task) {
		if t.policy == nil {
			t.policy = policy.Default()
		}
		t.policy.MaxCycles = count
	}
}

// WithClock sets the clock used for throughput.
func WithClock(clock clockwork.Clock) Option {
	return func(t *Task) {
		t.clock = clock
	}
}
