package policy

import "fmt"

// DefaultMaxCycles is the number of cycles after which a task reports that it
// has no more work.
const DefaultMaxCycles = 5

// Policy bounds how long a task keeps running.
//
//   - MaxCycles ends the workload once that many cycles completed; zero or
//     less leaves termination entirely to the resource manager.
//   - MaxFailures stops the driving loop after that many consecutive work
//     failures; zero or less tolerates any number.
//
// A nil *Policy behaves like Default().
type Policy struct {
	MaxCycles   int `json:"maxCycles,omitempty" yaml:"maxCycles,omitempty"`
	MaxFailures int `json:"maxFailures,omitempty" yaml:"maxFailures,omitempty"`
}

// Default returns the default policy.
func Default() *Policy {
	return &Policy{MaxCycles: DefaultMaxCycles, MaxFailures: 3}
}

// Done reports whether cycles completed cycles exhaust the workload.
func (p *Policy) Done(cycles int) bool {
	if p == nil {
		return cycles >= DefaultMaxCycles
	}
	if p.MaxCycles <= 0 {
		return false
	}
	return cycles >= p.MaxCycles
}

// Exhausted reports whether consecutive failures reached the tolerance.
func (p *Policy) Exhausted(failures int) bool {
	if p == nil {
		return Default().Exhausted(failures)
	}
	if p.MaxFailures <= 0 {
		return false
	}
	return failures >= p.MaxFailures
}

// Validate returns an error for inconsistent settings.
func (p *Policy) Validate() error {
	if p == nil {
		return nil
	}
	if p.MaxCycles < 0 {
		return fmt.Errorf("policy.maxCycles must be >= 0")
	}
	if p.MaxFailures < 0 {
		return fmt.Errorf("policy.maxFailures must be >= 0")
	}
	return nil
}
