package allocation

import (
	"errors"
	"fmt"
)

// ErrInvalidSnapshot is returned when a snapshot would carry a negative
// resource amount.
var ErrInvalidSnapshot = errors.New("allocation: invalid snapshot")

// Snapshot describes the resources currently granted to a task.  Fields are
// unexported so that a snapshot can only be replaced, never mutated.
type Snapshot struct {
	quota      int
	processors int
	memory     int
}

// NewSnapshot creates a snapshot. quota is a percentage of a processing
// element, memory is expressed in abstract units (MB for the host allocator).
func NewSnapshot(quota, processors, memory int) (Snapshot, error) {
	if quota < 0 || processors < 0 || memory < 0 {
		return Snapshot{}, fmt.Errorf("%w: quota=%d processors=%d memory=%d", ErrInvalidSnapshot, quota, processors, memory)
	}
	return Snapshot{quota: quota, processors: processors, memory: memory}, nil
}

// MustSnapshot is like NewSnapshot but panics on invalid input.  Intended for
// literals in tests and defaults.
func MustSnapshot(quota, processors, memory int) Snapshot {
	ret, err := NewSnapshot(quota, processors, memory)
	if err != nil {
		panic(err)
	}
	return ret
}

// ProcessingQuota returns the granted share of a processing element in percent.
func (s Snapshot) ProcessingQuota() int { return s.quota }

// ProcessorCount returns the number of granted processing elements.
func (s Snapshot) ProcessorCount() int { return s.processors }

// MemoryBudget returns the granted memory.
func (s Snapshot) MemoryBudget() int { return s.memory }

// IsZero reports whether nothing has been granted.
func (s Snapshot) IsZero() bool {
	return s.quota == 0 && s.processors == 0 && s.memory == 0
}

// Parallelism returns the number of workers a work unit may use under this
// allocation; it is never lower than one.
func (s Snapshot) Parallelism() int {
	if s.processors < 1 {
		return 1
	}
	return s.processors
}

func (s Snapshot) String() string {
	return fmt.Sprintf("R<PROC_quota>=%3d, R<PROC_nr>=%2d, R<MEM>=%3d", s.quota, s.processors, s.memory)
}
