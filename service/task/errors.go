package task

import "errors"

var (
	// ErrResourceUnavailable is returned by Setup when the work source cannot
	// be acquired.  It is fatal to the task instance.
	ErrResourceUnavailable = errors.New("task: resource unavailable")

	// ErrAllocationQueryFailed is returned by Configure when the working mode
	// cannot be resolved.  The task keeps its previous state and allocation.
	ErrAllocationQueryFailed = errors.New("task: allocation query failed")

	// ErrWorkExecutionFailed is returned by Run when the work unit fails.  The
	// cycle is not counted; the task accepts further cycles.
	ErrWorkExecutionFailed = errors.New("task: work execution failed")

	// ErrLifecycleViolation is returned when a callback is invoked in a state
	// that does not permit it.
	ErrLifecycleViolation = errors.New("task: lifecycle violation")
)

// IsFatal reports whether err ends the task instance.
func IsFatal(err error) bool {
	return errors.Is(err, ErrResourceUnavailable)
}
