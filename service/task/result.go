package task

// Result is the outcome of a Run cycle.
type Result int

const (
	// ResultError accompanies a non nil error.
	ResultError Result = iota
	// ResultOK asks the resource manager for another cycle.
	ResultOK
	// ResultNoMoreWork tells the resource manager not to schedule further cycles.
	ResultNoMoreWork
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultNoMoreWork:
		return "noMoreWork"
	default:
		return "error"
	}
}
