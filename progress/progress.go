package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/houghcircles/internal/clock"
)

// Delta represents an incremental counter change emitted by the driver.
type Delta struct {
	Cycles           int
	Failures         int
	Monitors         int
	Suspensions      int
	Reconfigurations int
}

// Progress keeps aggregated counters for a single driven task.  It is safe
// for concurrent use.
type Progress struct {
	Task      string
	UID       string
	StartedAt time.Time

	Cycles           int
	Failures         int
	Monitors         int
	Suspensions      int
	Reconfigurations int

	sync.Mutex
	onChange func(Progress)
}

// Update applies the supplied delta.  The onChange callback, if any, is
// invoked with a copy outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.Lock()

	p.Cycles += d.Cycles
	p.Failures += d.Failures
	p.Monitors += d.Monitors
	p.Suspensions += d.Suspensions
	p.Reconfigurations += d.Reconfigurations

	snapshot := p.copy()
	cb := p.onChange

	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

func (p *Progress) copy() Progress {
	return Progress{
		Task:             p.Task,
		UID:              p.UID,
		StartedAt:        p.StartedAt,
		Cycles:           p.Cycles,
		Failures:         p.Failures,
		Monitors:         p.Monitors,
		Suspensions:      p.Suspensions,
		Reconfigurations: p.Reconfigurations,
	}
}

// OnChange registers a callback that is invoked after every Update.  Passing
// nil disables it.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker, embeds it in a derived context and
// returns both.
func WithNewTracker(ctx context.Context, taskName, uid string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		Task:      taskName,
		UID:       uid,
		StartedAt: clock.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// GetSnapshot combines FromContext and Snapshot.
func GetSnapshot(ctx context.Context) (Progress, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Progress{}, false
}

// UpdateCtx applies d to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
