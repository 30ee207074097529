package allocator

import (
	"context"
	"errors"

	"github.com/viant/houghcircles/model/allocation"
)

// ErrUnknownMode is returned when a working mode id cannot be resolved.
var ErrUnknownMode = errors.New("allocator: unknown working mode")

// Handle resolves working mode ids into allocation snapshots.
type Handle interface {
	Allocation(ctx context.Context, modeID int) (allocation.Snapshot, error)
}

// HandleFunc adapts a function to Handle.
type HandleFunc func(ctx context.Context, modeID int) (allocation.Snapshot, error)

// Allocation calls f(ctx, modeID).
func (f HandleFunc) Allocation(ctx context.Context, modeID int) (allocation.Snapshot, error) {
	return f(ctx, modeID)
}
