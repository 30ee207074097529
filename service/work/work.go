// Package work defines the unit of application work executed by a managed
// task once per cycle.
package work

import (
	"context"
	"image"

	"github.com/viant/houghcircles/model/allocation"
)

// Unit processes one input under the current allocation and returns the
// annotated output.  It must not retain input beyond the call.
type Unit interface {
	Process(ctx context.Context, input image.Image, alloc allocation.Snapshot) (image.Image, error)
}

// Func adapts a function to Unit.
type Func func(ctx context.Context, input image.Image, alloc allocation.Snapshot) (image.Image, error)

// Process calls f.
func (f Func) Process(ctx context.Context, input image.Image, alloc allocation.Snapshot) (image.Image, error) {
	return f(ctx, input, alloc)
}

// Identity returns the input unchanged; useful when only the lifecycle matters.
func Identity() Unit {
	return Func(func(_ context.Context, input image.Image, _ allocation.Snapshot) (image.Image, error) {
		return input, nil
	})
}
