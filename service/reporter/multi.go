package reporter

import (
	"context"

	"github.com/viant/houghcircles/service/task"
)

// Multi fans events out to several reporters in order.
type Multi []task.Reporter

// Report implements task.Reporter.
func (m Multi) Report(ctx context.Context, event *task.Event) {
	for _, reporter := range m {
		if reporter != nil {
			reporter.Report(ctx, event)
		}
	}
}
