package task

import (
	"context"
	"time"

	"github.com/viant/houghcircles/model/allocation"
)

// EventType classifies task events.
type EventType string

const (
	EventCreated    EventType = "created"
	EventTransition EventType = "transition"
	EventConfigured EventType = "configured"
	EventCycle      EventType = "cycle"
	EventMonitor    EventType = "monitor"
	EventError      EventType = "error"
)

// Event describes something a task did.  Events are the only way a task
// produces log or telemetry output.
type Event struct {
	Type       EventType           `json:"type"`
	Task       string              `json:"task"`
	UID        string              `json:"uid"`
	Op         Op                  `json:"op,omitempty"`
	From       State               `json:"from,omitempty"`
	To         State               `json:"to,omitempty"`
	ModeID     int                 `json:"modeId"`
	Allocation allocation.Snapshot `json:"-"`
	Telemetry  *Telemetry          `json:"telemetry,omitempty"`
	Err        error               `json:"-"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// Reporter receives task events.  Implementations must not call back into the task.
type Reporter interface {
	Report(ctx context.Context, event *Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, event *Event)

// Report calls f.
func (f ReporterFunc) Report(ctx context.Context, event *Event) {
	f(ctx, event)
}

type nopReporter struct{}

func (nopReporter) Report(context.Context, *Event) {}
