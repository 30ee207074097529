package event

import (
	"time"

	"github.com/viant/houghcircles/internal/clock"
)

// Context identifies the emitter of an event.
type Context struct {
	Task      string `json:"task"`
	UID       string `json:"uid"`
	EventType string `json:"eventType"`
	Op        string `json:"op,omitempty"`
}

// Event wraps a typed payload for the event bus.
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
