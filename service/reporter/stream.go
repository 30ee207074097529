package reporter

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/viant/houghcircles/service/event"
	"github.com/viant/houghcircles/service/task"
)

// Stream publishes task events on the event bus.
type Stream struct {
	publisher *event.Publisher[task.Event]
	log       logrus.FieldLogger
}

// Report implements task.Reporter.
func (s *Stream) Report(ctx context.Context, e *task.Event) {
	eventContext := &event.Context{
		Task:      e.Task,
		UID:       e.UID,
		EventType: string(e.Type),
		Op:        string(e.Op),
	}
	message := event.NewEvent(eventContext, *e)
	message.CreatedAt = e.CreatedAt
	if e.Err != nil {
		message.Metadata["error"] = e.Err.Error()
	}
	if err := s.publisher.Publish(ctx, message); err != nil {
		s.log.WithError(err).Warn("failed to publish task event")
	}
}

// NewStream creates a reporter publishing to srv.  Listen with
// event.SetListenerOf[task.Event].
func NewStream(srv *event.Service, log logrus.FieldLogger) *Stream {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Stream{publisher: event.PublisherOf[task.Event](srv), log: log}
}
