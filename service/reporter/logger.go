package reporter

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/viant/houghcircles/service/task"
)

// Logger writes task events as structured log entries.
type Logger struct {
	log logrus.FieldLogger
}

// Report implements task.Reporter.
func (l *Logger) Report(_ context.Context, event *task.Event) {
	entry := l.log.WithFields(logrus.Fields{
		"task": event.Task,
		"uid":  event.UID,
	})
	switch event.Type {
	case task.EventCreated:
		entry.Debug("task created")
	case task.EventTransition:
		entry.WithFields(logrus.Fields{"from": event.From, "to": event.To}).Debug("state changed")
	case task.EventConfigured:
		entry.WithField("mode", event.ModeID).Infof("configured with %v", event.Allocation)
	case task.EventCycle:
		if event.Telemetry != nil {
			entry = entry.WithField("cycle", event.Telemetry.Cycles)
		}
		entry.Debug("cycle completed")
	case task.EventMonitor:
		if t := event.Telemetry; t != nil {
			entry.WithFields(logrus.Fields{
				"mode":     t.ModeID,
				"cycles":   t.Cycles,
				"failures": t.Failures,
			}).Infof("%.3f cycles/s", t.CPS)
		}
	case task.EventError:
		entry.WithField("op", event.Op).WithError(event.Err).Error("lifecycle callback failed")
	}
}

// NewLogger creates a logging reporter; a nil logger uses the standard logger.
func NewLogger(log logrus.FieldLogger) *Logger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Logger{log: log}
}
