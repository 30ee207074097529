package houghcircles

import (
	"context"
	"errors"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/viant/houghcircles/service/driver"
	"github.com/viant/houghcircles/service/messaging"
	"github.com/viant/houghcircles/service/task"
)

// scheduler submits configured commands once the task completed the
// requested number of cycles.  It reports on the driving goroutine, so it
// never waits for queue capacity.
type scheduler struct {
	driver  *driver.Driver
	pending []ScheduledCommand
	logger  logrus.FieldLogger
}

func (s *scheduler) Report(ctx context.Context, event *task.Event) {
	if event.Type != task.EventCycle || event.Telemetry == nil {
		return
	}
	for len(s.pending) > 0 && s.pending[0].AfterCycle <= event.Telemetry.Cycles {
		next := s.pending[0]
		command := driver.Command{Kind: next.Kind, ModeID: next.ModeID}
		err := s.driver.TrySubmit(command)
		if errors.Is(err, messaging.ErrFull) {
			s.logger.WithField("command", command.String()).Warn("command queue full, deferring scheduled commands to the next cycle")
			return
		}
		s.pending = s.pending[1:]
		if err != nil {
			s.logger.WithError(err).WithField("command", command.String()).Warn("failed to submit scheduled command")
		}
	}
}

func newScheduler(commands []ScheduledCommand, logger logrus.FieldLogger) *scheduler {
	pending := make([]ScheduledCommand, len(commands))
	copy(pending, commands)
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].AfterCycle < pending[j].AfterCycle })
	return &scheduler{pending: pending, logger: logger}
}
