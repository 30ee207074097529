package run

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/houghcircles/progress"
	"github.com/viant/houghcircles/service/driver"
	"github.com/viant/houghcircles/service/task"
)

func TestNewRecord(t *testing.T) {
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	summary := &driver.Summary{
		Task:   "coins",
		UID:    "uid-1",
		Reason: driver.ReasonFailed,
		Progress: progress.Progress{
			StartedAt:        started,
			Cycles:           3,
			Failures:         2,
			Suspensions:      1,
			Reconfigurations: 4,
		},
		Telemetry: &task.Telemetry{ModeID: 2, CPS: 1.5},
	}
	record := NewRecord(summary, started.Add(time.Second), errors.New("boom"))
	assert.Equal(t, &Record{
		UID:              "uid-1",
		Task:             "coins",
		Reason:           driver.ReasonFailed,
		Cycles:           3,
		Failures:         2,
		Suspensions:      1,
		Reconfigurations: 4,
		ModeID:           2,
		CPS:              1.5,
		StartedAt:        started,
		FinishedAt:       started.Add(time.Second),
		Error:            "boom",
	}, record)

	summary.Telemetry = nil
	record = NewRecord(summary, started, nil)
	assert.Empty(t, record.Error)
	assert.Zero(t, record.CPS)
}
