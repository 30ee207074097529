// Package run defines the persisted record of a driven task.
package run

import (
	"time"

	"github.com/viant/houghcircles/service/dao"
	"github.com/viant/houghcircles/service/dao/criteria"
	"github.com/viant/houghcircles/service/driver"
)

// Record summarises one drive of a task from setup to release.
type Record struct {
	UID              string        `json:"uid"`
	Task             string        `json:"task"`
	Reason           driver.Reason `json:"reason"`
	Cycles           int           `json:"cycles"`
	Failures         int           `json:"failures"`
	Suspensions      int           `json:"suspensions"`
	Reconfigurations int           `json:"reconfigurations"`
	ModeID           int           `json:"modeId"`
	CPS              float64       `json:"cps"`
	StartedAt        time.Time     `json:"startedAt"`
	FinishedAt       time.Time     `json:"finishedAt"`
	Error            string        `json:"error,omitempty"`
}

// Service stores records by UID.
type Service = dao.Service[string, Record]

// NewRecord builds a record from a drive summary and its error.
func NewRecord(summary *driver.Summary, finishedAt time.Time, err error) *Record {
	ret := &Record{
		UID:              summary.UID,
		Task:             summary.Task,
		Reason:           summary.Reason,
		Cycles:           summary.Progress.Cycles,
		Failures:         summary.Progress.Failures,
		Suspensions:      summary.Progress.Suspensions,
		Reconfigurations: summary.Progress.Reconfigurations,
		StartedAt:        summary.Progress.StartedAt,
		FinishedAt:       finishedAt,
	}
	if summary.Telemetry != nil {
		ret.ModeID = summary.Telemetry.ModeID
		ret.CPS = summary.Telemetry.CPS
	}
	if err != nil {
		ret.Error = err.Error()
	}
	return ret
}

// Matches reports whether the record satisfies Task and Reason parameters.
func (r *Record) Matches(parameters []*dao.Parameter) bool {
	return criteria.Match(map[string]string{
		"Task":   r.Task,
		"Reason": string(r.Reason),
	}, parameters)
}
