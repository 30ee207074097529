package task

import (
	"time"

	"github.com/viant/houghcircles/model/allocation"
)

// Telemetry is the progress report produced by Monitor.
type Telemetry struct {
	Task       string              `json:"task"`
	UID        string              `json:"uid"`
	ModeID     int                 `json:"modeId"`
	Cycles     int                 `json:"cycles"`
	Failures   int                 `json:"failures"`
	CPS        float64             `json:"cps"`
	Elapsed    time.Duration       `json:"elapsed"`
	Allocation allocation.Snapshot `json:"-"`
}
