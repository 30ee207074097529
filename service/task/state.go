package task

// State represents the lifecycle phase of a task.
type State string

const (
	StateCreated     State = "created"
	StateInitialized State = "initialized"
	StateConfigured  State = "configured"
	StateRunning     State = "running"
	StateMonitoring  State = "monitoring"
	StateSuspended   State = "suspended"
	StateFailed      State = "failed"
	StateReleased    State = "released"
)

// IsTerminal reports whether no further work can happen in s.
func (s State) IsTerminal() bool {
	return s == StateFailed || s == StateReleased
}

// Op names a lifecycle callback.
type Op string

const (
	OpSetup     Op = "setup"
	OpConfigure Op = "configure"
	OpRun       Op = "run"
	OpMonitor   Op = "monitor"
	OpSuspend   Op = "suspend"
	OpRelease   Op = "release"
)

// permitted lists the states each callback may be invoked from.
var permitted = map[Op][]State{
	OpSetup:     {StateCreated},
	OpConfigure: {StateInitialized, StateConfigured, StateRunning, StateMonitoring, StateSuspended},
	OpRun:       {StateConfigured, StateRunning, StateMonitoring},
	OpMonitor:   {StateRunning, StateMonitoring},
	OpSuspend:   {StateConfigured, StateRunning, StateMonitoring},
	OpRelease:   {StateCreated, StateInitialized, StateConfigured, StateRunning, StateMonitoring, StateSuspended, StateFailed},
}

// Permits reports whether op may be invoked in state s.
func (s State) Permits(op Op) bool {
	for _, candidate := range permitted[op] {
		if candidate == s {
			return true
		}
	}
	return false
}
