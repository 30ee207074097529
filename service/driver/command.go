package driver

import "fmt"

// Kind names a resource manager command.
type Kind string

const (
	KindReconfigure Kind = "reconfigure"
	KindSuspend     Kind = "suspend"
	KindResume      Kind = "resume"
	KindStop        Kind = "stop"
)

// Command is applied by the driver between cycles.  ModeID is used by
// reconfigure and resume.
type Command struct {
	Kind   Kind `json:"kind" yaml:"kind"`
	ModeID int  `json:"modeId,omitempty" yaml:"modeId,omitempty"`
}

func (c Command) String() string {
	switch c.Kind {
	case KindReconfigure, KindResume:
		return fmt.Sprintf("%s(%d)", c.Kind, c.ModeID)
	}
	return string(c.Kind)
}

// Reconfigure returns a command granting modeID.
func Reconfigure(modeID int) Command { return Command{Kind: KindReconfigure, ModeID: modeID} }

// Suspend returns a command pausing the task until resumed.
func Suspend() Command { return Command{Kind: KindSuspend} }

// Resume returns a command resuming a suspended task under modeID.
func Resume(modeID int) Command { return Command{Kind: KindResume, ModeID: modeID} }

// Stop returns a command ending the driving loop.
func Stop() Command { return Command{Kind: KindStop} }
