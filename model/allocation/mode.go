package allocation

import "fmt"

// WorkingMode is an operating point selected by the resource manager.
type WorkingMode struct {
	ID       int      `json:"id" yaml:"id"`
	Snapshot Snapshot `json:"-" yaml:"-"`
}

// NewWorkingMode creates a working mode bound to the supplied snapshot.
func NewWorkingMode(id int, snapshot Snapshot) (WorkingMode, error) {
	if id < 0 {
		return WorkingMode{}, fmt.Errorf("%w: negative working mode id %d", ErrInvalidSnapshot, id)
	}
	return WorkingMode{ID: id, Snapshot: snapshot}, nil
}

func (m WorkingMode) String() string {
	return fmt.Sprintf("AWM[%02d] => %v", m.ID, m.Snapshot)
}
