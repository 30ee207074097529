package allocator

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/viant/houghcircles/model/allocation"
)

// Static serves snapshots from a table of working modes.  The table can be
// changed by the resource manager at any time; each lookup returns a copy.
type Static struct {
	modes map[int]allocation.Snapshot
	mux   sync.RWMutex
}

var _ Handle = (*Static)(nil)

// Allocation returns the snapshot registered for modeID.
func (s *Static) Allocation(ctx context.Context, modeID int) (allocation.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return allocation.Snapshot{}, err
	}
	s.mux.RLock()
	defer s.mux.RUnlock()
	snapshot, ok := s.modes[modeID]
	if !ok {
		return allocation.Snapshot{}, fmt.Errorf("%w: %d", ErrUnknownMode, modeID)
	}
	return snapshot, nil
}

// Grant registers or replaces working modes.
func (s *Static) Grant(modes ...allocation.WorkingMode) {
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, mode := range modes {
		s.modes[mode.ID] = mode.Snapshot
	}
}

// Revoke removes a working mode; later lookups of the id fail.
func (s *Static) Revoke(modeID int) {
	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.modes, modeID)
}

// Modes returns the registered working modes ordered by id.
func (s *Static) Modes() []allocation.WorkingMode {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret := make([]allocation.WorkingMode, 0, len(s.modes))
	for id, snapshot := range s.modes {
		ret = append(ret, allocation.WorkingMode{ID: id, Snapshot: snapshot})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret
}

// NewStatic creates a static handle.
func NewStatic(modes ...allocation.WorkingMode) *Static {
	ret := &Static{modes: map[int]allocation.Snapshot{}}
	ret.Grant(modes...)
	return ret
}
