package allocator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/houghcircles/model/allocation"
)

func TestStatic_Allocation(t *testing.T) {
	handle := NewStatic(
		allocation.WorkingMode{ID: 0, Snapshot: allocation.MustSnapshot(100, 1, 30)},
		allocation.WorkingMode{ID: 1, Snapshot: allocation.MustSnapshot(200, 2, 60)},
	)
	testCases := []struct {
		name      string
		modeID    int
		expect    allocation.Snapshot
		expectErr bool
	}{
		{name: "mode 0", modeID: 0, expect: allocation.MustSnapshot(100, 1, 30)},
		{name: "mode 1", modeID: 1, expect: allocation.MustSnapshot(200, 2, 60)},
		{name: "unknown", modeID: 7, expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := handle.Allocation(context.Background(), tc.modeID)
			if tc.expectErr {
				assert.True(t, errors.Is(err, ErrUnknownMode))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, actual)
		})
	}
}

func TestStatic_GrantRevoke(t *testing.T) {
	handle := NewStatic()
	ctx := context.Background()
	handle.Grant(allocation.WorkingMode{ID: 3, Snapshot: allocation.MustSnapshot(50, 1, 10)})
	snapshot, err := handle.Allocation(ctx, 3)
	assert.NoError(t, err)
	assert.Equal(t, 50, snapshot.ProcessingQuota())

	handle.Grant(allocation.WorkingMode{ID: 3, Snapshot: allocation.MustSnapshot(80, 1, 10)})
	snapshot, err = handle.Allocation(ctx, 3)
	assert.NoError(t, err)
	assert.Equal(t, 80, snapshot.ProcessingQuota())
	assert.Len(t, handle.Modes(), 1)

	handle.Revoke(3)
	_, err = handle.Allocation(ctx, 3)
	assert.Error(t, err)
	assert.Empty(t, handle.Modes())
}

func TestStatic_CancelledContext(t *testing.T) {
	handle := NewStatic(allocation.WorkingMode{ID: 0, Snapshot: allocation.MustSnapshot(100, 1, 30)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := handle.Allocation(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
