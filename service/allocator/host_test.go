package allocator

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/mem"
	"github.com/stretchr/testify/assert"
	"github.com/viant/houghcircles/model/allocation"
)

func stubHost(t *testing.T, cpus int, availableMB uint64) {
	prevCPU, prevMem := cpuCounts, virtualMemory
	t.Cleanup(func() {
		cpuCounts, virtualMemory = prevCPU, prevMem
	})
	cpuCounts = func(bool) (int, error) { return cpus, nil }
	virtualMemory = func() (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Available: availableMB * megabyte}, nil
	}
}

func TestHost_Allocation(t *testing.T) {
	stubHost(t, 8, 1000)
	base := NewStatic(
		allocation.WorkingMode{ID: 0, Snapshot: allocation.MustSnapshot(50, 0, 0)},
		allocation.WorkingMode{ID: 1, Snapshot: allocation.MustSnapshot(100, 2, 30)},
		allocation.WorkingMode{ID: 2, Snapshot: allocation.MustSnapshot(5, 0, 0)},
	)
	handle := NewHost(base)
	testCases := []struct {
		name   string
		modeID int
		expect allocation.Snapshot
	}{
		{name: "derived from host", modeID: 0, expect: allocation.MustSnapshot(50, 4, 500)},
		{name: "explicit values kept", modeID: 1, expect: allocation.MustSnapshot(100, 2, 30)},
		{name: "at least one processor", modeID: 2, expect: allocation.MustSnapshot(5, 1, 50)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := handle.Allocation(context.Background(), tc.modeID)
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, actual)
		})
	}
}

func TestHost_Errors(t *testing.T) {
	stubHost(t, 4, 100)
	handle := NewHost(NewStatic(allocation.WorkingMode{ID: 0, Snapshot: allocation.MustSnapshot(50, 0, 0)}))
	_, err := handle.Allocation(context.Background(), 9)
	assert.True(t, errors.Is(err, ErrUnknownMode))

	cpuCounts = func(bool) (int, error) { return 0, errors.New("no cpu info") }
	_, err = handle.Allocation(context.Background(), 0)
	assert.Error(t, err)
}
