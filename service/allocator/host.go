package allocator

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/viant/houghcircles/model/allocation"
)

// stubbed in tests
var (
	cpuCounts     = cpu.Counts
	virtualMemory = mem.VirtualMemory
)

const megabyte = 1 << 20

// Host sizes working modes against the machine it runs on.  A mode that
// leaves the processor count or memory at zero gets them derived from its
// processing quota: quota/100 of the logical CPUs (at least one) and the same
// share of the available memory in MB.
type Host struct {
	base Handle
}

var _ Handle = (*Host)(nil)

// Allocation resolves modeID via the base handle and completes it from host capacity.
func (h *Host) Allocation(ctx context.Context, modeID int) (allocation.Snapshot, error) {
	snapshot, err := h.base.Allocation(ctx, modeID)
	if err != nil {
		return allocation.Snapshot{}, err
	}
	processors := snapshot.ProcessorCount()
	memory := snapshot.MemoryBudget()
	share := float64(snapshot.ProcessingQuota()) / 100.0
	if processors == 0 {
		count, err := cpuCounts(true)
		if err != nil {
			return allocation.Snapshot{}, fmt.Errorf("failed to count host cpus: %w", err)
		}
		processors = int(float64(count) * share)
		if processors < 1 {
			processors = 1
		}
		if processors > count {
			processors = count
		}
	}
	if memory == 0 {
		stat, err := virtualMemory()
		if err != nil {
			return allocation.Snapshot{}, fmt.Errorf("failed to read host memory: %w", err)
		}
		memory = int(float64(stat.Available/megabyte) * share)
	}
	return allocation.NewSnapshot(snapshot.ProcessingQuota(), processors, memory)
}

// NewHost wraps base with host sizing.
func NewHost(base Handle) *Host {
	return &Host{base: base}
}
