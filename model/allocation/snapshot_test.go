package allocation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSnapshot(t *testing.T) {
	testCases := []struct {
		name       string
		quota      int
		processors int
		memory     int
		expectErr  bool
	}{
		{name: "typical", quota: 100, processors: 1, memory: 30},
		{name: "zero", quota: 0, processors: 0, memory: 0},
		{name: "negative quota", quota: -1, processors: 1, memory: 30, expectErr: true},
		{name: "negative processors", quota: 100, processors: -2, memory: 30, expectErr: true},
		{name: "negative memory", quota: 100, processors: 1, memory: -30, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot, err := NewSnapshot(tc.quota, tc.processors, tc.memory)
			if tc.expectErr {
				assert.True(t, errors.Is(err, ErrInvalidSnapshot))
				assert.True(t, snapshot.IsZero())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.quota, snapshot.ProcessingQuota())
			assert.Equal(t, tc.processors, snapshot.ProcessorCount())
			assert.Equal(t, tc.memory, snapshot.MemoryBudget())
		})
	}
}

func TestSnapshot_Parallelism(t *testing.T) {
	assert.Equal(t, 1, MustSnapshot(100, 0, 10).Parallelism())
	assert.Equal(t, 4, MustSnapshot(400, 4, 10).Parallelism())
}

func TestNewWorkingMode(t *testing.T) {
	mode, err := NewWorkingMode(2, MustSnapshot(50, 1, 10))
	assert.NoError(t, err)
	assert.Equal(t, 2, mode.ID)
	assert.Equal(t, "AWM[02] => R<PROC_quota>= 50, R<PROC_nr>= 1, R<MEM>= 10", mode.String())

	_, err = NewWorkingMode(-1, Snapshot{})
	assert.Error(t, err)
}
