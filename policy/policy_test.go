package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Done(t *testing.T) {
	testCases := []struct {
		name   string
		policy *Policy
		cycles int
		expect bool
	}{
		{name: "nil below default", policy: nil, cycles: 4, expect: false},
		{name: "nil at default", policy: nil, cycles: 5, expect: true},
		{name: "below limit", policy: &Policy{MaxCycles: 3}, cycles: 2, expect: false},
		{name: "at limit", policy: &Policy{MaxCycles: 3}, cycles: 3, expect: true},
		{name: "unbounded", policy: &Policy{}, cycles: 1000, expect: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.policy.Done(tc.cycles))
		})
	}
}

func TestPolicy_Exhausted(t *testing.T) {
	assert.False(t, (&Policy{}).Exhausted(100))
	assert.False(t, (&Policy{MaxFailures: 2}).Exhausted(1))
	assert.True(t, (&Policy{MaxFailures: 2}).Exhausted(2))
	var p *Policy
	assert.True(t, p.Exhausted(3))
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, Default().Validate())
	assert.Error(t, (&Policy{MaxCycles: -1}).Validate())
	assert.Error(t, (&Policy{MaxFailures: -1}).Validate())
}
