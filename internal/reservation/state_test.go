package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
)

func TestAllowedTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
		want bool
	}{
		{"pending to approved", StatePending, StateApproved, true},
		{"pending to rejected", StatePending, StateRejected, true},
		{"pending straight to returned", StatePending, StateReturnedDone, false},
		{"approved to awaiting verify", StateApproved, StateAwaitingVerify, true},
		{"approved to returned (no verification)", StateApproved, StateReturnedDone, true},
		{"approved back to pending", StateApproved, StatePending, false},
		{"awaiting verify accepted", StateAwaitingVerify, StateReturnedDone, true},
		{"awaiting verify rejected reopens loan", StateAwaitingVerify, StateApproved, true},
		{"awaiting verify to rejected", StateAwaitingVerify, StateRejected, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.from, tt.to))
		})
	}
}

func TestTerminalStatesAdmitNothing(t *testing.T) {
	all := []State{StatePending, StateApproved, StateAwaitingVerify, StateReturnedDone, StateRejected}

	for _, to := range all {
		assert.False(t, Allowed(StateReturnedDone, to), "returned must admit no transition to %v", to)
		assert.False(t, Allowed(StateRejected, to), "rejected must admit no transition to %v", to)
	}
}

func TestTransitionError(t *testing.T) {
	err := TransitionError(StateRejected, StateApproved)
	assert.Equal(t, apperror.KindValidation, err.Kind)
	assert.Equal(t, "reservation is in a terminal state", err.Message)

	err = TransitionError(StatePending, StateReturnedDone)
	assert.Equal(t, apperror.KindValidation, err.Kind)
	assert.Contains(t, err.Message, "pending")
	assert.Contains(t, err.Message, "returned")
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.True(t, StatusReturned.Terminal())
	assert.True(t, StatusRejected.Terminal())
}
