package reservation

import "github.com/mossdrift/orgshare-backend/internal/pkg/apperror"

// State is the composite workflow state of a reservation. Keeping the
// primary status and the return sub-state in one value rules out
// representable-but-invalid combinations such as a returned reservation
// whose return was never accepted.
type State struct {
	Status Status
	Return ReturnStatus
}

// Named states used by the transition table.
var (
	StatePending        = State{StatusPending, ReturnPending}
	StateApproved       = State{StatusApproved, ReturnPending}
	StateAwaitingVerify = State{StatusApproved, ReturnReturned}
	StateReturnedDone   = State{StatusReturned, ReturnVerified}
	StateRejected       = State{StatusRejected, ReturnPending}
)

// transitions is the full set of permitted composite transitions.
// Rejecting a submitted return sends the reservation back to plain
// approved so the borrower can resubmit; returned and rejected are
// terminal.
var transitions = map[State][]State{
	StatePending:        {StateApproved, StateRejected},
	StateApproved:       {StateAwaitingVerify, StateReturnedDone},
	StateAwaitingVerify: {StateReturnedDone, StateApproved},
}

// Allowed reports whether the transition from one composite state to
// another is permitted.
func Allowed(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionError builds the validation error for a forbidden transition.
func TransitionError(from, to State) *apperror.AppError {
	if from.Status.Terminal() {
		return apperror.Validation("reservation is in a terminal state")
	}
	return apperror.Validation(
		"cannot move reservation from " + string(from.Status) + "/" + string(from.Return) +
			" to " + string(to.Status) + "/" + string(to.Return))
}
