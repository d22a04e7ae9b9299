package reservation

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.NotFound("reservation not found")
	ErrInvalidRange      = apperror.Validation("end date must be after start date")
	ErrNothingToSchedule = apperror.Validation("recurrence rule produced nothing to schedule")
	ErrNotLoanable       = apperror.Validation("resource is not loanable")
	ErrOutOfService      = apperror.Validation("resource is retired or lost and cannot be reserved")
	ErrPastUsableUntil   = apperror.Validation("requested range extends past the resource's usability deadline")
	ErrInvalidStatus     = apperror.Validation("invalid reservation status")
	ErrInvalidCondition  = apperror.Validation("invalid return condition")
)

// Status is the primary lifecycle status of a reservation.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusReturned Status = "returned"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusReturned, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further primary transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusReturned || s == StatusRejected
}

// ReturnStatus is the return-verification sub-state of a reservation.
type ReturnStatus string

const (
	ReturnPending  ReturnStatus = "pending"  // nothing submitted yet
	ReturnReturned ReturnStatus = "returned" // borrower submitted, awaiting verification
	ReturnVerified ReturnStatus = "verified"
	ReturnRejected ReturnStatus = "rejected"
)

func (s ReturnStatus) Valid() bool {
	switch s {
	case ReturnPending, ReturnReturned, ReturnVerified, ReturnRejected:
		return true
	}
	return false
}

// Condition classifies the state a resource came back in.
// Used for reporting only; it never drives further transitions.
type Condition string

const (
	ConditionGood         Condition = "good"
	ConditionDamaged      Condition = "damaged"
	ConditionMissingParts Condition = "missing_parts"
	ConditionDirty        Condition = "dirty"
	ConditionOther        Condition = "other"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionGood, ConditionDamaged, ConditionMissingParts, ConditionDirty, ConditionOther:
		return true
	}
	return false
}

// Reservation is one concrete date-range claim on a resource.
// Instances generated from a recurrence rule point back to the first
// instance through ParentID; the rule itself is stored on the parent only.
type Reservation struct {
	ID             string
	ResourceID     string
	BorrowerID     string
	OrganizationID string
	StartDate      time.Time
	EndDate        time.Time
	Status         Status
	Note           *string
	Recurrence     *Rule
	ParentID       *string

	ReturnStatus      ReturnStatus
	ReturnNote        *string
	ReturnCondition   *Condition
	ReturnSubmittedAt *time.Time
	VerifiedBy        *string
	VerifiedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// State returns the composite workflow state of the reservation.
func (r *Reservation) State() State {
	return State{Status: r.Status, Return: r.ReturnStatus}
}

// Filter defines parameters for listing reservations.
type Filter struct {
	OrganizationID string
	ResourceID     string
	BorrowerID     string
	Status         string
	Page           int
	PageSize       int
}

// ConflictError reports the first recurrence instance that overlaps an
// existing non-terminal reservation, with enough detail for the caller to
// adjust dates. The whole batch is rejected; nothing is created.
type ConflictError struct {
	Index          int
	Start          time.Time
	End            time.Time
	ExistingID     string
	ExistingStatus Status
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("instance %d (%s to %s) overlaps an existing %s reservation",
		e.Index, e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"), e.ExistingStatus)
}

// Conflict wraps a ConflictError so transport layers map it to 409.
func (e *ConflictError) Conflict() *apperror.AppError {
	return apperror.Wrap(e, apperror.KindConflict, http.StatusConflict, e.Error())
}
