package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mossdrift/orgshare-backend/internal/audit"
	"github.com/mossdrift/orgshare-backend/internal/evidence"
	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/logger"
	"github.com/mossdrift/orgshare-backend/internal/notification"
	"github.com/mossdrift/orgshare-backend/internal/organization"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/policy"
	"github.com/mossdrift/orgshare-backend/internal/resource"
)

// disabledStatuses are the reservation statuses that block a candidate
// date range.
var disabledStatuses = []Status{StatusPending, StatusApproved}

type CreateRequest struct {
	ResourceID string
	BorrowerID string
	Start      time.Time
	End        time.Time
	Note       *string
	Recurrence *Rule
}

// CreateResult reports the created instances plus the role that will be
// required to approve them, resolved up front for display.
type CreateResult struct {
	Created      []*Reservation
	RequiredRole identity.Role
	Warning      string
}

// ChangeResult is the outcome of a state transition. Warning is set when
// the transition committed but a fire-and-forget side effect failed.
type ChangeResult struct {
	Reservation *Reservation
	Warning     string
}

// Service is the workflow orchestrator: it composes recurrence expansion,
// availability checking, policy resolution and the state machine into the
// reservation operations exposed to transports.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*CreateResult, error)
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	// ChangeStatus applies an approver-driven transition (approve, reject,
	// or direct return when the organization skips verification).
	ChangeStatus(ctx context.Context, id string, next Status, actor identity.Principal) (*ChangeResult, error)

	// SubmitReturn is the borrower-side entry into the return workflow.
	SubmitReturn(ctx context.Context, id string, actor identity.Principal, note *string) (*ChangeResult, error)

	// VerifyReturn records a privileged verification decision on a
	// submitted return.
	VerifyReturn(ctx context.Context, id string, decision ReturnStatus, condition Condition, actor identity.Principal) (*ChangeResult, error)

	// RequiredRoleFor resolves the approver role for a resource, for
	// display contexts. Same precedence as the transition guard.
	RequiredRoleFor(ctx context.Context, resourceID string) (identity.Role, error)
}

type service struct {
	repo          Repository
	resources     resource.Service
	policies      policy.Service
	organizations organization.Service
	evidences     evidence.Service
	audits        audit.Service
	notifications notification.Service
}

func NewService(
	repo Repository,
	resources resource.Service,
	policies policy.Service,
	organizations organization.Service,
	evidences evidence.Service,
	audits audit.Service,
	notifications notification.Service,
) Service {
	return &service{
		repo:          repo,
		resources:     resources,
		policies:      policies,
		organizations: organizations,
		evidences:     evidences,
		audits:        audits,
		notifications: notifications,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if !req.End.After(req.Start) {
		return nil, ErrInvalidRange
	}

	res, err := s.resources.GetByID(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}
	if !res.Loanable {
		return nil, ErrNotLoanable
	}
	if res.Status == resource.StatusRetired || res.Status == resource.StatusLost {
		return nil, ErrOutOfService
	}

	spans, err := Expand(req.Start, req.End, req.Recurrence)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, ErrNothingToSchedule
	}

	if res.UsableUntil != nil {
		last := spans[len(spans)-1]
		if last.End.After(*res.UsableUntil) {
			return nil, ErrPastUsableUntil
		}
	}

	// Resolved up front so the caller can show who has to approve.
	requiredRole, err := s.policies.Resolve(ctx, res.OrganizationID, res.Kind, res.OwnerScope, res.OwnerDepartment)
	if err != nil {
		return nil, err
	}

	// Every instance must be free; one conflict rejects the whole batch.
	for i, sp := range spans {
		existing, err := s.repo.FindOverlap(ctx, res.ID, sp.Start, sp.End, disabledStatuses)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			ce := &ConflictError{
				Index:          i,
				Start:          sp.Start,
				End:            sp.End,
				ExistingID:     existing.ID,
				ExistingStatus: existing.Status,
			}
			return nil, ce.Conflict()
		}
	}

	reservations := make([]*Reservation, 0, len(spans))
	parentID := uuid.New().String()
	for i, sp := range spans {
		r := &Reservation{
			ID:             parentID,
			ResourceID:     res.ID,
			BorrowerID:     req.BorrowerID,
			OrganizationID: res.OrganizationID,
			StartDate:      sp.Start,
			EndDate:        sp.End,
			Status:         StatusPending,
			Note:           req.Note,
			ReturnStatus:   ReturnPending,
		}
		if i == 0 {
			r.Recurrence = req.Recurrence
		} else {
			r.ID = uuid.New().String()
			r.ParentID = &parentID
		}
		reservations = append(reservations, r)
	}

	if err := s.repo.CreateBatch(ctx, reservations); err != nil {
		var ce *ConflictError
		if errors.As(err, &ce) {
			return nil, ce.Conflict()
		}
		return nil, err
	}

	parent := reservations[0]
	warning := s.recordSideEffects(ctx, parent, req.BorrowerID, "reservation.create", parent.State(), parent.State(),
		"Reservation requested", "Your reservation request was submitted and is awaiting approval.")

	return &CreateResult{Created: reservations, RequiredRole: requiredRole, Warning: warning}, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ChangeStatus(ctx context.Context, id string, next Status, actor identity.Principal) (*ChangeResult, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.OrganizationID != actor.OrganizationID {
		return nil, apperror.Permission("reservation belongs to another organization")
	}

	// Plain members never transition reservations, whatever the policy says.
	if !actor.Role.AtLeast(identity.RoleManager) {
		return nil, apperror.Permission("only managers or admins may change reservation status")
	}

	res, err := s.resources.GetByID(ctx, r.ResourceID)
	if err != nil {
		return nil, err
	}

	requiredRole, err := s.policies.Resolve(ctx, res.OrganizationID, res.Kind, res.OwnerScope, res.OwnerDepartment)
	if err != nil {
		return nil, err
	}
	if !actor.Role.AtLeast(requiredRole) {
		return nil, apperror.Permission("approving this resource requires the " + string(requiredRole) + " role")
	}

	from := r.State()
	var target State
	switch next {
	case StatusApproved:
		target = StateApproved
	case StatusRejected:
		target = StateRejected
	case StatusReturned:
		org, err := s.organizations.GetByID(ctx, r.OrganizationID)
		if err != nil {
			return nil, err
		}
		if org.ReturnPolicy.Enabled && org.ReturnPolicy.RequireVerification {
			return nil, apperror.Validation("this organization requires a submitted return and a verification decision")
		}
		target = StateReturnedDone
	default:
		return nil, TransitionError(from, State{Status: next, Return: from.Return})
	}

	if !Allowed(from, target) {
		return nil, TransitionError(from, target)
	}

	if err := s.applyTransition(ctx, id, from, target, StateChange{}); err != nil {
		return nil, err
	}
	r.Status = target.Status
	r.ReturnStatus = target.Return

	var warning string
	switch target {
	case StateApproved:
		if err := s.resources.SyncStatus(ctx, r.ResourceID, resource.StatusRented, true); err != nil {
			warning = appendWarning(warning, "reservation approved but resource status sync failed")
			logger.Error("resource status sync failed", "resource_id", r.ResourceID, "error", err)
		}
	case StateReturnedDone:
		warning = appendWarning(warning,
			s.releaseResource(ctx, r.ResourceID, "reservation returned but resource status sync failed"))
	}

	title, message := transitionCopy(target)
	warning = appendWarning(warning,
		s.recordSideEffects(ctx, r, actor.UserID, "reservation.status_change", from, target, title, message))

	return &ChangeResult{Reservation: r, Warning: warning}, nil
}

func (s *service) SubmitReturn(ctx context.Context, id string, actor identity.Principal, note *string) (*ChangeResult, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.BorrowerID != actor.UserID {
		return nil, apperror.Permission("only the borrower may submit a return")
	}

	from := r.State()
	if from == StateAwaitingVerify {
		return nil, apperror.Validation("a return has already been submitted for this reservation")
	}
	if from != StateApproved {
		return nil, TransitionError(from, StateAwaitingVerify)
	}

	org, err := s.organizations.GetByID(ctx, r.OrganizationID)
	if err != nil {
		return nil, err
	}
	rp := org.ReturnPolicy

	if rp.Enabled && rp.RequirePhoto {
		attached, err := s.evidences.ListByReservation(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(attached) == 0 {
			return nil, apperror.Validation("photo evidence is required before submitting a return")
		}
	}

	now := time.Now()
	change := StateChange{ReturnNote: note, ReturnSubmittedAt: &now}

	// Without a verification requirement the return is accepted on the spot.
	target := StateAwaitingVerify
	if !rp.Enabled || !rp.RequireVerification {
		target = StateReturnedDone
	}

	if err := s.applyTransition(ctx, id, from, target, change); err != nil {
		return nil, err
	}
	r.Status = target.Status
	r.ReturnStatus = target.Return
	r.ReturnNote = note
	r.ReturnSubmittedAt = &now

	var warning string
	if target == StateReturnedDone {
		warning = appendWarning(warning,
			s.releaseResource(ctx, r.ResourceID, "return accepted but resource status sync failed"))
	}

	title, message := "Return submitted", "Your return was submitted and is awaiting verification."
	if target == StateReturnedDone {
		title, message = "Return accepted", "Your return was accepted and the resource is available again."
	}
	warning = appendWarning(warning,
		s.recordSideEffects(ctx, r, actor.UserID, "reservation.return_submit", from, target, title, message))

	return &ChangeResult{Reservation: r, Warning: warning}, nil
}

func (s *service) VerifyReturn(ctx context.Context, id string, decision ReturnStatus, condition Condition, actor identity.Principal) (*ChangeResult, error) {
	if decision != ReturnVerified && decision != ReturnRejected {
		return nil, apperror.Validation("verification decision must be verified or rejected")
	}
	if !condition.Valid() {
		return nil, ErrInvalidCondition
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.OrganizationID != actor.OrganizationID {
		return nil, apperror.Permission("reservation belongs to another organization")
	}
	if !actor.Role.AtLeast(identity.RoleManager) {
		return nil, apperror.Permission("only managers or admins may verify returns")
	}

	res, err := s.resources.GetByID(ctx, r.ResourceID)
	if err != nil {
		return nil, err
	}
	requiredRole, err := s.policies.Resolve(ctx, res.OrganizationID, res.Kind, res.OwnerScope, res.OwnerDepartment)
	if err != nil {
		return nil, err
	}
	if !actor.Role.AtLeast(requiredRole) {
		return nil, apperror.Permission("verifying this resource requires the " + string(requiredRole) + " role")
	}

	from := r.State()
	if from != StateAwaitingVerify {
		return nil, apperror.Validation("no submitted return is awaiting verification")
	}

	now := time.Now()
	change := StateChange{
		ReturnCondition: &condition,
		VerifiedBy:      &actor.UserID,
		VerifiedAt:      &now,
	}

	// A rejected verification reopens the loan; the borrower resubmits.
	target := StateReturnedDone
	if decision == ReturnRejected {
		target = StateApproved
	}

	if err := s.applyTransition(ctx, id, from, target, change); err != nil {
		return nil, err
	}
	r.Status = target.Status
	r.ReturnStatus = target.Return
	r.ReturnCondition = &condition
	r.VerifiedBy = &actor.UserID
	r.VerifiedAt = &now

	var warning string
	if target == StateReturnedDone {
		warning = appendWarning(warning,
			s.releaseResource(ctx, r.ResourceID, "return verified but resource status sync failed"))
	}

	title, message := "Return verified", "Your return was verified. Thanks for bringing it back."
	if decision == ReturnRejected {
		title, message = "Return rejected", "Your return was rejected. Please resubmit after addressing the issues."
	}
	warning = appendWarning(warning,
		s.recordSideEffects(ctx, r, actor.UserID, "reservation.return_verify", from, target, title, message))

	return &ChangeResult{Reservation: r, Warning: warning}, nil
}

func (s *service) RequiredRoleFor(ctx context.Context, resourceID string) (identity.Role, error) {
	res, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return "", err
	}
	return s.policies.Resolve(ctx, res.OrganizationID, res.Kind, res.OwnerScope, res.OwnerDepartment)
}

// releaseResource flips the resource back to available once its last open
// loan closed. Resource status must mirror the net effect of all
// reservations, so while any other approved reservation is outstanding
// (including one awaiting return verification) the resource stays rented.
// Returns failureWarning when the committed transition could not be
// mirrored onto the resource, empty otherwise.
func (s *service) releaseResource(ctx context.Context, resourceID, failureWarning string) string {
	_, open, err := s.repo.List(ctx, Filter{ResourceID: resourceID, Status: string(StatusApproved), PageSize: 1})
	if err != nil {
		logger.Error("open loan lookup failed", "resource_id", resourceID, "error", err)
		return failureWarning
	}
	if open > 0 {
		return ""
	}

	if err := s.resources.SyncStatus(ctx, resourceID, resource.StatusAvailable, false); err != nil {
		logger.Error("resource status sync failed", "resource_id", resourceID, "error", err)
		return failureWarning
	}
	return ""
}

// applyTransition runs the conditional update and converts a lost race
// into a stale-state error (or not-found when the row vanished).
func (s *service) applyTransition(ctx context.Context, id string, from, to State, change StateChange) error {
	ok, err := s.repo.UpdateState(ctx, id, from, to, change)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return apperror.StaleState("reservation was modified concurrently; reload and retry")
}

// recordSideEffects appends the audit entry and queues the borrower
// notification. Failures never roll anything back; they come back as a
// warning for the response.
func (s *service) recordSideEffects(ctx context.Context, r *Reservation, actorID, action string, from, to State, title, message string) string {
	var warning string

	err := s.audits.Append(ctx, audit.Entry{
		OrganizationID: r.OrganizationID,
		ActorID:        actorID,
		Action:         action,
		SubjectType:    "reservation",
		SubjectID:      r.ID,
		ResourceID:     &r.ResourceID,
		FromStatus:     string(from.Status),
		ToStatus:       string(to.Status),
		Detail: map[string]any{
			"from_return_status": string(from.Return),
			"to_return_status":   string(to.Return),
		},
	})
	if err != nil {
		warning = appendWarning(warning, "audit entry could not be recorded")
		logger.Error("audit append failed", "reservation_id", r.ID, "error", err)
	}

	err = s.notifications.Enqueue(ctx, &notification.Notification{
		UserID:         r.BorrowerID,
		OrganizationID: r.OrganizationID,
		Title:          title,
		Message:        message,
		Attributes: map[string]string{
			"reservation_id": r.ID,
			"resource_id":    r.ResourceID,
			"action":         action,
		},
	})
	if err != nil {
		warning = appendWarning(warning, "borrower notification could not be queued")
		logger.Error("notification enqueue failed", "reservation_id", r.ID, "error", err)
	}

	return warning
}

func transitionCopy(target State) (title, message string) {
	switch target {
	case StateApproved:
		return "Reservation approved", "Your reservation was approved. The resource is yours for the booked dates."
	case StateRejected:
		return "Reservation rejected", "Your reservation request was rejected."
	case StateReturnedDone:
		return "Reservation completed", "Your reservation was closed and the resource is available again."
	}
	return "Reservation updated", "Your reservation status changed."
}

func appendWarning(existing, more string) string {
	if more == "" {
		return existing
	}
	if existing == "" {
		return more
	}
	return existing + "; " + more
}
