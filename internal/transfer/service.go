package transfer

import (
	"context"
	"time"

	"github.com/mossdrift/orgshare-backend/internal/audit"
	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/logger"
	"github.com/mossdrift/orgshare-backend/internal/notification"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/resource"
)

// Result is the outcome of a transfer transition. Warning is set when the
// transition committed but a fire-and-forget side effect failed.
type Result struct {
	Request *TransferRequest
	Warning string
}

// Service runs the ownership-transfer workflow for retired assets.
type Service interface {
	// Create files a request to move the asset to the requester's
	// department.
	Create(ctx context.Context, assetID string, requester identity.Principal, note *string) (*Result, error)

	GetByID(ctx context.Context, id string) (*TransferRequest, error)
	List(ctx context.Context, filter Filter) ([]*TransferRequest, int, error)

	// Resolve approves or rejects a pending request. Approval reassigns
	// the asset to the request's destination department.
	Resolve(ctx context.Context, id string, decision Status, actor identity.Principal) (*Result, error)

	// Cancel withdraws the requester's own pending request for the asset.
	Cancel(ctx context.Context, assetID string, requester identity.Principal) (*Result, error)
}

type service struct {
	repo          Repository
	resources     resource.Service
	audits        audit.Service
	notifications notification.Service
}

func NewService(repo Repository, resources resource.Service, audits audit.Service, notifications notification.Service) Service {
	return &service{
		repo:          repo,
		resources:     resources,
		audits:        audits,
		notifications: notifications,
	}
}

func (s *service) Create(ctx context.Context, assetID string, requester identity.Principal, note *string) (*Result, error) {
	asset, err := s.resources.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset.OrganizationID != requester.OrganizationID {
		return nil, apperror.Permission("asset belongs to another organization")
	}
	if asset.Kind != resource.KindAsset {
		return nil, ErrNotAnAsset
	}
	if asset.Status != resource.StatusRetired {
		return nil, ErrNotRetired
	}
	if asset.OwnerScope != resource.OwnedByDepartment {
		return nil, ErrOrganizationWide
	}
	if requester.Department == "" {
		return nil, ErrNoDepartment
	}
	if requester.Department == asset.OwnerDepartment {
		return nil, ErrSameDepartment
	}

	t := &TransferRequest{
		AssetID:        assetID,
		RequesterID:    requester.UserID,
		OrganizationID: asset.OrganizationID,
		FromDepartment: asset.OwnerDepartment,
		ToDepartment:   requester.Department,
		Status:         StatusPending,
		Note:           note,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	warning := s.recordSideEffects(ctx, t, requester.UserID, "transfer.create", "", StatusPending,
		"Transfer requested", "Your transfer request was filed and is awaiting a decision.")

	return &Result{Request: t, Warning: warning}, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*TransferRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*TransferRequest, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Resolve(ctx context.Context, id string, decision Status, actor identity.Principal) (*Result, error) {
	if decision != StatusApproved && decision != StatusRejected {
		return nil, apperror.Validation("decision must be approved or rejected")
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OrganizationID != actor.OrganizationID {
		return nil, apperror.Permission("transfer request belongs to another organization")
	}

	// Admins decide anywhere; managers only for their own department's asset.
	if !actor.Role.AtLeast(identity.RoleManager) {
		return nil, apperror.Permission("only managers or admins may resolve transfer requests")
	}
	if actor.Role != identity.RoleAdmin && actor.Department != t.FromDepartment {
		return nil, apperror.Permission("only the owning department's managers may resolve this request")
	}

	if t.Status.Terminal() {
		return nil, apperror.Validation("transfer request has already been resolved")
	}

	now := time.Now()
	if err := s.applyTransition(ctx, id, StatusPending, decision, &actor.UserID, &now); err != nil {
		return nil, err
	}
	t.Status = decision
	t.ResolvedBy = &actor.UserID
	t.ResolvedAt = &now

	var warning string
	if decision == StatusApproved {
		if err := s.resources.SetOwnership(ctx, t.AssetID, resource.OwnedByDepartment, t.ToDepartment); err != nil {
			warning = appendWarning(warning, "transfer approved but asset ownership update failed")
			logger.Error("asset ownership update failed", "asset_id", t.AssetID, "error", err)
		}
	}

	title, message := "Transfer approved", "Your transfer request was approved. The asset now belongs to your department."
	if decision == StatusRejected {
		title, message = "Transfer rejected", "Your transfer request was rejected."
	}
	warning = appendWarning(warning,
		s.recordSideEffects(ctx, t, actor.UserID, "transfer.resolve", StatusPending, decision, title, message))

	return &Result{Request: t, Warning: warning}, nil
}

func (s *service) Cancel(ctx context.Context, assetID string, requester identity.Principal) (*Result, error) {
	// The lookup is keyed on the caller's own id, so only the requester's
	// pending request can ever be found here.
	t, err := s.repo.FindPending(ctx, assetID, requester.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.applyTransition(ctx, t.ID, StatusPending, StatusCancelled, nil, nil); err != nil {
		return nil, err
	}
	t.Status = StatusCancelled

	warning := s.recordSideEffects(ctx, t, requester.UserID, "transfer.cancel", StatusPending, StatusCancelled,
		"Transfer cancelled", "Your transfer request was cancelled.")

	return &Result{Request: t, Warning: warning}, nil
}

func (s *service) applyTransition(ctx context.Context, id string, expected, next Status, resolvedBy *string, resolvedAt *time.Time) error {
	ok, err := s.repo.UpdateStatus(ctx, id, expected, next, resolvedBy, resolvedAt)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return apperror.StaleState("transfer request was modified concurrently; reload and retry")
}

func (s *service) recordSideEffects(ctx context.Context, t *TransferRequest, actorID, action string, from, to Status, title, message string) string {
	var warning string

	err := s.audits.Append(ctx, audit.Entry{
		OrganizationID: t.OrganizationID,
		ActorID:        actorID,
		Action:         action,
		SubjectType:    "transfer_request",
		SubjectID:      t.ID,
		ResourceID:     &t.AssetID,
		FromStatus:     string(from),
		ToStatus:       string(to),
		Detail: map[string]any{
			"from_department": t.FromDepartment,
			"to_department":   t.ToDepartment,
		},
	})
	if err != nil {
		warning = appendWarning(warning, "audit entry could not be recorded")
		logger.Error("audit append failed", "transfer_id", t.ID, "error", err)
	}

	err = s.notifications.Enqueue(ctx, &notification.Notification{
		UserID:         t.RequesterID,
		OrganizationID: t.OrganizationID,
		Title:          title,
		Message:        message,
		Attributes: map[string]string{
			"transfer_id": t.ID,
			"asset_id":    t.AssetID,
			"action":      action,
		},
	})
	if err != nil {
		warning = appendWarning(warning, "requester notification could not be queued")
		logger.Error("notification enqueue failed", "transfer_id", t.ID, "error", err)
	}

	return warning
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
