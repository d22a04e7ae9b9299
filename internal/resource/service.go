package resource

import (
	"context"
	"strings"
	"time"

	"github.com/mossdrift/orgshare-backend/internal/department"
	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
)

type CreateRequest struct {
	OrganizationID  string
	Name            string
	Kind            string
	OwnerScope      string
	OwnerDepartment string
	Loanable        bool
	UsableUntil     *time.Time
}

type UpdateRequest struct {
	Name        *string
	Loanable    *bool
	UsableUntil *time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error)
	Delete(ctx context.Context, id string) error

	// OverrideStatus is the administrative escape hatch; everywhere else,
	// status only moves as a workflow side effect.
	OverrideStatus(ctx context.Context, id string, status Status, actor identity.Principal) (*Resource, error)

	// SyncStatus applies a workflow-driven status change.
	SyncStatus(ctx context.Context, id string, status Status, stampLastUsed bool) error

	// SetOwnership reassigns the managing department (transfer approval).
	SetOwnership(ctx context.Context, id string, scope OwnerScope, ownerDepartment string) error
}

type service struct {
	repo        Repository
	deptService department.Service
}

func NewService(repo Repository, deptService department.Service) Service {
	return &service{repo: repo, deptService: deptService}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	kind := Kind(req.Kind)
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}

	scope := OwnerScope(req.OwnerScope)
	if !scope.Valid() {
		return nil, ErrInvalidScope
	}

	ownerDept := strings.TrimSpace(req.OwnerDepartment)
	if scope == OwnedByDepartment {
		if ownerDept == "" {
			return nil, ErrInvalidDepartment
		}
		// Validation: the managing department must exist in this organization
		if _, err := s.deptService.GetByName(ctx, req.OrganizationID, ownerDept); err != nil {
			return nil, ErrInvalidDepartment
		}
	} else {
		ownerDept = ""
	}

	res := &Resource{
		OrganizationID:  req.OrganizationID,
		Name:            req.Name,
		Kind:            kind,
		OwnerScope:      scope,
		OwnerDepartment: ownerDept,
		Status:          StatusAvailable,
		Loanable:        req.Loanable,
		UsableUntil:     req.UsableUntil,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		res.Name = *req.Name
	}
	if req.Loanable != nil {
		res.Loanable = *req.Loanable
	}
	if req.UsableUntil != nil {
		res.UsableUntil = req.UsableUntil
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) OverrideStatus(ctx context.Context, id string, status Status, actor identity.Principal) (*Resource, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if !actor.Role.AtLeast(identity.RoleAdmin) {
		return nil, apperror.Permission("only admins may override resource status")
	}

	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, status, false); err != nil {
		return nil, err
	}
	res.Status = status
	return res, nil
}

func (s *service) SyncStatus(ctx context.Context, id string, status Status, stampLastUsed bool) error {
	return s.repo.UpdateStatus(ctx, id, status, stampLastUsed)
}

func (s *service) SetOwnership(ctx context.Context, id string, scope OwnerScope, ownerDepartment string) error {
	if !scope.Valid() {
		return ErrInvalidScope
	}
	if scope == OwnedByDepartment && strings.TrimSpace(ownerDepartment) == "" {
		return ErrInvalidDepartment
	}
	return s.repo.UpdateOwnership(ctx, id, scope, ownerDepartment)
}
