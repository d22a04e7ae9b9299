package policy

import (
	"context"
	"errors"
	"strings"

	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/resource"
)

type CreateRequest struct {
	OrganizationID string
	Scope          string
	Department     *string
	RequiredRole   string
}

type UpdateRequest struct {
	RequiredRole string
}

// Service defines business logic for approval policies, including the
// single role-resolution path used by every required-role computation.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Policy, error)
	GetByID(ctx context.Context, id string) (*Policy, error)
	List(ctx context.Context, filter Filter) ([]*Policy, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Policy, error)
	Delete(ctx context.Context, id string) error

	// Resolve determines the minimum role required to approve a request for
	// a resource with the given ownership. Precedence: exact department row,
	// then the organization-wide row, then DefaultRequiredRole.
	Resolve(ctx context.Context, orgID string, scope resource.Kind, ownerScope resource.OwnerScope, ownerDepartment string) (identity.Role, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Policy, error) {
	if !resource.Kind(req.Scope).Valid() {
		return nil, ErrInvalidScope
	}

	role, err := identity.ParseRole(strings.ToLower(strings.TrimSpace(req.RequiredRole)))
	if err != nil {
		return nil, ErrInvalidRole
	}

	dept := req.Department
	if dept != nil {
		trimmed := strings.TrimSpace(*dept)
		if trimmed == "" {
			// Empty string and nil both mean the org-wide default; store nil.
			dept = nil
		} else {
			dept = &trimmed
		}
	}

	p := &Policy{
		OrganizationID: req.OrganizationID,
		Scope:          req.Scope,
		Department:     dept,
		RequiredRole:   role,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Policy, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Policy, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Policy, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := identity.ParseRole(strings.ToLower(strings.TrimSpace(req.RequiredRole)))
	if err != nil {
		return nil, ErrInvalidRole
	}
	p.RequiredRole = role

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Resolve(ctx context.Context, orgID string, scope resource.Kind, ownerScope resource.OwnerScope, ownerDepartment string) (identity.Role, error) {
	// Organization-owned resources resolve against the org-wide default only.
	var targetDepartment *string
	if ownerScope == resource.OwnedByDepartment && ownerDepartment != "" {
		targetDepartment = &ownerDepartment
	}

	if targetDepartment != nil {
		p, err := s.repo.Find(ctx, orgID, string(scope), targetDepartment)
		if err == nil {
			return p.RequiredRole, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}

	p, err := s.repo.Find(ctx, orgID, string(scope), nil)
	if err == nil {
		return p.RequiredRole, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	return DefaultRequiredRole, nil
}
