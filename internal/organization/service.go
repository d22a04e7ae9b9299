package organization

import (
	"context"
	"strings"
)

// UpdateRequest defines the organization fields that can be updated.
type UpdateRequest struct {
	Name     *string
	IsActive *bool
}

// UpdateReturnPolicyRequest defines the return-policy fields that can be updated.
type UpdateReturnPolicyRequest struct {
	Enabled             *bool
	RequirePhoto        *bool
	RequireVerification *bool
}

// Service defines business logic for organizations.
type Service interface {
	Create(ctx context.Context, name string) (*Organization, error)
	GetByID(ctx context.Context, id string) (*Organization, error)
	List(ctx context.Context, filter Filter) ([]*Organization, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Organization, error)
	UpdateReturnPolicy(ctx context.Context, id string, req UpdateReturnPolicyRequest) (*Organization, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

// NewService creates a new organization service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, name string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	org := &Organization{
		Name:     name,
		IsActive: true,
		// Verification is opt-in; a fresh organization auto-accepts returns.
		ReturnPolicy: ReturnPolicy{},
	}

	if err := s.repo.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Organization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Organization, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Organization, error) {
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		newName := strings.TrimSpace(*req.Name)
		if newName == "" {
			return nil, ErrNameRequired
		}
		org.Name = newName
	}
	if req.IsActive != nil {
		org.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, err
	}

	return org, nil
}

func (s *service) UpdateReturnPolicy(ctx context.Context, id string, req UpdateReturnPolicyRequest) (*Organization, error) {
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Enabled != nil {
		org.ReturnPolicy.Enabled = *req.Enabled
	}
	if req.RequirePhoto != nil {
		org.ReturnPolicy.RequirePhoto = *req.RequirePhoto
	}
	if req.RequireVerification != nil {
		org.ReturnPolicy.RequireVerification = *req.RequireVerification
	}

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, err
	}

	return org, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
