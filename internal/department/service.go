package department

import (
	"context"
	"strings"

	"github.com/mossdrift/orgshare-backend/internal/organization"
)

type CreateRequest struct {
	OrganizationID string
	Name           string
}

type UpdateRequest struct {
	Name *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Department, error)
	GetByID(ctx context.Context, id string) (*Department, error)
	GetByName(ctx context.Context, orgID, name string) (*Department, error)
	List(ctx context.Context, filter Filter) ([]*Department, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Department, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo       Repository
	orgService organization.Service
}

func NewService(repo Repository, orgService organization.Service) Service {
	return &service{repo: repo, orgService: orgService}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Department, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrNameRequired
	}

	// Validation: organization must exist
	if _, err := s.orgService.GetByID(ctx, req.OrganizationID); err != nil {
		return nil, ErrInvalidOrg
	}

	dept := &Department{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
	}

	if err := s.repo.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Department, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByName(ctx context.Context, orgID, name string) (*Department, error) {
	return s.repo.GetByName(ctx, orgID, name)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Department, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Department, error) {
	dept, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		newName := strings.TrimSpace(*req.Name)
		if newName == "" {
			return nil, ErrNameRequired
		}
		dept.Name = newName
	}

	if err := s.repo.Update(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
