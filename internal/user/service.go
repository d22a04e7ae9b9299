package user

import (
	"context"
	"strings"
	"time"

	"github.com/mossdrift/orgshare-backend/internal/auth"
	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/organization"
)

const minPasswordLength = 8

// RegisterRequest defines the fields required to create an account.
type RegisterRequest struct {
	Email          string
	Password       string
	DisplayName    *string
	OrganizationID string
	Department     string
}

// UpdateMemberRequest defines the membership fields a privileged actor can change.
type UpdateMemberRequest struct {
	Role       *string
	Department *string
	IsActive   *bool
}

// Service defines business logic for users and memberships.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	UpdateMember(ctx context.Context, id string, req UpdateMemberRequest) (*User, error)
	// Principal resolves the acting principal for an authenticated user id.
	Principal(ctx context.Context, userID string) (identity.Principal, error)
}

type service struct {
	repo       Repository
	hasher     auth.PasswordHasher
	orgService organization.Service
}

func NewService(repo Repository, hasher auth.PasswordHasher, orgService organization.Service) Service {
	return &service{repo: repo, hasher: hasher, orgService: orgService}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return nil, ErrEmailRequired
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	// Validation: organization must exist
	if _, err := s.orgService.GetByID(ctx, req.OrganizationID); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:          req.Email,
		PasswordHash:   hash,
		DisplayName:    req.DisplayName,
		OrganizationID: req.OrganizationID,
		Department:     strings.TrimSpace(req.Department),
		Role:           identity.RoleUser, // new members start at the lowest rank
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.IsActive {
		return nil, ErrInactiveUser
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	u.LastLoginAt = &now
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		// Login stamping is best-effort; the credential check already passed.
		return u, nil
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateMember(ctx context.Context, id string, req UpdateMemberRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		role, err := identity.ParseRole(strings.ToLower(strings.TrimSpace(*req.Role)))
		if err != nil {
			return nil, ErrInvalidRole
		}
		u.Role = role
	}
	if req.Department != nil {
		u.Department = strings.TrimSpace(*req.Department)
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Principal(ctx context.Context, userID string) (identity.Principal, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return identity.Principal{}, err
	}
	if !u.IsActive {
		return identity.Principal{}, ErrInactiveUser
	}
	return u.Principal(), nil
}
