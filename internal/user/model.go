package user

import (
	"net/http"
	"time"

	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed   = apperror.Conflict("email already used")
	ErrInvalidCredentials = apperror.New(apperror.KindValidation, http.StatusUnauthorized, "invalid email or password")
	ErrInactiveUser       = apperror.Permission("user is inactive")
	ErrEmailRequired      = apperror.Validation("email is required")
	ErrPasswordTooShort   = apperror.Validation("password is too short")
	ErrInvalidRole        = apperror.Validation("invalid role")
)

// User represents a member of an organization.
type User struct {
	ID             string // UUID
	Email          string
	PasswordHash   string
	DisplayName    *string
	OrganizationID string
	Department     string
	Role           identity.Role
	IsActive       bool
	CreatedAt      time.Time
	LastLoginAt    *time.Time
}

// Principal builds the workflow-engine principal for this user.
func (u *User) Principal() identity.Principal {
	return identity.Principal{
		UserID:         u.ID,
		OrganizationID: u.OrganizationID,
		Department:     u.Department,
		Role:           u.Role,
	}
}

// Filter defines filter options for listing users.
type Filter struct {
	OrganizationID string
	Department     string
	Role           string
	IsActive       *bool // pointer to distinguish between false and not set

	Page     int
	PageSize int
}
