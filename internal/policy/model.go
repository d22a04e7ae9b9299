package policy

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.NotFound("approval policy not found")
	ErrDuplicate      = apperror.Conflict("an approval policy already exists for this scope and department")
	ErrInvalidScope   = apperror.Validation("invalid policy scope")
	ErrInvalidRole    = apperror.Validation("invalid required role")
	ErrInvalidOrg     = apperror.Validation("invalid organization_id")
	ErrInvalidDefault = apperror.Validation("department must be omitted for the organization-wide default")
)

// DefaultRequiredRole applies when neither a department-specific nor an
// organization-wide policy row exists.
const DefaultRequiredRole = identity.RoleManager

// Policy maps a resource scope (and optionally a department) to the minimum
// role allowed to approve requests for matching resources.
// Department == nil means "organization-wide default for this scope".
type Policy struct {
	ID             string
	OrganizationID string
	Scope          string // matches resource.Kind values: asset, space, vehicle
	Department     *string
	RequiredRole   identity.Role
	CreatedAt      time.Time
}

// Filter defines parameters for listing policies.
type Filter struct {
	OrganizationID string
	Scope          string
	Page           int
	PageSize       int
}
