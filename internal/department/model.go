package department

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.NotFound("department not found")
	ErrNameRequired = apperror.Validation("department name is required")
	ErrNameTaken    = apperror.Conflict("department name already exists in this organization")
	ErrInvalidOrg   = apperror.Validation("invalid organization_id")
)

// Department is an organizational unit that can own resources.
type Department struct {
	ID             string
	OrganizationID string
	Name           string
	CreatedAt      time.Time
}

// Filter defines parameters for listing departments.
type Filter struct {
	OrganizationID string
	Page           int
	PageSize       int
}
