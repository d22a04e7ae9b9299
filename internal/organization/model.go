package organization

import (
	"net/http"
	"time"

	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.NotFound("organization not found")
	ErrNameRequired = apperror.Validation("organization name is required")
	ErrNameTaken    = apperror.New(apperror.KindConflict, http.StatusConflict, "organization name already in use")
)

// Organization represents a tenant that owns resources and members.
type Organization struct {
	ID           string
	Name         string
	IsActive     bool
	ReturnPolicy ReturnPolicy
	CreatedAt    time.Time
}

// ReturnPolicy is the organization-level configuration for the
// return-verification sub-workflow.
type ReturnPolicy struct {
	Enabled             bool
	RequirePhoto        bool
	RequireVerification bool
}

// Filter defines filter options for listing organizations.
type Filter struct {
	Page     int
	PageSize int
}
