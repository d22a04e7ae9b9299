package resource

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.NotFound("resource not found")
	ErrEmptyName         = apperror.Validation("name cannot be empty")
	ErrInvalidKind       = apperror.Validation("invalid resource kind")
	ErrInvalidScope      = apperror.Validation("invalid owner scope")
	ErrInvalidStatus     = apperror.Validation("invalid resource status")
	ErrInvalidDepartment = apperror.Validation("owner department is required for department-owned resources")
	ErrInvalidOrg        = apperror.Validation("invalid organization_id")
)

// Kind distinguishes the reservable resource variants.
// They share one shape; the variant only matters for approval-policy scoping.
type Kind string

const (
	KindAsset   Kind = "asset"
	KindSpace   Kind = "space"
	KindVehicle Kind = "vehicle"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindAsset, KindSpace, KindVehicle:
		return true
	}
	return false
}

// OwnerScope says whether a resource belongs to the whole organization
// or to one department.
type OwnerScope string

const (
	OwnedByOrganization OwnerScope = "organization"
	OwnedByDepartment   OwnerScope = "department"
)

func (s OwnerScope) Valid() bool {
	return s == OwnedByOrganization || s == OwnedByDepartment
}

// OrganizationWideLabel is the display sentinel for resources without a
// managing department.
const OrganizationWideLabel = "organization-wide"

// Status is the lifecycle status of a resource.
// It must always reflect the net effect of the resource's reservations:
// rented iff an approved reservation has not completed its return.
type Status string

const (
	StatusAvailable Status = "available"
	StatusRented    Status = "rented"
	StatusRepair    Status = "repair"
	StatusLost      Status = "lost"
	StatusRetired   Status = "retired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusRented, StatusRepair, StatusLost, StatusRetired:
		return true
	}
	return false
}

// Resource represents a reservable unit (an asset, space or vehicle).
type Resource struct {
	ID              string
	OrganizationID  string
	Name            string
	Kind            Kind
	OwnerScope      OwnerScope
	OwnerDepartment string // empty when owned organization-wide
	Status          Status
	Loanable        bool
	UsableUntil     *time.Time
	LastUsedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OwnerDepartmentLabel returns the managing department or the
// organization-wide sentinel for display.
func (r *Resource) OwnerDepartmentLabel() string {
	if r.OwnerScope == OwnedByOrganization || r.OwnerDepartment == "" {
		return OrganizationWideLabel
	}
	return r.OwnerDepartment
}

// Filter defines parameters for listing resources.
type Filter struct {
	OrganizationID  string
	Kind            string
	Status          string
	OwnerDepartment string
	Loanable        *bool
	Page            int
	PageSize        int
}
