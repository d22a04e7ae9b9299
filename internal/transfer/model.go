package transfer

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("transfer request not found")
	ErrNotAnAsset       = apperror.Validation("only assets can be transferred")
	ErrNotRetired       = apperror.Validation("only retired assets can be transferred")
	ErrOrganizationWide = apperror.Validation("organization-wide assets need no transfer")
	ErrSameDepartment   = apperror.Validation("asset is already owned by your department")
	ErrNoDepartment     = apperror.Validation("requester has no department to transfer to")
	ErrDuplicatePending = apperror.Conflict("a pending transfer request for this asset already exists")
)

// Status is the lifecycle status of a transfer request.
// Everything but pending is terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s != StatusPending
}

// TransferRequest asks to move a retired, department-owned asset to the
// requester's department.
type TransferRequest struct {
	ID             string
	AssetID        string
	RequesterID    string
	OrganizationID string
	FromDepartment string
	ToDepartment   string
	Status         Status
	Note           *string
	ResolvedBy     *string
	ResolvedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Filter defines parameters for listing transfer requests.
type Filter struct {
	OrganizationID string
	AssetID        string
	RequesterID    string
	Status         string
	Page           int
	PageSize       int
}
