package http

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
	"github.com/mossdrift/orgshare-backend/internal/policy"
)

type ListPoliciesRequest struct {
	request.ListParams
	Scope string `form:"scope" binding:"omitempty,oneof=asset space vehicle"`
}

type CreatePolicyRequest struct {
	Scope        string  `json:"scope" binding:"required,oneof=asset space vehicle"`
	Department   *string `json:"department"`
	RequiredRole string  `json:"required_role" binding:"required,oneof=user manager admin"`
}

type UpdatePolicyRequest struct {
	RequiredRole string `json:"required_role" binding:"required,oneof=user manager admin"`
}

// ResolveRequest asks which role is required to approve a request for a
// resource with the given ownership.
type ResolveRequest struct {
	Scope           string `form:"scope" binding:"required,oneof=asset space vehicle"`
	OwnerScope      string `form:"owner_scope" binding:"required,oneof=organization department"`
	OwnerDepartment string `form:"owner_department"`
}

type ResolveResponse struct {
	RequiredRole string `json:"required_role"`
}

type PolicyResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Scope          string    `json:"scope"`
	Department     *string   `json:"department,omitempty"`
	RequiredRole   string    `json:"required_role"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewPolicyResponse(p *policy.Policy) PolicyResponse {
	return PolicyResponse{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		Scope:          p.Scope,
		Department:     p.Department,
		RequiredRole:   string(p.RequiredRole),
		CreatedAt:      p.CreatedAt,
	}
}
