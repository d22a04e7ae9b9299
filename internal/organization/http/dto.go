package http

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/organization"
	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
)

type ListOrganizationsRequest struct {
	request.ListParams
}

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateOrganizationRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

type UpdateReturnPolicyRequest struct {
	Enabled             *bool `json:"enabled"`
	RequirePhoto        *bool `json:"require_photo"`
	RequireVerification *bool `json:"require_verification"`
}

type ReturnPolicyResponse struct {
	Enabled             bool `json:"enabled"`
	RequirePhoto        bool `json:"require_photo"`
	RequireVerification bool `json:"require_verification"`
}

type OrganizationResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	IsActive     bool                 `json:"is_active"`
	ReturnPolicy ReturnPolicyResponse `json:"return_policy"`
	CreatedAt    time.Time            `json:"created_at"`
}

func NewOrganizationResponse(o *organization.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:       o.ID,
		Name:     o.Name,
		IsActive: o.IsActive,
		ReturnPolicy: ReturnPolicyResponse{
			Enabled:             o.ReturnPolicy.Enabled,
			RequirePhoto:        o.ReturnPolicy.RequirePhoto,
			RequireVerification: o.ReturnPolicy.RequireVerification,
		},
		CreatedAt: o.CreatedAt,
	}
}
