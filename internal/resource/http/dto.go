package http

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
	"github.com/mossdrift/orgshare-backend/internal/resource"
)

type ListResourcesRequest struct {
	request.ListParams
	Kind            string `form:"kind" binding:"omitempty,oneof=asset space vehicle"`
	Status          string `form:"status" binding:"omitempty,oneof=available rented repair lost retired"`
	OwnerDepartment string `form:"owner_department"`
	Loanable        *bool  `form:"loanable"`
}

type CreateResourceRequest struct {
	Name            string     `json:"name" binding:"required"`
	Kind            string     `json:"kind" binding:"required,oneof=asset space vehicle"`
	OwnerScope      string     `json:"owner_scope" binding:"required,oneof=organization department"`
	OwnerDepartment string     `json:"owner_department"`
	Loanable        bool       `json:"loanable"`
	UsableUntil     *time.Time `json:"usable_until"`
}

type UpdateResourceRequest struct {
	Name        *string    `json:"name"`
	Loanable    *bool      `json:"loanable"`
	UsableUntil *time.Time `json:"usable_until"`
}

type OverrideStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available rented repair lost retired"`
}

type ResourceResponse struct {
	ID              string     `json:"id"`
	OrganizationID  string     `json:"organization_id"`
	Name            string     `json:"name"`
	Kind            string     `json:"kind"`
	OwnerScope      string     `json:"owner_scope"`
	OwnerDepartment string     `json:"owner_department"`
	Status          string     `json:"status"`
	Loanable        bool       `json:"loanable"`
	UsableUntil     *time.Time `json:"usable_until,omitempty"`
	LastUsedAt      *time.Time `json:"last_used_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func NewResourceResponse(r *resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:              r.ID,
		OrganizationID:  r.OrganizationID,
		Name:            r.Name,
		Kind:            string(r.Kind),
		OwnerScope:      string(r.OwnerScope),
		OwnerDepartment: r.OwnerDepartmentLabel(),
		Status:          string(r.Status),
		Loanable:        r.Loanable,
		UsableUntil:     r.UsableUntil,
		LastUsedAt:      r.LastUsedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
