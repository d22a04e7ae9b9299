package http

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/department"
	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
)

type ListDepartmentsRequest struct {
	request.ListParams
	OrganizationID string `form:"organization_id" binding:"omitempty,uuid"`
}

type CreateDepartmentRequest struct {
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
	Name           string `json:"name" binding:"required"`
}

type UpdateDepartmentRequest struct {
	Name *string `json:"name"`
}

type DepartmentResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewDepartmentResponse(d *department.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:             d.ID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		CreatedAt:      d.CreatedAt,
	}
}
