package api

import (
	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
)

// ListUsersRequest defines query parameters for listing members.
type ListUsersRequest struct {
	request.ListParams
	Department string `form:"department"`
	Role       string `form:"role" binding:"omitempty,oneof=user manager admin"`
	IsActive   *bool  `form:"is_active"`
}

// UpdateMemberRequest is the payload for PATCH /v1/users/:id.
type UpdateMemberRequest struct {
	Role       *string `json:"role" binding:"omitempty,oneof=user manager admin"`
	Department *string `json:"department"`
	IsActive   *bool   `json:"is_active"`
}
