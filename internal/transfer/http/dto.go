package http

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
	"github.com/mossdrift/orgshare-backend/internal/transfer"
)

// ListTransfersRequest defines query parameters for listing transfer requests.
type ListTransfersRequest struct {
	request.ListParams
	AssetID     string `form:"asset_id" binding:"omitempty,uuid"`
	RequesterID string `form:"requester_id" binding:"omitempty,uuid"`
	Status      string `form:"status" binding:"omitempty,oneof=pending approved rejected cancelled"`
}

type CreateTransferRequest struct {
	AssetID string  `json:"asset_id" binding:"required,uuid"`
	Note    *string `json:"note"`
}

type ResolveTransferRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}

type CancelTransferRequest struct {
	AssetID string `json:"asset_id" binding:"required,uuid"`
}

type TransferResponse struct {
	ID             string     `json:"id"`
	AssetID        string     `json:"asset_id"`
	RequesterID    string     `json:"requester_id"`
	OrganizationID string     `json:"organization_id"`
	FromDepartment string     `json:"from_department"`
	ToDepartment   string     `json:"to_department"`
	Status         string     `json:"status"`
	Note           *string    `json:"note,omitempty"`
	ResolvedBy     *string    `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func NewTransferResponse(t *transfer.TransferRequest) TransferResponse {
	return TransferResponse{
		ID:             t.ID,
		AssetID:        t.AssetID,
		RequesterID:    t.RequesterID,
		OrganizationID: t.OrganizationID,
		FromDepartment: t.FromDepartment,
		ToDepartment:   t.ToDepartment,
		Status:         string(t.Status),
		Note:           t.Note,
		ResolvedBy:     t.ResolvedBy,
		ResolvedAt:     t.ResolvedAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

type TransferResultResponse struct {
	Request TransferResponse `json:"request"`
	Warning string           `json:"warning,omitempty"`
}
