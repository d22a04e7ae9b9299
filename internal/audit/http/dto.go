package http

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/audit"
	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
)

type ListAuditRequest struct {
	request.ListParams
	SubjectType string `form:"subject_type" binding:"omitempty,oneof=reservation transfer_request resource"`
	SubjectID   string `form:"subject_id" binding:"omitempty,uuid"`
	ActorID     string `form:"actor_id" binding:"omitempty,uuid"`
}

type EntryResponse struct {
	ID          string         `json:"id"`
	ActorID     string         `json:"actor_id"`
	Action      string         `json:"action"`
	SubjectType string         `json:"subject_type"`
	SubjectID   string         `json:"subject_id"`
	ResourceID  *string        `json:"resource_id,omitempty"`
	FromStatus  string         `json:"from_status"`
	ToStatus    string         `json:"to_status"`
	Detail      map[string]any `json:"detail,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func NewEntryResponse(e *audit.Entry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		ActorID:     e.ActorID,
		Action:      e.Action,
		SubjectType: e.SubjectType,
		SubjectID:   e.SubjectID,
		ResourceID:  e.ResourceID,
		FromStatus:  e.FromStatus,
		ToStatus:    e.ToStatus,
		Detail:      e.Detail,
		CreatedAt:   e.CreatedAt,
	}
}
