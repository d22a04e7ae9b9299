package http

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/evidence"
)

type EvidenceResponse struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservation_id"`
	Filename      string    `json:"filename"`
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	URL           string    `json:"url"`
	ThumbnailURL  *string   `json:"thumbnail_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewEvidenceResponse(e *evidence.Evidence) EvidenceResponse {
	resp := EvidenceResponse{
		ID:            e.ID,
		ReservationID: e.ReservationID,
		Filename:      e.Filename,
		ContentType:   e.ContentType,
		Size:          e.Size,
		URL:           evidence.URL(e.ID),
		CreatedAt:     e.CreatedAt,
	}
	if e.ThumbnailPath != nil {
		u := evidence.ThumbnailURL(e.ID)
		resp.ThumbnailURL = &u
	}
	return resp
}
