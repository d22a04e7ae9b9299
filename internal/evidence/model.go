package evidence

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound    = apperror.NotFound("evidence not found")
	ErrNoThumbnail = apperror.NotFound("thumbnail not available for this evidence")
	ErrNotAnUpload = apperror.Validation("uploaded evidence must be an image")
	ErrWrongOwner  = apperror.Permission("evidence can only be uploaded by the reservation borrower")
)

// Evidence is one return-photo attached to a reservation.
type Evidence struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservation_id"`
	UserID        string    `json:"user_id"`
	Filename      string    `json:"filename"`
	StoragePath   string    `json:"-"` // Internal path
	ThumbnailPath *string   `json:"-"` // Internal path
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"created_at"`
}

// URL returns the public URL for downloading evidence by its ID.
func URL(id string) string {
	return "/v1/evidence/" + id
}

// ThumbnailURL returns the public URL for an evidence thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/v1/evidence/" + id + "/thumbnail"
}
