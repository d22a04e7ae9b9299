package notification

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
)

var ErrNotFound = apperror.NotFound("notification not found")

// Notification is one outbox row queued for a user. The engine only
// guarantees enqueue; delivery is drained by the dispatcher and handed to
// an external transport with at-least-once semantics.
type Notification struct {
	ID             string
	UserID         string
	OrganizationID string
	Title          string
	Message        string
	Attributes     map[string]string
	IsRead         bool
	DispatchedAt   *time.Time
	CreatedAt      time.Time
}

// Filter defines parameters for listing a user's notifications.
type Filter struct {
	UserID     string
	UnreadOnly bool
	Page       int
	PageSize   int
}
