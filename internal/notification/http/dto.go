package http

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/notification"
	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
)

type ListNotificationsRequest struct {
	request.ListParams
	UnreadOnly bool `form:"unread_only"`
}

type NotificationResponse struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Message      string            `json:"message"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	IsRead       bool              `json:"is_read"`
	DispatchedAt *time.Time        `json:"dispatched_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

func NewNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           n.ID,
		Title:        n.Title,
		Message:      n.Message,
		Attributes:   n.Attributes,
		IsRead:       n.IsRead,
		DispatchedAt: n.DispatchedAt,
		CreatedAt:    n.CreatedAt,
	}
}
