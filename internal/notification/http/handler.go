package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/auth"
	"github.com/mossdrift/orgshare-backend/internal/notification"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
	"github.com/mossdrift/orgshare-backend/internal/pkg/response"
)

type Handler struct {
	service notification.Service
}

func NewHandler(service notification.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var query ListNotificationsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters: "+err.Error()))
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		response.Error(c, apperror.Permission("unauthorized"))
		return
	}

	notes, total, err := h.service.List(c.Request.Context(), notification.Filter{
		UserID:     userID,
		UnreadOnly: query.UnreadOnly,
		Page:       query.Page,
		PageSize:   query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]NotificationResponse, len(notes))
	for i, n := range notes {
		items[i] = NewNotificationResponse(n)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, query.Page, query.PageSize, total))
}

func (h *Handler) MarkRead(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid notification id"))
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		response.Error(c, apperror.Permission("unauthorized"))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), params.ID, userID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
