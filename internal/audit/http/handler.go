package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/audit"
	"github.com/mossdrift/orgshare-backend/internal/auth"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/pkg/response"
)

type Handler struct {
	service audit.Service
}

func NewHandler(service audit.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var query ListAuditRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters: "+err.Error()))
		return
	}

	p, ok := auth.GetPrincipal(c)
	if !ok {
		response.Error(c, apperror.Permission("no acting principal resolved"))
		return
	}

	entries, total, err := h.service.List(c.Request.Context(), audit.Filter{
		OrganizationID: p.OrganizationID,
		SubjectType:    query.SubjectType,
		SubjectID:      query.SubjectID,
		ActorID:        query.ActorID,
		Page:           query.Page,
		PageSize:       query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]EntryResponse, len(entries))
	for i, e := range entries {
		items[i] = NewEntryResponse(e)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, query.Page, query.PageSize, total))
}
