package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/auth"
	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
	"github.com/mossdrift/orgshare-backend/internal/pkg/response"
	"github.com/mossdrift/orgshare-backend/internal/transfer"
)

type Handler struct {
	service transfer.Service
}

func NewHandler(service transfer.Service) *Handler {
	return &Handler{service: service}
}

func principal(c *gin.Context) (identity.Principal, bool) {
	p, ok := auth.GetPrincipal(c)
	if !ok {
		response.Error(c, apperror.Permission("no acting principal resolved"))
	}
	return p, ok
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateTransferRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.service.Create(c.Request.Context(), body.AssetID, p, body.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, TransferResultResponse{
		Request: NewTransferResponse(result.Request),
		Warning: result.Warning,
	})
}

func (h *Handler) List(c *gin.Context) {
	var query ListTransfersRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	filter := transfer.Filter{
		OrganizationID: p.OrganizationID,
		AssetID:        query.AssetID,
		RequesterID:    query.RequesterID,
		Status:         query.Status,
		Page:           query.Page,
		PageSize:       query.PageSize,
	}
	if !p.Role.AtLeast(identity.RoleManager) {
		filter.RequesterID = p.UserID
	}

	requests, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]TransferResponse, len(requests))
	for i, t := range requests {
		items[i] = NewTransferResponse(t)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid transfer request id"))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), params.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if t.RequesterID != p.UserID && !p.Role.AtLeast(identity.RoleManager) {
		response.Error(c, apperror.Permission("permission denied"))
		return
	}

	c.JSON(http.StatusOK, NewTransferResponse(t))
}

func (h *Handler) Resolve(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid transfer request id"))
		return
	}

	var body ResolveTransferRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.service.Resolve(c.Request.Context(), params.ID, transfer.Status(body.Decision), p)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, TransferResultResponse{
		Request: NewTransferResponse(result.Request),
		Warning: result.Warning,
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	var body CancelTransferRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.service.Cancel(c.Request.Context(), body.AssetID, p)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, TransferResultResponse{
		Request: NewTransferResponse(result.Request),
		Warning: result.Warning,
	})
}
