package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/auth"
	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
	"github.com/mossdrift/orgshare-backend/internal/pkg/response"
	"github.com/mossdrift/orgshare-backend/internal/resource"
)

type Handler struct {
	service resource.Service
}

func NewHandler(service resource.Service) *Handler {
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
	var body CreateResourceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	res, err := h.service.Create(c.Request.Context(), resource.CreateRequest{
		OrganizationID:  p.OrganizationID,
		Name:            body.Name,
		Kind:            body.Kind,
		OwnerScope:      body.OwnerScope,
		OwnerDepartment: body.OwnerDepartment,
		Loanable:        body.Loanable,
		UsableUntil:     body.UsableUntil,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResourceResponse(res))
}

func (h *Handler) List(c *gin.Context) {
	var query ListResourcesRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	resources, total, err := h.service.List(c.Request.Context(), resource.Filter{
		OrganizationID:  p.OrganizationID,
		Kind:            query.Kind,
		Status:          query.Status,
		OwnerDepartment: query.OwnerDepartment,
		Loanable:        query.Loanable,
		Page:            query.Page,
		PageSize:        query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ResourceResponse, len(resources))
	for i, r := range resources {
		items[i] = NewResourceResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, query.Page, query.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid resource id"))
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), params.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResourceResponse(res))
}

func (h *Handler) Update(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid resource id"))
		return
	}

	var body UpdateResourceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	res, err := h.service.Update(c.Request.Context(), params.ID, resource.UpdateRequest{
		Name:        body.Name,
		Loanable:    body.Loanable,
		UsableUntil: body.UsableUntil,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResourceResponse(res))
}

func (h *Handler) OverrideStatus(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid resource id"))
		return
	}

	var body OverrideStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	res, err := h.service.OverrideStatus(c.Request.Context(), params.ID, resource.Status(body.Status), p)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResourceResponse(res))
}

func (h *Handler) Delete(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid resource id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), params.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
