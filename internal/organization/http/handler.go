package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/organization"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
	"github.com/mossdrift/orgshare-backend/internal/pkg/response"
)

type Handler struct {
	service organization.Service
}

func NewHandler(service organization.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateOrganizationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	org, err := h.service.Create(c.Request.Context(), body.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewOrganizationResponse(org))
}

func (h *Handler) List(c *gin.Context) {
	var query ListOrganizationsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters: "+err.Error()))
		return
	}

	orgs, total, err := h.service.List(c.Request.Context(), organization.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]OrganizationResponse, len(orgs))
	for i, o := range orgs {
		items[i] = NewOrganizationResponse(o)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, query.Page, query.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid organization id"))
		return
	}

	org, err := h.service.GetByID(c.Request.Context(), params.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewOrganizationResponse(org))
}

func (h *Handler) Update(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid organization id"))
		return
	}

	var body UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	org, err := h.service.Update(c.Request.Context(), params.ID, organization.UpdateRequest{
		Name:     body.Name,
		IsActive: body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewOrganizationResponse(org))
}

func (h *Handler) UpdateReturnPolicy(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid organization id"))
		return
	}

	var body UpdateReturnPolicyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	org, err := h.service.UpdateReturnPolicy(c.Request.Context(), params.ID, organization.UpdateReturnPolicyRequest{
		Enabled:             body.Enabled,
		RequirePhoto:        body.RequirePhoto,
		RequireVerification: body.RequireVerification,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewOrganizationResponse(org))
}

func (h *Handler) Delete(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid organization id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), params.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
