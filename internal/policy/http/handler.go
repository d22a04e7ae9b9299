package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/auth"
	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
	"github.com/mossdrift/orgshare-backend/internal/pkg/response"
	"github.com/mossdrift/orgshare-backend/internal/policy"
	"github.com/mossdrift/orgshare-backend/internal/resource"
)

type Handler struct {
	service policy.Service
}

func NewHandler(service policy.Service) *Handler {
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
	var body CreatePolicyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	pol, err := h.service.Create(c.Request.Context(), policy.CreateRequest{
		OrganizationID: p.OrganizationID,
		Scope:          body.Scope,
		Department:     body.Department,
		RequiredRole:   body.RequiredRole,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPolicyResponse(pol))
}

func (h *Handler) List(c *gin.Context) {
	var query ListPoliciesRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	policies, total, err := h.service.List(c.Request.Context(), policy.Filter{
		OrganizationID: p.OrganizationID,
		Scope:          query.Scope,
		Page:           query.Page,
		PageSize:       query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PolicyResponse, len(policies))
	for i, pol := range policies {
		items[i] = NewPolicyResponse(pol)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, query.Page, query.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid policy id"))
		return
	}

	pol, err := h.service.GetByID(c.Request.Context(), params.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPolicyResponse(pol))
}

// Resolve exposes required-role resolution for display contexts. It uses
// the same precedence as the transition guard.
func (h *Handler) Resolve(c *gin.Context) {
	var query ResolveRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	role, err := h.service.Resolve(c.Request.Context(), p.OrganizationID,
		resource.Kind(query.Scope), resource.OwnerScope(query.OwnerScope), query.OwnerDepartment)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ResolveResponse{RequiredRole: string(role)})
}

func (h *Handler) Update(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid policy id"))
		return
	}

	var body UpdatePolicyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	pol, err := h.service.Update(c.Request.Context(), params.ID, policy.UpdateRequest{
		RequiredRole: body.RequiredRole,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPolicyResponse(pol))
}

func (h *Handler) Delete(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid policy id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), params.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
