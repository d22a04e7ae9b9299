package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/auth"
	"github.com/mossdrift/orgshare-backend/internal/department"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
	"github.com/mossdrift/orgshare-backend/internal/pkg/response"
)

type Handler struct {
	service department.Service
}

func NewHandler(service department.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateDepartmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	dept, err := h.service.Create(c.Request.Context(), department.CreateRequest{
		OrganizationID: body.OrganizationID,
		Name:           body.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewDepartmentResponse(dept))
}

func (h *Handler) List(c *gin.Context) {
	var query ListDepartmentsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters: "+err.Error()))
		return
	}

	orgID := query.OrganizationID
	if orgID == "" {
		if p, ok := auth.GetPrincipal(c); ok {
			orgID = p.OrganizationID
		}
	}

	depts, total, err := h.service.List(c.Request.Context(), department.Filter{
		OrganizationID: orgID,
		Page:           query.Page,
		PageSize:       query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		items[i] = NewDepartmentResponse(d)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, query.Page, query.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid department id"))
		return
	}

	dept, err := h.service.GetByID(c.Request.Context(), params.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDepartmentResponse(dept))
}

func (h *Handler) Update(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid department id"))
		return
	}

	var body UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	dept, err := h.service.Update(c.Request.Context(), params.ID, department.UpdateRequest{Name: body.Name})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDepartmentResponse(dept))
}

func (h *Handler) Delete(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid department id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), params.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
