package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/auth"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
	"github.com/mossdrift/orgshare-backend/internal/pkg/response"
	"github.com/mossdrift/orgshare-backend/internal/user"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

//
// GET /v1/users
//

func (h *UserHandler) List(c *gin.Context) {
	var query ListUsersRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters: "+err.Error()))
		return
	}

	p, ok := auth.GetPrincipal(c)
	if !ok {
		response.Error(c, apperror.Permission("no acting principal resolved"))
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), user.Filter{
		OrganizationID: p.OrganizationID,
		Department:     query.Department,
		Role:           query.Role,
		IsActive:       query.IsActive,
		Page:           query.Page,
		PageSize:       query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = NewUserResponse(u)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, query.Page, query.PageSize, total))
}

//
// GET /v1/users/:id
//

func (h *UserHandler) Get(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}

	u, err := h.userService.GetByID(c.Request.Context(), params.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewUserResponse(u))
}

//
// PATCH /v1/users/:id
//

func (h *UserHandler) UpdateMember(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}

	var body UpdateMemberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	u, err := h.userService.UpdateMember(c.Request.Context(), params.ID, user.UpdateMemberRequest{
		Role:       body.Role,
		Department: body.Department,
		IsActive:   body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewUserResponse(u))
}
