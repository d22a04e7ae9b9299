package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/auth"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/pkg/response"
	"github.com/mossdrift/orgshare-backend/internal/user"
)

type AuthHandler struct {
	userService user.Service
	jwtManager  *auth.JWTManager
}

func NewAuthHandler(userService user.Service, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtManager:  jwtManager,
	}
}

//
// POST /v1/auth/register
//

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	var displayName *string
	if req.DisplayName != "" {
		displayName = &req.DisplayName
	}

	u, err := h.userService.Register(c.Request.Context(), user.RegisterRequest{
		Email:          req.Email,
		Password:       req.Password,
		DisplayName:    displayName,
		OrganizationID: req.OrganizationID,
		Department:     req.Department,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{User: NewUserResponse(u)})
}

//
// POST /v1/auth/login
//

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	u, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(u.Principal(), u.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		User:        NewUserResponse(u),
	})
}

//
// GET /v1/me
//

func (h *AuthHandler) Me(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{User: NewUserResponse(u)})
}
