package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, principalMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/organizations")

	group.Use(authMiddleware, principalMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
	}

	admin := group.Group("")
	admin.Use(adminMiddleware)
	{
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.PATCH("/:id/return-policy", h.UpdateReturnPolicy)
		admin.DELETE("/:id", h.Delete)
	}
}
