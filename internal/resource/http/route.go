package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, principalMiddleware, managerMiddleware gin.HandlerFunc) {
	group := g.Group("/resources")

	group.Use(authMiddleware, principalMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
	}

	manager := group.Group("")
	manager.Use(managerMiddleware)
	{
		manager.POST("", h.Create)
		manager.PATCH("/:id", h.Update)
		manager.PATCH("/:id/status", h.OverrideStatus)
		manager.DELETE("/:id", h.Delete)
	}
}
