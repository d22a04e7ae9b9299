package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, middlewares ...gin.HandlerFunc) {
	group := g.Group("/transfers")

	group.Use(middlewares...)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.POST("/:id/resolve", h.Resolve)
		group.POST("/cancel", h.Cancel)
	}
}
