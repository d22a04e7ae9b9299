package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, middlewares ...gin.HandlerFunc) {
	group := g.Group("/audit")

	group.Use(middlewares...)
	{
		group.GET("", h.List)
	}
}
