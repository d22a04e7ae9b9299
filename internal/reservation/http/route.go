package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, middlewares ...gin.HandlerFunc) {
	group := g.Group("/reservations")

	group.Use(middlewares...)
	{
		group.GET("", h.List)
		group.GET("/required-role", h.RequiredRole)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PATCH("/:id/status", h.ChangeStatus)
		group.POST("/:id/return", h.SubmitReturn)
		group.POST("/:id/verify", h.VerifyReturn)
	}
}
