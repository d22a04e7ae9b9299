package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	reservations := g.Group("/reservations")
	reservations.Use(authMiddleware)
	{
		reservations.POST("/:id/evidence", h.Upload)
		reservations.GET("/:id/evidence", h.ListByReservation)
	}

	group := g.Group("/evidence")
	group.Use(authMiddleware)
	{
		group.GET("/:id", h.Download)
		group.GET("/:id/thumbnail", h.DownloadThumbnail)
	}
}
