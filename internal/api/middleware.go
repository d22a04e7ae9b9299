package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/auth"
	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/user"
)

// RequirePrincipal resolves the authenticated user's membership into a
// principal for downstream handlers. It MUST be used after
// auth.AuthRequired middleware.
func RequirePrincipal(userService user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		p, err := userService.Principal(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "membership could not be resolved"})
			return
		}

		auth.SetPrincipal(c, p)
		c.Next()
	}
}

// RequireRole gates a route on the principal's role rank.
// It MUST be used after RequirePrincipal.
func RequireRole(min identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !p.Role.AtLeast(min) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: " + string(min) + " access required"})
			return
		}

		c.Next()
	}
}
