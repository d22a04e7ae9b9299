package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/identity"
)

const (
	ctxKeyUserID    = "userID"
	ctxKeyUserEmail = "userEmail"
	ctxKeyPrincipal = "principal"
)

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserEmail returns the authenticated user's email or empty string.
func GetUserEmail(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserEmail); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SetPrincipal stores the resolved principal for downstream handlers.
func SetPrincipal(c *gin.Context, p identity.Principal) {
	c.Set(ctxKeyPrincipal, p)
}

// GetPrincipal returns the resolved principal and whether one was set.
func GetPrincipal(c *gin.Context) (identity.Principal, bool) {
	if v, ok := c.Get(ctxKeyPrincipal); ok {
		if p, ok := v.(identity.Principal); ok {
			return p, true
		}
	}
	return identity.Principal{}, false
}
