package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/000000-cmd/SaasBack/internal/gateway/routes"
	"github.com/000000-cmd/SaasBack/pkg/token"
)

// Identity headers injected for backend services. Any value a client
// sends on these headers is discarded before forwarding.
const (
	HeaderUserUsername = "X-User-Username"
	HeaderUserID       = "X-User-Id"
	HeaderUserRoles    = "X-User-Roles"
)

// Authentication verifies the Bearer token on protected routes and
// replaces it with identity headers for the backends.
func Authentication(codec *token.Provider, validator *routes.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Clients must not be able to spoof identity
		c.Request.Header.Del(HeaderUserUsername)
		c.Request.Header.Del(HeaderUserID)
		c.Request.Header.Del(HeaderUserRoles)

		if !validator.RequiresAuth(c.Request.Method, c.Request.URL.Path) {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is missing")
			return
		}

		bearer, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || bearer == "" {
			unauthorized(c, "Authorization header must use the Bearer scheme")
			return
		}

		claims, err := codec.Verify(bearer)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Request.Header.Set(HeaderUserUsername, claims.Subject)
		if claims.UserID != "" {
			c.Request.Header.Set(HeaderUserID, claims.UserID)
		}
		if len(claims.Roles) > 0 {
			c.Request.Header.Set(HeaderUserRoles, strings.Join(claims.Roles, ","))
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":     http.StatusText(http.StatusUnauthorized),
		"message":   message,
		"status":    http.StatusUnauthorized,
		"path":      c.Request.URL.Path,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
