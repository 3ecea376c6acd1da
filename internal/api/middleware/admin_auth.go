package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"skaplSite/internal/auth"
)

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// AdminAuthMiddleware validates the operator session token from the
// Authorization header.
func AdminAuthMiddleware(authService *auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c)
			return
		}

		rawToken := strings.TrimSpace(parts[1])
		if rawToken == "" {
			abortUnauthorized(c)
			return
		}

		if _, err := authService.ValidateToken(rawToken); err != nil {
			abortUnauthorized(c)
			return
		}

		c.Next()
	}
}
