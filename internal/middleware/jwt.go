package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rec4u/backend/internal/auth"
	"github.com/rec4u/backend/pkg/response"
)

// JWT returns a middleware that validates the bearer token and sets the
// authenticated user's ID and username in the gin context. Handlers derive
// ownership from these values only, never from request parameters.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(auth.ContextUserID, claims.UserID)
		c.Set(auth.ContextUsername, claims.Username)
		c.Next()
	}
}
