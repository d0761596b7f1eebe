package middleware

import (
	"strings"

	"notekeeper/services"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the bearer token to a user identity. A missing
// credential is 401; a credential that is present but malformed, expired,
// badly signed or revoked is 403.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Missing token")
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.Forbidden(c, "Invalid authorization header")
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if services.IsTokenBlacklisted(c.Request.Context(), tokenString) {
			utils.Forbidden(c, "Token has been invalidated")
			c.Abort()
			return
		}

		userID, err := services.ParseToken(tokenString)
		if err != nil {
			utils.Forbidden(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("access_token", tokenString)
		c.Next()
	}
}
