package handler

import (
	"time"

	"notekeeper/services"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

// LogoutHandler revokes the bearer token for the rest of its lifetime.
// Runs behind the auth middleware, so the token is already verified.
func LogoutHandler(c *gin.Context) {
	tokenString := c.GetString("access_token")

	ttl := time.Duration(utils.JWTExpirationTime) * time.Second
	if err := services.BlacklistToken(c.Request.Context(), tokenString, ttl); err != nil {
		utils.InternalError(c, "Failed to invalidate token")
		return
	}

	utils.Success(c, gin.H{"message": "Logged out successfully"})
}
