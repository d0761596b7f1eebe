package handler

import (
	"errors"
	"log"

	"notekeeper/model"
	"notekeeper/services"
	"notekeeper/usecase"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

func LoginHandler(c *gin.Context, userService *usecase.UserService) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	user, err := userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		utils.TrackAuthAttempt("failure", "login")
		if errors.Is(err, model.ErrUserNotFound) {
			utils.BadRequest(c, "Cannot find user")
			return
		}
		if errors.Is(err, model.ErrInvalidCredentials) {
			utils.Unauthorized(c, "Incorrect password")
			return
		}
		utils.InternalError(c, "Error logging in")
		return
	}

	token, err := services.GenerateToken(user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}

	// Audit only; a failed stamp must not fail the login.
	if err := userService.RecordLogin(c.Request.Context(), user.UserID, c.GetHeader("User-Agent")); err != nil {
		log.Printf("Failed to record login for %s: %v", user.UserID, err)
	}

	utils.TrackAuthAttempt("success", "login")
	utils.Success(c, gin.H{"token": token})
}
