package handler

import (
	"errors"

	"notekeeper/model"
	"notekeeper/usecase"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

func RegistrationHandler(c *gin.Context, userService *usecase.UserService) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid username or password")
		return
	}

	user, err := userService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			utils.TrackAuthAttempt("failure", "register")
			utils.Conflict(c, "Username already exists")
			return
		}
		utils.InternalError(c, "Error registering user")
		return
	}

	utils.TrackAuthAttempt("success", "register")
	utils.Created(c, gin.H{
		"user_id":  user.UserID,
		"username": user.Username,
	})
}
