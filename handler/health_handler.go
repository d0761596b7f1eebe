package handler

import (
	"net/http"

	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

func HealthHandler(c *gin.Context) {
	if err := utils.PingMongo(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
