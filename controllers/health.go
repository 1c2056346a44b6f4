package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// GetHealth reports service status and uptime in milliseconds.
func GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": fmt.Sprintf("%dms", time.Since(startTime).Milliseconds()),
	})
}
