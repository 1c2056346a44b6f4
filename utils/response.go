// utils/response.go
package utils

import "github.com/gin-gonic/gin"

// RespondWithError sends the standard {message, error} JSON error body.
func RespondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message, "error": message})
}

// RespondWithErrorDetail keeps the original failure text alongside the message.
func RespondWithErrorDetail(c *gin.Context, status int, message string, err error) {
	detail := message
	if err != nil {
		detail = err.Error()
	}
	c.JSON(status, gin.H{"message": message, "error": detail})
}
