package server

import "github.com/gin-gonic/gin"

// RespondError writes a JSON error body and stops the handler chain.
func RespondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
