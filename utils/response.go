package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// JSONErrorWithMessage carries both the short error label and the
// user-facing message, matching the public endpoint envelope.
func JSONErrorWithMessage(c *gin.Context, code int, label, message string) {
	c.JSON(code, gin.H{"success": false, "error": label, "message": message})
}
