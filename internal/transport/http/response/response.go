package response

import "github.com/gin-gonic/gin"

// OK sends a 200 with the given payload as-is. Handlers own the shape of
// their success bodies; errors share the single {error} shape below.
func OK(c *gin.Context, payload gin.H) {
	c.JSON(200, payload)
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"error": message})
}
