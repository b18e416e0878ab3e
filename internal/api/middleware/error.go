package middleware

import (
	"net/http"

	"entry-optimizer/internal/api/models"

	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware handles panics
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		message := "An unexpected error occurred"
		if err, ok := recovered.(string); ok {
			message = err
		} else if err, ok := recovered.(error); ok {
			message = err.Error()
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}
