package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/okaraca/coursehub/internal/app/models/dto"
)

// BindJSON binds and validates a JSON body, writing the structured
// validation response on failure. Returns false when the request was
// rejected.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.HandleValidationError(err))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters the same way
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.HandleValidationError(err))
		return false
	}
	return true
}
