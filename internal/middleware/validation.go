package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/roster/internal/app/models/dto"
	"github.com/yigit/roster/internal/pkg/validation"
)

// BindJSON binds and validates a JSON body. On failure it writes a 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	validation.RegisterBindingRules()
	if err := c.ShouldBindJSON(obj); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			HandleAPIError(c, err)
			return false
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}
