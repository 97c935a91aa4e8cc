package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/roster/internal/middleware"
	"github.com/yigit/roster/internal/pkg/apperrors"
)

// pathID parses the :id parameter. Negative or non-numeric ids are answered with 400.
func pathID(ctx *gin.Context, resource string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("invalid "+resource+" id"))
		return 0, false
	}
	return id, true
}
