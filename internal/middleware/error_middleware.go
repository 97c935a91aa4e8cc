package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/roster/internal/app/models/dto"
	"github.com/yigit/roster/internal/pkg/apperrors"
	"github.com/yigit/roster/internal/pkg/logger"
)

// HandleAPIError maps an error onto the standard error response
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("request_id", RequestIDFrom(c)).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Msg("Request failed")

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	var ce *apperrors.CustomError
	hasCustom := errors.As(err, &ce)

	message := func(fallback string) string {
		if hasCustom {
			return ce.Error()
		}
		return fallback
	}

	var detail *dto.ErrorDetail
	var status int

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodePayloadTooLarge, "payload too large").
			WithDetails(map[string]interface{}{"limit": maxErr.Limit})
		return status, detail

	case errors.Is(err, apperrors.ErrResourceNotFound):
		status = http.StatusNotFound
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message("Resource not found")).
			WithSeverity(dto.ErrorSeverityWarning)

	case errors.Is(err, apperrors.ErrConflict):
		// Conflicts are reported as plain client errors.
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeConflict, message("Conflict")).
			WithSeverity(dto.ErrorSeverityWarning)

	case errors.Is(err, apperrors.ErrValidationFailed):
		status = http.StatusBadRequest
		code := dto.ErrorCodeValidationFailed
		if errors.Is(err, apperrors.ErrPayloadTooLarge) {
			code = dto.ErrorCodePayloadTooLarge
		}
		detail = dto.NewErrorDetail(code, message("Validation failed")).
			WithSeverity(dto.ErrorSeverityWarning)

	case errors.Is(err, apperrors.ErrBadRequest):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, message("Bad request")).
			WithSeverity(dto.ErrorSeverityWarning)

	case errors.Is(err, apperrors.ErrStorageInvariant):
		status = http.StatusInternalServerError
		detail = dto.NewErrorDetail(dto.ErrorCodeStorageInvariant, message("Stored data is inconsistent")).
			WithSeverity(dto.ErrorSeverityCritical)

	default:
		// Store failures surface their own text.
		return http.StatusInternalServerError,
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithDetails(err.Error())
	}

	if hasCustom && ce.Details != nil {
		if field, ok := ce.Details["field"].(string); ok {
			detail = detail.WithField(field)
		}
		detail = detail.WithDetails(ce.Details)
	}
	return status, detail
}
