package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// ErrPayloadTooLarge is the cause carried by validation errors for oversized bodies or parts.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrStorageInvariant marks data read back from a store that the write path should never have produced.
	ErrStorageInvariant = errors.New("storage invariant violated")
)

// Student Errors
var (
	ErrStudentNotFound = &CustomError{Err: ErrResourceNotFound, Message: "student not found"}
	ErrPhotoNotFound   = &CustomError{Err: ErrResourceNotFound, Message: "student has no photo"}

	ErrPhotoTypeMismatch  = &CustomError{Err: ErrStorageInvariant, Message: "photo and media type stored inconsistently"}
	ErrInvalidStoredImage = &CustomError{Err: ErrStorageInvariant, Message: "invalid image format stored on server"}
)

// Group Errors
var (
	ErrGroupNotFound    = &CustomError{Err: ErrResourceNotFound, Message: "group not found"}
	ErrGroupHasStudents = &CustomError{Err: ErrConflict, Message: "cannot delete group with existing students"}
)

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError reports a rejected client submission. cause identifies the
// specific rejection and stays reachable through errors.Is.
func NewValidationError(cause error, message string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Cause:   cause,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Cause   error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap exposes both the category and the cause to errors.Is / errors.As.
func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
