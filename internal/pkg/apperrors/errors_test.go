package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorUnwrapsCategoryAndCause(t *testing.T) {
	cause := errors.New("unsupported media type")
	err := NewValidationError(cause, "unsupported media type: application/pdf")

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrResourceNotFound)
	assert.Equal(t, "unsupported media type: application/pdf", err.Error())
}

func TestSentinelsKeepTheirCategory(t *testing.T) {
	wrapped := fmt.Errorf("delete group 3: %w", ErrGroupHasStudents)

	assert.ErrorIs(t, wrapped, ErrConflict)
	assert.ErrorIs(t, ErrStudentNotFound, ErrResourceNotFound)
	assert.ErrorIs(t, ErrGroupNotFound, ErrResourceNotFound)
	assert.ErrorIs(t, ErrInvalidStoredImage, ErrStorageInvariant)
	assert.ErrorIs(t, ErrPhotoTypeMismatch, ErrStorageInvariant)
	assert.Equal(t, "cannot delete group with existing students", wrapped.Error()[len("delete group 3: "):])
}

func TestIsMatchesAnyOfTheList(t *testing.T) {
	err := NewBadRequestError("bad id")

	assert.True(t, Is(err, ErrValidationFailed, ErrBadRequest))
	assert.False(t, Is(err, ErrConflict, ErrStorageInvariant))
}

func TestErrorFallsBackToCauseThenCategory(t *testing.T) {
	assert.Equal(t, "boom", (&CustomError{Err: ErrConflict, Cause: errors.New("boom")}).Error())
	assert.Equal(t, "conflict", (&CustomError{Err: ErrConflict}).Error())
	assert.Equal(t, "unknown error", (&CustomError{}).Error())
}
