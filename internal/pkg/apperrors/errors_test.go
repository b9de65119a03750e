package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", ErrStudentNotFound)))
	assert.True(t, IsNotFound(ErrHealthRecordNotFound))
	assert.False(t, IsNotFound(NewConflictError("student is locked")))
	assert.False(t, IsNotFound(ErrValidationFailed))
	assert.False(t, IsNotFound(nil))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("invalid health record", map[string]string{"weight": "weight must be a number"})

	wrapped := fmt.Errorf("create: %w", err)
	assert.True(t, errors.Is(wrapped, ErrValidationFailed))
	assert.Equal(t, "invalid health record", err.Error())
	assert.Equal(t, "weight must be a number", DetailsOf(wrapped)["weight"])
}

func TestCustomErrorFallbackMessage(t *testing.T) {
	err := &CustomError{Err: ErrConflict}
	assert.Equal(t, "conflict", err.Error())
	assert.Equal(t, "unknown error", (&CustomError{}).Error())
	assert.Nil(t, DetailsOf(errors.New("plain")))
}
