package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	conflict := Clone(ErrConflict, "email already registered")
	wrapped := fmt.Errorf("add student: %w", conflict)

	got := FromError(wrapped)
	assert.Equal(t, "CONFLICT", got.Code)
	assert.Equal(t, http.StatusConflict, got.Status)
	assert.Equal(t, "email already registered", got.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	got := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.EqualError(t, got, "internal server error: boom")
}

func TestIsMatchesByCode(t *testing.T) {
	err := Wrap(errors.New("no rows"), ErrNotFound.Code, ErrNotFound.Status, "student not found")
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrConflict))
	assert.False(t, Is(errors.New("plain"), ErrNotFound))
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrValidation, "month must be YYYY-MM")
	assert.Equal(t, "validation failed", ErrValidation.Message)
	assert.Equal(t, "month must be YYYY-MM", clone.Message)
}
