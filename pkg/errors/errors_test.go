package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NotFound("appointment", nil), http.StatusNotFound},
		{Validation("bad input", nil), http.StatusBadRequest},
		{Unauthenticated("", nil), http.StatusUnauthorized},
		{Forbidden("", nil), http.StatusForbidden},
		{Conflict("slot taken", nil), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode())
	}
}

func TestIsMatchesWrappedErrors(t *testing.T) {
	base := Conflict("slot taken", nil)
	wrapped := fmt.Errorf("booking failed: %w", base)

	assert.True(t, Is(wrapped, ErrConflict))
	assert.False(t, Is(wrapped, ErrNotFound))
	assert.False(t, Is(errors.New("plain"), ErrConflict))
	assert.False(t, Is(nil, ErrConflict))
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("unique constraint")
	err := Conflict("slot taken", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "slot taken")
	assert.Contains(t, err.Error(), "unique constraint")
}
