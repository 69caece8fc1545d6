package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_SentinelMatching(t *testing.T) {
	assert.ErrorIs(t, NotFound("plant", "p1"), ErrNotFound)
	assert.ErrorIs(t, InvalidInput("bad sort"), ErrInvalidInput)
	assert.ErrorIs(t, Unavailable("upstream down"), ErrUnavailable)
}

func TestAppError_WrappedSentinelMatching(t *testing.T) {
	err := Wrap(Unavailable("upstream down"), "refresh catalog")
	assert.ErrorIs(t, err, ErrUnavailable)

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "SERVICE_UNAVAILABLE", appErr.Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("plant", "p1"), http.StatusNotFound},
		{"invalid input", InvalidInput("bad"), http.StatusBadRequest},
		{"unavailable", Unavailable("down"), http.StatusServiceUnavailable},
		{"internal", Internal(fmt.Errorf("boom")), http.StatusInternalServerError},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"wrapped sentinel", fmt.Errorf("ctx: %w", ErrNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestAppError_Message(t *testing.T) {
	err := NotFound("plant", "p1")
	assert.Contains(t, err.Error(), "plant with id p1 not found")
	assert.Contains(t, err.Error(), "NOT_FOUND")
}
