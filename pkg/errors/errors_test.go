package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NotFound("entry", "abc-123")
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "abc-123")
}

func TestAppError_Unwrap(t *testing.T) {
	err := NotFound("entry", "abc-123")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUnavailable(t *testing.T) {
	err := Unavailable("search engine unreachable")
	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
	assert.Equal(t, "SERVICE_UNAVAILABLE", err.Code)
	assert.True(t, errors.Is(err, ErrServiceUnavail))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", Unauthorized("no token"), http.StatusUnauthorized},
		{"wrapped app error", fmt.Errorf("outer: %w", InvalidInput("bad")), http.StatusBadRequest},
		{"sentinel not found", fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound},
		{"sentinel unavailable", fmt.Errorf("probe: %w", ErrServiceUnavail), http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	base := errors.New("base")
	wrapped := Wrap(base, "context")
	assert.True(t, errors.Is(wrapped, base))
	assert.Contains(t, wrapped.Error(), "context")
}
