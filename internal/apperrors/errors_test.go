package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("fetch failed: %w", NewProviderError("openexchangerates", 0, cause))

	assert.ErrorIs(t, err, ErrProvider)
	assert.ErrorIs(t, err, cause)

	var providerErr *ProviderError
	assert.True(t, errors.As(err, &providerErr))
	assert.Equal(t, "openexchangerates", providerErr.Provider)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAppErrorUnwrap(t *testing.T) {
	err := NewNotFoundError("transaction not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, err.Code)

	plain := NewInternalServerError("boom")
	assert.Nil(t, plain.Unwrap())
	assert.Equal(t, "boom", plain.Error())
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unsupported currency", fmt.Errorf("%w: XYZ", ErrUnsupportedCurrency), http.StatusBadRequest},
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"not found", fmt.Errorf("wrap: %w", ErrNotFound), http.StatusNotFound},
		{"duplicate", NewConflictError("exists"), http.StatusConflict},
		{"rate unavailable", fmt.Errorf("%w: EUR", ErrRateUnavailable), http.StatusServiceUnavailable},
		{"rates unavailable", fmt.Errorf("%w: no cache", ErrRatesUnavailable), http.StatusServiceUnavailable},
		{"gateway timeout", NewGatewayTimeoutError("slow"), http.StatusGatewayTimeout},
		{"storage", fmt.Errorf("%w: db down", ErrStorage), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusCode(tc.err))
		})
	}
}
