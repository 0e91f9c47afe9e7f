package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/celestial/post-api/internal/domain"
	"github.com/celestial/post-api/internal/service"
	"github.com/celestial/post-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing field", domain.MissingFieldError("idea"), http.StatusBadRequest},
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"cache not found", service.ErrCacheNotFound, http.StatusNotFound},
		{"store not found", store.ErrNotFound, http.StatusNotFound},
		{"wrapped store not found", fmt.Errorf("recent posts: %w", store.ErrNotFound), http.StatusNotFound},
		{"acquisition failed", domain.ErrAcquisitionFailed, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "No cache found.", GetSafeErrorMessage(service.ErrCacheNotFound))
	assert.Equal(t, "Not found", GetSafeErrorMessage(fmt.Errorf("lookup: %w", store.ErrNotFound)))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(errors.New("boom")))
}
