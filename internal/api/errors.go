package api

import (
	"errors"
	"net/http"

	"github.com/celestial/post-api/internal/domain"
	"github.com/celestial/post-api/internal/generation"
	"github.com/celestial/post-api/internal/service"
	"github.com/celestial/post-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad request errors
	case errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, generation.ErrEmptyPrompt):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, service.ErrCacheNotFound), store.IsNotFoundError(err):
		return http.StatusNotFound

	// Upstream acquisition failures: the profile feed could not be read
	case errors.Is(err, domain.ErrAcquisitionFailed):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrMissingField):
		return "Missing required fields"

	case errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	case errors.Is(err, service.ErrCacheNotFound):
		return "No cache found."

	case store.IsNotFoundError(err):
		return "Not found"

	case errors.Is(err, domain.ErrAcquisitionFailed):
		return "Failed to read the profile feed"

	default:
		return "An unexpected error occurred"
	}
}
