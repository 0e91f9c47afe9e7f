package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrMissingField is returned when a required input field is empty
	// after trimming. No external calls are made when this is reported.
	ErrMissingField = errors.New("missing required field")

	// ErrAcquisitionFailed is returned when the content acquisition
	// pipeline (scrape, store, train) fails during a cache rebuild.
	ErrAcquisitionFailed = errors.New("content acquisition failed")
)

// MissingFieldError wraps ErrMissingField with the name of the field
// that was empty, so handlers can report which input was missing.
func MissingFieldError(field string) error {
	return &fieldError{field: field}
}

type fieldError struct {
	field string
}

func (e *fieldError) Error() string {
	return "missing required field: " + e.field
}

func (e *fieldError) Unwrap() error {
	return ErrMissingField
}
