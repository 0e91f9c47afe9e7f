package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when post generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate post text")

	// ErrTransientOverload is returned for rate-limited or resource-exhausted
	// signals from the model endpoint; these are retried with backoff
	ErrTransientOverload = errors.New("model endpoint temporarily overloaded")

	// ErrPermanentFailure is returned for any non-transient generation failure;
	// it aborts the current tier's attempts without retrying
	ErrPermanentFailure = errors.New("permanent error from language model")

	// ErrEmptyPrompt is returned when a prompt is empty
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
