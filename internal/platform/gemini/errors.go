package gemini

import (
	"errors"

	"google.golang.org/genai"
)

var (
	// ErrEmptyResponse is returned when the model replies with no usable text.
	ErrEmptyResponse = errors.New("model returned no usable text")

	// ErrContentBlocked is returned when the response was stopped by
	// safety filters.
	ErrContentBlocked = errors.New("content blocked by safety filters")
)

// HTTP status codes the Gemini API uses to signal overload.
const (
	statusTooManyRequests    = 429
	statusServiceUnavailable = 503
)

// isTransientError reports whether err signals a temporary condition
// worth retrying: rate limiting or endpoint overload. Everything else,
// including malformed responses and safety blocks, is permanent.
func isTransientError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case statusTooManyRequests, statusServiceUnavailable:
			return true
		}
		switch apiErr.Status {
		case "RESOURCE_EXHAUSTED", "UNAVAILABLE":
			return true
		}
		return false
	}
	// Errors without an API error envelope carry no overload signal, so
	// one failed attempt settles the tier.
	return false
}
