package generation

import "context"

// Generator defines the interface for producing raw post text from a prompt.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
//
// Implementations own their resilience policy: retries, backoff, and model
// tier fallback all happen behind this interface. The returned text is raw
// model output; post-processing is the caller's concern.
type Generator interface {
	// GeneratePost produces raw post text for the given prompt.
	//
	// Implementations never surface transient model overload to the caller:
	// when all tiers fail, a deterministic non-empty placeholder text is
	// returned instead, so the error return covers only configuration and
	// cancellation failures.
	GeneratePost(ctx context.Context, prompt, idea string) (string, error)
}

// Limiter gates outbound calls to the model endpoint. Acquire blocks the
// caller until a permit is available.
type Limiter interface {
	Acquire(ctx context.Context) error
}
