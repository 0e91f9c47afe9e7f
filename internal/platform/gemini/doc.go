// Package gemini implements the generation.Generator interface using
// Google's Gemini API.
//
// Every call passes through a shared rate limiter. Transient overload
// responses are retried with exponential backoff and jitter, and when
// the primary model is exhausted the generator falls back to a
// secondary model tier. If both tiers fail, a deterministic placeholder
// post is returned so the caller always receives usable text.
//
// Candidate lists, content, and parts are all checked before text is
// extracted, so malformed or blocked responses surface as errors rather
// than panics.
package gemini
