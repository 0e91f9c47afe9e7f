package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"google.golang.org/genai"

	"github.com/celestial/post-api/internal/config"
	"github.com/celestial/post-api/internal/generation"
)

// Default model tiers and retry budget, used when the configuration
// leaves them unset.
const (
	DefaultPrimaryModel  = "gemini-2.0-flash-exp"
	DefaultFallbackModel = "gemini-1.5-pro"
	DefaultMaxAttempts   = 4
)

// modelCaller abstracts the underlying API client so retry and fallback
// behavior can be tested without network access.
type modelCaller interface {
	generateContent(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error)
}

// genaiCaller is the production modelCaller backed by a genai.Client.
type genaiCaller struct {
	client *genai.Client
}

func (c *genaiCaller) generateContent(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	return c.client.Models.GenerateContent(ctx, model, contents, generationConfig())
}

// generationConfig returns the sampling parameters shared by every tier.
func generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(0.7)),
		TopP:            genai.Ptr(float32(0.9)),
		TopK:            genai.Ptr(float32(40)),
		MaxOutputTokens: 1000,
	}
}

// TieredGenerator implements generation.Generator with a primary model,
// a fallback model, and a deterministic placeholder as the last resort.
type TieredGenerator struct {
	logger        *slog.Logger
	limiter       generation.Limiter
	caller        modelCaller
	primaryModel  string
	fallbackModel string
	maxAttempts   int

	// sleep waits between retry attempts; injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

var _ generation.Generator = (*TieredGenerator)(nil)

// NewTieredGenerator creates a TieredGenerator backed by the Gemini API.
//
// The limiter gates every outbound call, including retries, so the
// process-wide request rate holds regardless of how many requests are
// in flight.
func NewTieredGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
	limiter generation.Limiter,
) (*TieredGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if limiter == nil {
		return nil, errors.New("limiter cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	primary := cfg.PrimaryModel
	if primary == "" {
		primary = DefaultPrimaryModel
	}
	fallback := cfg.FallbackModel
	if fallback == "" {
		fallback = DefaultFallbackModel
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		logger.Warn("invalid max attempts value, using default",
			"max_attempts", DefaultMaxAttempts)
		maxAttempts = DefaultMaxAttempts
	}

	return &TieredGenerator{
		logger:        logger,
		limiter:       limiter,
		caller:        &genaiCaller{client: client},
		primaryModel:  primary,
		fallbackModel: fallback,
		maxAttempts:   maxAttempts,
		sleep:         sleepContext,
	}, nil
}

// GeneratePost produces raw post text for the given prompt.
//
// The primary model is tried first with the full retry budget; if it is
// exhausted or fails permanently, the fallback model gets its own
// budget. When both tiers fail, a deterministic placeholder built from
// the idea is returned so the caller always has text to work with.
// Context cancellation is the only failure that propagates as an error.
func (g *TieredGenerator) GeneratePost(ctx context.Context, prompt, idea string) (string, error) {
	if prompt == "" {
		return "", generation.ErrEmptyPrompt
	}

	for _, model := range []string{g.primaryModel, g.fallbackModel} {
		text, err := g.generateWithModel(ctx, model, prompt)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", err
		}

		g.logger.WarnContext(ctx, "model tier failed, moving on",
			"model", model,
			"error", err)
	}

	g.logger.WarnContext(ctx, "all model tiers failed, using placeholder post")
	return placeholderPost(idea), nil
}

// generateWithModel runs the retry loop for a single model tier.
func (g *TieredGenerator) generateWithModel(ctx context.Context, model, prompt string) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if err := g.limiter.Acquire(ctx); err != nil {
			return "", fmt.Errorf("acquire rate limit permit: %w", err)
		}

		g.logger.DebugContext(ctx, "calling model",
			"model", model,
			"attempt", attempt+1,
			"max_attempts", g.maxAttempts)

		resp, err := g.caller.generateContent(ctx, model, prompt)
		if err == nil {
			text, extractErr := responseText(resp)
			if extractErr != nil {
				return "", fmt.Errorf("%w: %v", generation.ErrPermanentFailure, extractErr)
			}
			return text, nil
		}

		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, ctx.Err())
		}

		if !isTransientError(err) {
			return "", fmt.Errorf("%w: %v", generation.ErrPermanentFailure, err)
		}

		g.logger.WarnContext(ctx, "transient model error",
			"model", model,
			"attempt", attempt+1,
			"error", err)

		if attempt == g.maxAttempts-1 {
			break
		}

		// Exponential backoff with jitter: 2^attempt plus a random
		// fraction of a second, so concurrent retries fan out.
		delaySeconds := math.Pow(2, float64(attempt)) + rand.Float64()
		delay := time.Duration(delaySeconds * float64(time.Second))
		if err := g.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
		}
	}

	return "", fmt.Errorf("%w: model %s exhausted %d attempts",
		generation.ErrTransientOverload, model, g.maxAttempts)
}

// placeholderPost is the last-resort output when every model tier fails.
func placeholderPost(idea string) string {
	return fmt.Sprintf("Here's a quick thought on %s: every journey begins with a spark of vision.", idea)
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
