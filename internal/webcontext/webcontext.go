// Package webcontext enriches generation prompts with fresh search
// snippets from the public web.
//
// Lookups are strictly best-effort: any failure (missing API key,
// network error, malformed payload) degrades to the NoContext sentinel
// so prompt building never blocks on a third-party search outage.
package webcontext

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NoContext is the sentinel used when no web context is available.
const NoContext = "None"

const (
	defaultBaseURL = "https://serpapi.com/search"
	maxSnippets    = 5
	requestTimeout = 10 * time.Second
)

// Provider supplies search snippets for a query.
type Provider interface {
	Snippets(ctx context.Context, query string) string
}

// SerpClient fetches organic search result snippets from SerpAPI.
type SerpClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSerpClient creates a SerpAPI-backed Provider. An empty apiKey is
// allowed; lookups then always return NoContext.
func NewSerpClient(apiKey string, logger *slog.Logger) *SerpClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &SerpClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger.With(slog.String("component", "webcontext")),
	}
}

// searchResponse mirrors the slice of the SerpAPI payload we read.
type searchResponse struct {
	OrganicResults []struct {
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// Snippets returns up to five organic result snippets for the query,
// joined with " | ". Failures return NoContext.
func (c *SerpClient) Snippets(ctx context.Context, query string) string {
	if c.apiKey == "" || strings.TrimSpace(query) == "" {
		return NoContext
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("num", fmt.Sprintf("%d", maxSnippets))
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to build search request", "error", err)
		return NoContext
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "web context lookup failed", "error", err)
		return NoContext
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WarnContext(ctx, "web context lookup returned non-OK status",
			"status", resp.StatusCode,
			"body", strings.TrimSpace(string(body)))
		return NoContext
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.WarnContext(ctx, "failed to decode search response", "error", err)
		return NoContext
	}

	snippets := make([]string, 0, maxSnippets)
	for _, result := range payload.OrganicResults {
		if result.Snippet == "" {
			continue
		}
		snippets = append(snippets, result.Snippet)
		if len(snippets) == maxSnippets {
			break
		}
	}

	if len(snippets) == 0 {
		return NoContext
	}
	return strings.Join(snippets, " | ")
}
