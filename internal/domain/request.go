package domain

import "strings"

// GenerationRequest carries the inputs for a single post generation.
// It is immutable once constructed; NewGenerationRequest trims all fields.
type GenerationRequest struct {
	Idea    string
	Founder string
	Company string
}

// NewGenerationRequest builds a request from raw user input, trimming
// whitespace. Returns ErrMissingField if the idea is blank after trimming.
func NewGenerationRequest(idea, founder, company string) (GenerationRequest, error) {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return GenerationRequest{}, MissingFieldError("idea")
	}

	return GenerationRequest{
		Idea:    idea,
		Founder: strings.TrimSpace(founder),
		Company: strings.TrimSpace(company),
	}, nil
}

// ContextQuery returns the search query used for web-context enrichment:
// founder and company when available, the idea text otherwise.
func (r GenerationRequest) ContextQuery() string {
	q := strings.TrimSpace(r.Founder + " " + r.Company)
	if q == "" {
		return r.Idea
	}
	return q
}
