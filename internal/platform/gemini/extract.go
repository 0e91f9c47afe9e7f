package gemini

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// responseText extracts the generated text from a model response.
//
// Candidates are scanned in order and the first one with usable part
// text wins. Every level of the response structure is checked before
// access, since the API can return nil candidates, blocked content, or
// empty part lists under load.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrEmptyResponse)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrEmptyResponse)
	}

	blocked := false
	for _, candidate := range resp.Candidates {
		if candidate == nil {
			continue
		}
		if candidate.FinishReason == genai.FinishReasonSafety {
			blocked = true
			continue
		}
		if candidate.Content == nil {
			continue
		}

		var texts []string
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if text := strings.TrimSpace(part.Text); text != "" {
				texts = append(texts, text)
			}
		}
		if len(texts) > 0 {
			return strings.Join(texts, " "), nil
		}
	}

	if blocked {
		return "", ErrContentBlocked
	}
	return "", fmt.Errorf("%w: no candidate produced text", ErrEmptyResponse)
}
