// Package postprocess turns raw model output into a deliverable post:
// duplicate lines are collapsed, model-authored hashtags are replaced with
// keyword hashtags derived from the idea, and a closing prompt is appended
// when the text does not already end on a question.
package postprocess

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// closingPrompt is appended when the post contains no question at all.
const closingPrompt = "What do you think?"

// maxKeywordHashtags bounds how many hashtags are derived from the idea.
const maxKeywordHashtags = 3

// Normalize produces the final post text from raw model output and the
// original idea. The result is idempotent: normalizing its own output
// yields the same text. For non-empty input the result is never empty and
// always contains a '?' character.
func Normalize(raw, idea string) string {
	tags := keywordHashtags(idea)

	text := dedupeLines(raw)
	// Model-authored hashtag lines are discarded in favor of the derived
	// ones; the derived line itself survives so re-normalizing is stable.
	text = stripHashtagLines(text, tags)

	if tags != "" && !containsLine(text, tags) {
		text += "\n" + tags
	}

	if !strings.Contains(text, "?") {
		text += "\n" + closingPrompt
	}

	return strings.TrimSpace(text)
}

// containsLine reports whether any line of text equals s after trimming.
func containsLine(text, s string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == s {
			return true
		}
	}
	return false
}

// dedupeLines drops blank lines and any line identical to one already kept,
// preserving first-seen order.
func dedupeLines(text string) string {
	var kept []string
	seen := make(map[string]struct{})

	for _, line := range strings.Split(text, "\n") {
		clean := strings.TrimSpace(line)
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		kept = append(kept, clean)
		seen[clean] = struct{}{}
	}

	return strings.Join(kept, "\n")
}

// stripHashtagLines removes every line whose trimmed form starts with '#',
// except the line equal to keep.
func stripHashtagLines(text, keep string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && trimmed != keep {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// keywordHashtags derives up to maxKeywordHashtags hashtags from idea words
// longer than 3 characters, in their original order, each capitalized.
// Returns the hashtags joined by spaces, or "" when none qualify.
func keywordHashtags(idea string) string {
	var tags []string
	for _, word := range strings.Fields(idea) {
		if utf8.RuneCountInString(word) <= 3 {
			continue
		}
		tags = append(tags, "#"+capitalize(word))
		if len(tags) == maxKeywordHashtags {
			break
		}
	}
	return strings.Join(tags, " ")
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}
