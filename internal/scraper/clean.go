package scraper

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// minPostLength filters out fragments that are too short to be real
// posts (reaction labels, orphaned hashtags, and similar feed noise).
const minPostLength = 10

// junkLines are feed chrome that leaks into the extracted text.
var junkLines = map[string]struct{}{
	"…more":     {},
	"...more":   {},
	"see more":  {},
	"…see more": {},
	"hashtag":   {},
	"like":      {},
	"comment":   {},
	"share":     {},
	"repost":    {},
	"send":      {},
	"follow":    {},
	"following": {},
}

// CleanPost strips feed chrome from raw post text. It returns the empty
// string when nothing substantial remains.
func CleanPost(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	prev := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if _, junk := junkLines[strings.ToLower(trimmed)]; junk {
			continue
		}
		// Feed markup repeats the visible text in an aria block.
		if trimmed == prev {
			continue
		}
		kept = append(kept, trimmed)
		prev = trimmed
	}

	text := strings.Join(kept, "\n")
	if utf8.RuneCountInString(text) < minPostLength {
		return ""
	}
	return text
}

// ParseCount converts engagement count text like "1,234" or "1.2K" to
// an integer. Unparseable input yields zero.
func ParseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(strings.ToUpper(s), "K"):
		multiplier = 1_000
		s = s[:len(s)-1]
	case strings.HasSuffix(strings.ToUpper(s), "M"):
		multiplier = 1_000_000
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(value * multiplier)
}
