package cache

import (
	"strings"
	"unicode"
)

// NormalizeKey maps a profile name to its cache key: letters and digits are
// kept, spaces and underscores are kept, everything else is dropped; the
// result is trimmed, spaces become underscores, and the whole key is
// lower-cased.
//
// Names differing only in punctuation or case collapse to the same key.
// That mirrors the cache filename scheme this store replaces and is kept
// deliberately; callers that need distinct entries must use distinct names.
func NormalizeKey(profileName string) string {
	var b strings.Builder
	for _, r := range profileName {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' {
			b.WriteRune(r)
		}
	}

	key := strings.TrimRight(b.String(), " ")
	key = strings.ReplaceAll(key, " ", "_")
	return strings.ToLower(key)
}
