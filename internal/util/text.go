package util

import (
	"strings"
	"unicode"
)

// Slugify converts a title into a URL-safe slug: lowercase, alphanumerics
// and hyphens only, no leading/trailing/doubled hyphens.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen

	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// NormalizeQuery trims and collapses internal whitespace in a search query.
// Analytics rows key on the normalized text so "go  gin" and "go gin" aggregate together.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}
