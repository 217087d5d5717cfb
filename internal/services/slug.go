package services

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases, strips diacritics and collapses anything that is not a
// letter or digit into single dashes. An input with no usable characters
// falls back to a fresh uuid so callers always get a non-empty identifier.
func Slugify(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	if folded, _, err := transform.String(foldDiacritics, lower); err == nil {
		lower = folded
	}
	var b strings.Builder
	lastDash := false
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return uuid.NewString()
	}
	return slug
}
