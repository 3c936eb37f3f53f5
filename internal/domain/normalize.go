package domain

import (
	"strings"
	"unicode"
)

// NormalizeValue prepares a metadata value for comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses whitespace runs into a single space
//
// The stored value keeps its original casing; only the comparison key is
// normalized.
func NormalizeValue(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// Slugify derives a URL-safe slug from a game name: lowercase, letters and
// digits kept, every other run of characters collapsed into a single hyphen.
// The derivation is deterministic so duplicate detection on slug is meaningful.
func Slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	prevHyphen := false
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevHyphen = false
			continue
		}
		if prevHyphen {
			continue
		}
		b.WriteRune('-')
		prevHyphen = true
	}

	return strings.Trim(b.String(), "-")
}
