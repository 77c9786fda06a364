package helpers

import (
	"strings"
	"unicode"
)

// Slugify converts a title into a lowercase, URL-safe slug: letters and
// digits are kept, everything else collapses into single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	lastHyphen := true // trim leading hyphens
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
