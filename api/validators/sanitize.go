package validators

import (
	"strings"
	"unicode"
)

// SanitizeString normalizes free text taken from query strings. Control
// characters are dropped, runs of whitespace collapse to one space, and the
// result is cut to at most maxLen runes so multibyte names like "Niños" are
// never split mid character. maxLen <= 0 disables the cut.
func SanitizeString(input string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(input))
	runes, pendingSpace := 0, false
	for _, r := range input {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			continue
		}
		if pendingSpace {
			if maxLen > 0 && runes+1 >= maxLen {
				break
			}
			b.WriteByte(' ')
			runes++
			pendingSpace = false
		}
		if maxLen > 0 && runes >= maxLen {
			break
		}
		b.WriteRune(r)
		runes++
	}
	return b.String()
}
