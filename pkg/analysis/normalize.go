package analysis

import (
	"strings"
	"unicode"
)

// Normalize trims surrounding whitespace (including a byte order mark).
// Case is preserved; classifiers fold case when matching.
func Normalize(raw string) string {
	return strings.TrimFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}
