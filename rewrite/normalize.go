package rewrite

import (
	"strings"
	"unicode"
)

// Normalize lowercases raw, strips punctuation and collapses runs of
// whitespace into single spaces. Hyphens and apostrophes are kept because
// they occur inside condition names ("x-linked", "Alzheimer's").
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
