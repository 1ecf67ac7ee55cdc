package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text (NFD) and removes combining marks, so "sándwich"
// becomes "sandwich" and "ñ" becomes "n".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes raw customer text into the matchable form used by the
// matcher and the intent classifiers: trimmed, lower-cased, accents stripped,
// everything outside word characters, whitespace and "$" replaced by a space,
// and whitespace runs collapsed. It is pure and idempotent; an empty string
// normalizes to an empty string.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$':
			b.WriteRune(r)
		default:
			// covers punctuation as well as whitespace; runs collapse below
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ClipWords returns at most max whitespace-separated words of s.
func ClipWords(s string, max int) string {
	words := strings.Fields(s)
	if len(words) > max {
		words = words[:max]
	}
	return strings.Join(words, " ")
}

// Slugify derives a stable SKU from a display name: normalized, spaces turned
// into underscores. A name that normalizes to nothing yields "item".
func Slugify(name string) string {
	s := Normalize(name)
	s = strings.ReplaceAll(s, " ", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_")
	if s == "" {
		return "item"
	}
	return s
}
