package assistant

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenLen is the shortest token that takes part in scoring.
const minTokenLen = 3

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

// Normalize lowercases s, strips diacritics, drops everything that is not a
// letter, digit, underscore or space and collapses whitespace.
func Normalize(s string) string {
	s = strings.ToLower(s)
	// transform.Chain keeps state, so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}
	s = nonWord.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// significant returns the tokens of a normalized string long enough to score.
func significant(normalized string) []string {
	var out []string
	for _, tok := range strings.Fields(normalized) {
		if utf8.RuneCountInString(tok) >= minTokenLen {
			out = append(out, tok)
		}
	}
	return out
}

// hasWordPrefix reports whether kw occurs in s starting at a word boundary
// and returns the first such offset.
func hasWordPrefix(s, kw string) (int, bool) {
	from := 0
	for {
		i := strings.Index(s[from:], kw)
		if i < 0 {
			return -1, false
		}
		i += from
		if i == 0 || s[i-1] == ' ' {
			return i, true
		}
		from = i + 1
	}
}
