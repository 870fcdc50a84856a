package notify

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Typographic punctuation common in Swedish job titles, replaced with ASCII
// equivalents before the lossy normalization pass.
var headerReplacer = strings.NewReplacer(
	"–", "-", // en-dash
	"—", "-", // em-dash
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"“", `"`, // left double quote
	"”", `"`, // right double quote
)

// NFKD decomposition, then strip combining marks (å → a) and anything else
// outside ASCII.
var asciiTransform = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// sanitizeHeader restricts text to an ASCII-safe subset usable in HTTP header
// values.
func sanitizeHeader(text string) string {
	text = headerReplacer.Replace(text)
	out, _, err := transform.String(asciiTransform, text)
	if err != nil {
		// Transform chains over full strings do not fail in practice; drop
		// non-ASCII bytes wholesale if one ever does.
		return strings.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return -1
			}
			return r
		}, text)
	}
	return out
}
