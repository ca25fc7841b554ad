package similarity

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// hyphen or dash followed by a line break, as left by hyphenated PDF lines
	hyphenBreak = regexp.MustCompile(`[-\x{2010}\x{2011}]\s*\n\s*`)
)

// Normalize collapses every run of whitespace to a single space and trims the result.
func Normalize(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// NormalizeRelaxed applies Normalize after NFC composition, soft hyphen removal and
// re-joining of words split across hyphenated line breaks.
func NormalizeRelaxed(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\u00ad", "")
	text = hyphenBreak.ReplaceAllString(text, "")
	return Normalize(text)
}

// IsQuote reports whether r is a straight, typographic or accent-style quote mark.
func IsQuote(r rune) bool {
	switch r {
	case '"', '\'', '`', '´', '‘', '’', '‚', '‛', '“', '”', '„', '‟':
		return true
	}
	return false
}

// IsDash reports whether r is a hyphen, dash or minus sign.
func IsDash(r rune) bool {
	return r == '-' || (r >= '‐' && r <= '―') || r == '−'
}
