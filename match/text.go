package match

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/rematch/similarity"
)

const (
	spaceRun   = `[\s\p{Zs}]+`
	quoteClass = `["'\x60\x{B4}\x{2018}-\x{201F}]`
	dashClass  = `[\x{2D}\x{2010}-\x{2015}\x{2212}]`
)

// snapBack moves pos back to the start of the rune containing it.
func snapBack(s string, pos int) int {
	pos = min(max(pos, 0), len(s))
	for pos > 0 && pos < len(s) && !utf8.RuneStart(s[pos]) {
		pos--
	}
	return pos
}

// snapForward moves pos forward to the next rune start or the end of s.
func snapForward(s string, pos int) int {
	pos = min(max(pos, 0), len(s))
	for pos < len(s) && !utf8.RuneStart(s[pos]) {
		pos++
	}
	return pos
}

// flexiblePattern matches the words of normalized text separated by any whitespace.
// Returns nil when text has no words.
func flexiblePattern(normalized string) *regexp.Regexp {
	words := strings.Fields(normalized)
	if len(words) == 0 {
		return nil
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(strings.Join(words, spaceRun))
}

// relaxedPattern matches text case-insensitively, treating all quote-like and
// all dash-like runes as equivalent and whitespace as flexible.
func relaxedPattern(relaxed string) *regexp.Regexp {
	if relaxed == "" {
		return nil
	}
	var b strings.Builder
	b.WriteString("(?i)")
	for _, r := range relaxed {
		switch {
		case r == ' ':
			b.WriteString(spaceRun)
		case similarity.IsQuote(r):
			b.WriteString(quoteClass)
		case similarity.IsDash(r):
			b.WriteString(dashClass)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return regexp.MustCompile(b.String())
}

// findFrom searches target from hint onwards and, failing that, from the start.
// find returns a [start, end) pair relative to its argument, or nil.
func findFrom(target string, hint int, find func(s string) []int) (int, int, bool) {
	if loc := find(target[hint:]); loc != nil {
		return hint + loc[0], hint + loc[1], true
	}
	if hint > 0 {
		if loc := find(target); loc != nil {
			return loc[0], loc[1], true
		}
	}
	return 0, 0, false
}
