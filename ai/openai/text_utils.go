package openai

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// stripCodeFences removes markdown code fences models like to wrap JSON in.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// quotePattern compiles a case-insensitive, whitespace-flexible pattern for a quote.
// Returns nil for a quote with no words.
func quotePattern(quote string) *regexp.Regexp {
	words := strings.Fields(quote)
	if len(words) == 0 {
		return nil
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)` + strings.Join(words, `\s+`))
}

// findQuote returns the byte span of quote in window at or after from, or ok=false.
func findQuote(window, quote string, from int) (start, end int, ok bool) {
	if from < 0 || from > len(window) {
		return 0, 0, false
	}
	if i := strings.Index(window[from:], quote); i >= 0 && quote != "" {
		return from + i, from + i + len(quote), true
	}
	re := quotePattern(quote)
	if re == nil {
		return 0, 0, false
	}
	loc := re.FindStringIndex(window[from:])
	if loc == nil {
		return 0, 0, false
	}
	return from + loc[0], from + loc[1], true
}

// resolveQuotes turns the model's start and end quotes into a [start, end) byte span
// of window. When the end quote cannot be found the span is sized from the passage.
func resolveQuotes(window, startQuote, endQuote string, contentLen int) (start, end int, ok bool) {
	start, startEnd, ok := findQuote(window, startQuote, 0)
	if !ok {
		return 0, 0, false
	}
	if _, e, found := findQuote(window, endQuote, start); found && e >= startEnd {
		return start, e, true
	}
	end = min(start+contentLen, len(window))
	for end < len(window) && !utf8.RuneStart(window[end]) {
		end++
	}
	return start, end, true
}
