package similarity

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// EditSimilarity returns 1 - distance/max(len(a), len(b)) where distance is the
// Levenshtein distance over runes. Two empty strings are identical (1.0).
func EditSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(longest)
}
