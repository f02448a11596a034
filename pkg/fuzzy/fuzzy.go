// Package fuzzy decides whether two part names refer to the same physical
// part. It is a threshold gate for the ingestion pipeline, not a ranking.
package fuzzy

import (
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

// Normalize lowercases a part name, strips punctuation and collapses
// whitespace so retailer formatting differences do not register as distance.
func Normalize(name string) string {
	var sb strings.Builder
	for _, ch := range strings.ToLower(name) {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			sb.WriteRune(ch)
		} else {
			// punctuation separates tokens the same way whitespace does, so
			// "i7-13700K" and "i7 13700K" normalize identically
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Similarity scores two part names in [0,1] as 1 - dist/max(len) over the
// normalized strings. Two empty names score 0: nothing is not a match for
// nothing. Symmetric in its arguments.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)

	la, lb := len([]rune(na)), len([]rune(nb))
	if la == 0 || lb == 0 {
		return 0
	}

	longest := la
	if lb > longest {
		longest = lb
	}

	dist := matchr.Levenshtein(na, nb)
	score := 1 - float64(dist)/float64(longest)
	if score < 0 {
		return 0
	}
	return score
}
