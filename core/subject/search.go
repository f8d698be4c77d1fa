package subject

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// minSearchSimilarity is the ratio below which a subject name is not
// considered a match for a search query.
const minSearchSimilarity = .6

func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).QuickRatio()
}
