package memory

import (
	"math"

	"github.com/agnivade/levenshtein"
)

// Ratio computes an edit-distance-based similarity score between two
// normalized claim texts, from 0 (nothing in common) to 100 (identical).
func Ratio(a, b string) int {
	if a == b {
		return 100
	}

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 100
	}

	dist := levenshtein.ComputeDistance(a, b)
	score := int(math.Round(100 * (1 - float64(dist)/float64(longest))))
	if score < 0 {
		return 0
	}
	return score
}
