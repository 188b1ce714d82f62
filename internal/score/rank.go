package score

import (
	"sort"

	"github.com/tars-systems/leadscout/internal/model"
)

// DefaultTopN is the presentation truncation limit.
const DefaultTopN = 5

// Sort orders candidates by fit score descending. The sort is stable:
// equal scores keep their discovery order.
func Sort(candidates []model.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FitScore > candidates[j].FitScore
	})
}

// Top returns the first n candidates of an already-sorted set. The full
// scored set stays untouched for persistence.
func Top(candidates []model.Candidate, n int) []model.Candidate {
	if n <= 0 {
		n = DefaultTopN
	}
	if len(candidates) <= n {
		return candidates
	}
	return candidates[:n]
}
