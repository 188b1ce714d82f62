// Package dedupe merges duplicate discovery hits into one candidate per
// identity key.
package dedupe

import (
	"strings"

	"github.com/tars-systems/leadscout/internal/model"
)

// Key returns the case-normalized identity key for a company name.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Dedupe collapses candidates sharing an identity key. First occurrence
// wins: later duplicates are discarded entirely, including any enrichment
// they carried. Input order is preserved for survivors, which keeps ranking
// tie-breaks deterministic.
func Dedupe(candidates []model.Candidate) []model.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		key := Key(c.Name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
