// Package score computes deterministic fit scores for candidates and ranks
// the scored set.
package score

import (
	"fmt"
	"strings"

	"github.com/tars-systems/leadscout/internal/model"
)

// KeywordWeight is the score added per product keyword found in a
// candidate's description.
const KeywordWeight = 2

// domainBonus is an unconditional bonus for a high-value term. These apply
// regardless of the product's keyword set.
type domainBonus struct {
	term   string
	weight int
}

var domainBonuses = []domainBonus{
	{"healthcare", 3},
	{"erp", 3},
	{"automation", 2},
	{"cloud", 2},
	{"it services", 2},
}

// Fit scores how well a candidate's description matches the product keyword
// set. Pure and deterministic: the score is monotonic non-decreasing in the
// number of keyword and domain-term matches.
func Fit(keywords []string, c model.Candidate) (int, []string) {
	text := strings.ToLower(c.Description)

	var (
		score   int
		reasons []string
		counted = make(map[string]struct{}, len(keywords))
	)

	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, dup := counted[kw]; dup {
			continue
		}
		counted[kw] = struct{}{}
		if strings.Contains(text, kw) {
			score += KeywordWeight
			reasons = append(reasons, fmt.Sprintf("matches product keyword %q", kw))
		}
	}

	for _, b := range domainBonuses {
		if strings.Contains(text, b.term) {
			score += b.weight
			reasons = append(reasons, fmt.Sprintf("mentions high-value term %q", b.term))
		}
	}

	return score, reasons
}

// Apply scores every candidate in place against the product keywords.
func Apply(keywords []string, candidates []model.Candidate) {
	for i := range candidates {
		candidates[i].FitScore, candidates[i].Reasons = Fit(keywords, candidates[i])
	}
}

// Temperature buckets for stored leads.
const (
	BucketHot  = "hot"
	BucketWarm = "warm"
	BucketCold = "cold"
)

// Bucket classifies a fit score into a lead temperature.
func Bucket(score int) string {
	switch {
	case score >= 6:
		return BucketHot
	case score >= 3:
		return BucketWarm
	default:
		return BucketCold
	}
}

// Tally counts leads per temperature bucket.
func Tally(leads []model.Candidate) (hot, warm, cold int) {
	for _, lead := range leads {
		switch Bucket(lead.FitScore) {
		case BucketHot:
			hot++
		case BucketWarm:
			warm++
		default:
			cold++
		}
	}
	return hot, warm, cold
}
