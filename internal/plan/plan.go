// Package plan turns a free-text product description into discovery search
// queries. Everything here is pure: no network, no failure modes.
package plan

import (
	"strings"

	"github.com/tars-systems/leadscout/internal/model"
)

// vocabulary is the fixed set of domain keywords matched against product
// descriptions by case-insensitive substring containment.
var vocabulary = []string{
	"software",
	"it services",
	"digital",
	"automation",
	"technology",
	"consulting",
	"development",
	"enterprise",
	"erp",
	"crm",
	"cloud",
	"healthcare",
	"analytics",
	"security",
	"logistics",
	"manufacturing",
}

// industryKeywords maps an explicit industry selection to the search keyword
// used for discovery. Selections bypass description matching entirely.
var industryKeywords = map[string]string{
	"healthcare":    "healthcare software",
	"manufacturing": "erp software",
	"retail":        "retail technology",
	"finance":       "fintech",
	"logistics":     "logistics software",
	"education":     "edtech",
	"it":            "it services",
	"consulting":    "business consulting",
}

// genericKeywords seed discovery when the description matches nothing in the
// vocabulary. An empty match list is valid input, not an error.
var genericKeywords = []string{"software", "it services"}

// Keywords extracts the bounded keyword set for a product description.
// The result preserves vocabulary order and contains no duplicates.
func Keywords(description string) []string {
	lower := strings.ToLower(description)
	var matched []string
	for _, word := range vocabulary {
		if strings.Contains(lower, word) {
			matched = append(matched, word)
		}
	}
	return matched
}

// Profile builds the immutable ProductProfile for one discovery run.
func Profile(description, location string) model.ProductProfile {
	return model.ProductProfile{
		Description: description,
		Keywords:    Keywords(description),
		Location:    location,
	}
}

// Queries plans the discovery queries for a profile. Explicit industry
// selections take precedence over keywords derived from the description.
// The result is never empty.
func Queries(profile model.ProductProfile, industries []string) []model.SearchQuery {
	keywords := selectKeywords(profile, industries)

	seen := make(map[string]struct{}, len(keywords))
	queries := make([]model.SearchQuery, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(strings.ToLower(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		queries = append(queries, model.SearchQuery{Keyword: kw, Location: profile.Location})
	}

	if len(queries) == 0 {
		for _, kw := range genericKeywords {
			queries = append(queries, model.SearchQuery{Keyword: kw, Location: profile.Location})
		}
	}
	return queries
}

func selectKeywords(profile model.ProductProfile, industries []string) []string {
	if len(industries) > 0 {
		var keywords []string
		for _, ind := range industries {
			key := strings.TrimSpace(strings.ToLower(ind))
			if kw, ok := industryKeywords[key]; ok {
				keywords = append(keywords, kw)
			} else if key != "" {
				// Unknown industries search as-is rather than being dropped.
				keywords = append(keywords, key)
			}
		}
		if len(keywords) > 0 {
			return keywords
		}
	}
	return profile.Keywords
}
