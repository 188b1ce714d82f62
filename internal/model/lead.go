// Package model defines the data types shared across the lead discovery pipeline.
package model

import "time"

// ProductProfile describes the product a discovery run is finding leads for.
// It is built once per run and never mutated afterwards.
type ProductProfile struct {
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Location    string   `json:"location"`
}

// SearchQuery is a single location-scoped search issued against a discovery
// provider. Queries are ephemeral; one ProductProfile yields several.
type SearchQuery struct {
	Keyword  string `json:"keyword"`
	Location string `json:"location"`
}

// Text renders the query as the provider search string.
func (q SearchQuery) Text() string {
	return q.Keyword + " company services in " + q.Location
}

// RawHit is an unprocessed discovery result. Only Name is guaranteed.
type RawHit struct {
	Name        string  `json:"name"`
	Website     string  `json:"website,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Address     string  `json:"address,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Person identifies an individual with an optional profile link.
type Person struct {
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// Candidate is a prospective company lead moving through the pipeline.
// Name is the identity key: two hits with the same case-normalized name
// denote the same Candidate. Leadership fields are optional values, not
// string sentinels; absence is rendered only at the presentation boundary.
type Candidate struct {
	Name              string   `json:"name"`
	Website           string   `json:"website,omitempty"`
	Phone             string   `json:"phone,omitempty"`
	Address           string   `json:"address,omitempty"`
	Rating            float64  `json:"rating,omitempty"`
	Description       string   `json:"description,omitempty"`
	Email             string   `json:"email,omitempty"`
	CEO               *Person  `json:"ceo,omitempty"`
	CompanyProfileURL string   `json:"company_profile_url,omitempty"`
	FitScore          int      `json:"fit_score"`
	Reasons           []string `json:"reasons,omitempty"`
}

// FromHit seeds a Candidate from a raw discovery hit.
func FromHit(h RawHit) Candidate {
	return Candidate{
		Name:        h.Name,
		Website:     h.Website,
		Phone:       h.Phone,
		Address:     h.Address,
		Rating:      h.Rating,
		Description: h.Description,
	}
}

// Status is the terminal outcome of a pipeline run.
type Status string

const (
	// StatusOK means the run delivered at least one ranked lead.
	StatusOK Status = "ok"
	// StatusNoResults means every discovery query came back empty. It is a
	// distinguishable outcome, not an error.
	StatusNoResults Status = "no_results"
)

// RunState tracks a run's progress through the pipeline.
type RunState string

const (
	RunPlanned    RunState = "planned"
	RunDiscovered RunState = "discovered"
	RunEnriched   RunState = "enriched"
	RunDeduped    RunState = "deduped"
	RunScored     RunState = "scored"
	RunRanked     RunState = "ranked"
	RunDelivered  RunState = "delivered"
)

// Run is the persisted audit record for one pipeline execution.
type Run struct {
	ID        string         `json:"id"`
	GroupKey  string         `json:"group_key"`
	Profile   ProductProfile `json:"profile"`
	State     RunState       `json:"state"`
	Status    Status         `json:"status,omitempty"`
	LeadCount int            `json:"lead_count"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
