package enrich

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tars-systems/leadscout/internal/model"
)

// ProfileExtractor extracts contact data from a company website.
type ProfileExtractor interface {
	Extract(ctx context.Context, url string) Profile
}

// Resolver looks up leadership links for a company name.
type Resolver interface {
	CEO(ctx context.Context, company string) *model.Person
	CompanyProfile(ctx context.Context, company string) string
}

// Enricher runs the per-candidate enrichment stage over a bounded worker
// pool. Candidates are independent, so each worker writes only its own slot;
// completion order never affects output order.
type Enricher struct {
	web        ProfileExtractor
	leadership Resolver
	workers    int
}

// NewEnricher creates an Enricher with the given worker pool size.
func NewEnricher(web ProfileExtractor, leadership Resolver, workers int) *Enricher {
	if workers <= 0 {
		workers = 5
	}
	return &Enricher{web: web, leadership: leadership, workers: workers}
}

// EnrichAll converts hits into candidates, filling contact and leadership
// fields best-effort. On context cancellation in-flight lookups fail soft
// and candidates keep whatever was already populated.
func (e *Enricher) EnrichAll(ctx context.Context, hits []model.RawHit) []model.Candidate {
	candidates := make([]model.Candidate, len(hits))

	g := new(errgroup.Group)
	g.SetLimit(e.workers)

	for i, hit := range hits {
		g.Go(func() error {
			c := model.FromHit(hit)

			if c.Website != "" && e.web != nil {
				profile := e.web.Extract(ctx, c.Website)
				if profile.Email != "" {
					c.Email = profile.Email
				}
				if c.Description == "" && profile.Description != "" {
					c.Description = profile.Description
				}
				if c.Phone == "" && profile.Phone != "" {
					c.Phone = profile.Phone
				}
			}

			if e.leadership != nil {
				c.CEO = e.leadership.CEO(ctx, c.Name)
				c.CompanyProfileURL = e.leadership.CompanyProfile(ctx, c.Name)
			}

			candidates[i] = c
			return nil
		})
	}
	_ = g.Wait()

	return candidates
}
