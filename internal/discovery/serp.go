package discovery

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/tars-systems/leadscout/internal/model"
	"github.com/tars-systems/leadscout/pkg/serp"
)

// MapsSource discovers candidates via the SerpAPI maps engine. Local results
// carry the richest fields: name, address, phone, rating, website.
type MapsSource struct {
	client  serp.Client
	limiter *rate.Limiter
	maxHits int
}

// NewMapsSource creates a MapsSource sharing the run's rate limiter.
func NewMapsSource(client serp.Client, limiter *rate.Limiter, maxHits int) *MapsSource {
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}
	return &MapsSource{client: client, limiter: limiter, maxHits: maxHits}
}

func (s *MapsSource) Name() string { return "maps" }

// Discover searches the maps engine for the query.
func (s *MapsSource) Discover(ctx context.Context, q model.SearchQuery) ([]model.RawHit, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "maps: rate limit wait")
	}

	resp, err := s.client.Search(ctx, serp.SearchRequest{
		Engine: serp.EngineGoogleMaps,
		Query:  q.Text(),
		Num:    s.maxHits,
	})
	if err != nil {
		return nil, eris.Wrap(err, "maps: search")
	}

	hits := make([]model.RawHit, 0, len(resp.LocalResults))
	for _, lr := range resp.LocalResults {
		if lr.Title == "" {
			continue
		}
		hits = append(hits, model.RawHit{
			Name:        lr.Title,
			Website:     lr.Website,
			Phone:       lr.Phone,
			Address:     lr.Address,
			Rating:      lr.Rating,
			Description: lr.Description,
		})
		if len(hits) >= s.maxHits {
			break
		}
	}
	return hits, nil
}

// OrganicSource discovers candidates via the SerpAPI organic web engine.
// Names derive from the result link's domain, matching how leads without a
// maps listing are usually identified.
type OrganicSource struct {
	client  serp.Client
	limiter *rate.Limiter
	maxHits int
}

// NewOrganicSource creates an OrganicSource sharing the run's rate limiter.
func NewOrganicSource(client serp.Client, limiter *rate.Limiter, maxHits int) *OrganicSource {
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}
	return &OrganicSource{client: client, limiter: limiter, maxHits: maxHits}
}

func (s *OrganicSource) Name() string { return "organic" }

// Discover searches the organic engine for the query.
func (s *OrganicSource) Discover(ctx context.Context, q model.SearchQuery) ([]model.RawHit, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "organic: rate limit wait")
	}

	resp, err := s.client.Search(ctx, serp.SearchRequest{
		Engine: serp.EngineGoogle,
		Query:  q.Text(),
		Num:    s.maxHits,
	})
	if err != nil {
		return nil, eris.Wrap(err, "organic: search")
	}

	hits := make([]model.RawHit, 0, len(resp.OrganicResults))
	for _, or := range resp.OrganicResults {
		name := domainName(or.Link)
		if name == "" {
			continue
		}
		hits = append(hits, model.RawHit{
			Name:        name,
			Website:     or.Link,
			Description: or.Snippet,
		})
		if len(hits) >= s.maxHits {
			break
		}
	}
	return hits, nil
}

// domainName extracts the bare host from a result link for use as the
// candidate's identity when no listing name is available.
func domainName(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}
