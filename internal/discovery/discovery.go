// Package discovery finds raw company candidates for a set of planned
// queries. Provider identity stays behind the Source interface; failures of
// one query never abort the others.
package discovery

import (
	"context"

	"github.com/tars-systems/leadscout/internal/model"
)

// DefaultMaxHits bounds the number of hits kept per query.
const DefaultMaxHits = 12

// Source issues one location-scoped search and returns raw candidate hits.
type Source interface {
	Discover(ctx context.Context, q model.SearchQuery) ([]model.RawHit, error)
	Name() string
}
