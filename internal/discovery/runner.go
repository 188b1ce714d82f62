package discovery

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tars-systems/leadscout/internal/model"
	"github.com/tars-systems/leadscout/internal/resilience"
)

// Runner fans a query set out across the configured sources with bounded
// concurrency. Hit order is deterministic: results are flattened by query
// index, then source order, regardless of completion order.
type Runner struct {
	sources []Source
	workers int
}

// NewRunner creates a Runner over the given sources.
func NewRunner(sources []Source, workers int) *Runner {
	if workers <= 0 {
		workers = 4
	}
	return &Runner{sources: sources, workers: workers}
}

// Run executes every query against every source. A failed query degrades to
// an empty hit list; quota rejections abort only the affected call. Run
// itself never fails; zero hits is a legitimate outcome the caller surfaces
// as a no-results condition.
func (r *Runner) Run(ctx context.Context, queries []model.SearchQuery) []model.RawHit {
	log := zap.L().With(zap.Int("queries", len(queries)))

	type slot struct {
		query  int
		source int
	}
	results := make([][]model.RawHit, len(queries)*len(r.sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for qi, q := range queries {
		for si, src := range r.sources {
			s := slot{query: qi, source: si}
			query, source := q, src
			g.Go(func() error {
				hits, err := source.Discover(gctx, query)
				if err != nil {
					switch {
					case resilience.IsQuota(err):
						log.Warn("discovery query rejected by provider quota",
							zap.String("source", source.Name()),
							zap.String("keyword", query.Keyword),
							zap.Error(err),
						)
					default:
						log.Debug("discovery query failed",
							zap.String("source", source.Name()),
							zap.String("keyword", query.Keyword),
							zap.Error(err),
						)
					}
					return nil
				}
				results[s.query*len(r.sources)+s.source] = hits
				return nil
			})
		}
	}
	_ = g.Wait()

	var all []model.RawHit
	for _, hits := range results {
		all = append(all, hits...)
	}

	log.Info("discovery complete", zap.Int("hits", len(all)))
	return all
}
