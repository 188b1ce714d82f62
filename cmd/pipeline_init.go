package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/tars-systems/leadscout/internal/discovery"
	"github.com/tars-systems/leadscout/internal/enrich"
	"github.com/tars-systems/leadscout/internal/pipeline"
	"github.com/tars-systems/leadscout/internal/store"
	"github.com/tars-systems/leadscout/pkg/serp"
)

// pipelineEnv holds the initialized store, clients, and pipeline needed by
// the discover/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initStore opens the configured store backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.Path)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initPipeline validates config, opens the store, and wires the discovery
// sources, enrichers, and pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	serpClient := serp.NewClient(cfg.Serp.Key, serp.WithBaseURL(cfg.Serp.BaseURL))

	// One limiter per process, shared by discovery and leadership lookups to
	// protect the provider quota under concurrency.
	limiter := rate.NewLimiter(rate.Limit(cfg.Serp.RateLimit), 1)

	var sources []discovery.Source
	if cfg.Discovery.Maps {
		sources = append(sources, discovery.NewMapsSource(serpClient, limiter, cfg.Discovery.MaxHits))
	}
	if cfg.Discovery.Organic {
		sources = append(sources, discovery.NewOrganicSource(serpClient, limiter, cfg.Discovery.MaxHits))
	}
	runner := discovery.NewRunner(sources, cfg.Discovery.Workers)

	extractor := enrich.NewWebsiteExtractor(
		enrich.WithFetchTimeout(time.Duration(cfg.Enrich.WebsiteTimeoutSecs) * time.Second),
	)
	resolver := enrich.NewLeadershipResolver(serpClient, limiter)
	enricher := enrich.NewEnricher(extractor, resolver, cfg.Enrich.Workers)

	p := pipeline.New(runner, enricher, st, cfg.Pipeline.TopN,
		time.Duration(cfg.Pipeline.RunTimeoutSecs)*time.Second)

	return &pipelineEnv{Store: st, Pipeline: p}, nil
}
