// Package pipeline orchestrates one lead discovery run:
// plan → discover → enrich → dedupe → score → rank → deliver.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tars-systems/leadscout/internal/dedupe"
	"github.com/tars-systems/leadscout/internal/discovery"
	"github.com/tars-systems/leadscout/internal/enrich"
	"github.com/tars-systems/leadscout/internal/model"
	"github.com/tars-systems/leadscout/internal/plan"
	"github.com/tars-systems/leadscout/internal/score"
	"github.com/tars-systems/leadscout/internal/store"
)

// DefaultRunTimeout bounds a whole pipeline run. On expiry, in-flight
// enrichment is cancelled and candidates proceed partially enriched.
const DefaultRunTimeout = 2 * time.Minute

// Request is the pipeline entrypoint consumed by the CLI and HTTP surfaces.
type Request struct {
	ProductDescription string   `json:"product_description"`
	Location           string   `json:"location"`
	Industries         []string `json:"industries,omitempty"`
	GroupKey           string   `json:"group,omitempty"`
	TopN               int      `json:"top_n,omitempty"`
}

// Result is the outcome of one run. Leads is the ranked, truncated
// presentation set; All is the full scored set handed to persistence.
type Result struct {
	Status model.Status      `json:"status"`
	Leads  []model.Candidate `json:"leads"`
	All    []model.Candidate `json:"-"`
	RunID  string            `json:"run_id,omitempty"`
}

// Pipeline owns the candidate set for the duration of one run. No other
// component observes partially-enriched candidates.
type Pipeline struct {
	runner   *discovery.Runner
	enricher *enrich.Enricher
	store    store.Store // may be nil for ephemeral runs
	topN     int
	timeout  time.Duration
}

// New creates a Pipeline. st may be nil, in which case runs are not
// persisted.
func New(runner *discovery.Runner, enricher *enrich.Enricher, st store.Store, topN int, timeout time.Duration) *Pipeline {
	if topN <= 0 {
		topN = score.DefaultTopN
	}
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	return &Pipeline{
		runner:   runner,
		enricher: enricher,
		store:    st,
		topN:     topN,
		timeout:  timeout,
	}
}

// Run executes the pipeline for one request. Per-candidate and per-query
// failures degrade silently; the only non-error "failure" surface is
// StatusNoResults when every discovery query came back empty. Run returns an
// error only for persistence problems.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	// Persistence outlives the run deadline: a timed-out run still records
	// whatever it delivered.
	persistCtx := context.WithoutCancel(ctx)
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	log := zap.L().With(
		zap.String("location", req.Location),
		zap.String("group", req.GroupKey),
	)

	profile := plan.Profile(req.ProductDescription, req.Location)
	queries := plan.Queries(profile, req.Industries)
	log.Info("pipeline planned",
		zap.Strings("keywords", profile.Keywords),
		zap.Int("queries", len(queries)),
	)

	var runID string
	if p.store != nil {
		run, err := p.store.CreateRun(persistCtx, req.GroupKey, profile)
		if err != nil {
			return nil, err
		}
		runID = run.ID
	}

	hits := p.runner.Run(ctx, queries)
	p.advance(persistCtx, runID, model.RunDiscovered)

	if len(hits) == 0 {
		log.Info("pipeline found no candidates")
		if p.store != nil {
			if err := p.store.CompleteRun(persistCtx, runID, model.StatusNoResults, 0); err != nil {
				return nil, err
			}
		}
		return &Result{Status: model.StatusNoResults, Leads: []model.Candidate{}, RunID: runID}, nil
	}

	candidates := p.enricher.EnrichAll(ctx, hits)
	p.advance(persistCtx, runID, model.RunEnriched)

	candidates = dedupe.Dedupe(candidates)
	p.advance(persistCtx, runID, model.RunDeduped)

	score.Apply(profile.Keywords, candidates)
	p.advance(persistCtx, runID, model.RunScored)

	score.Sort(candidates)
	p.advance(persistCtx, runID, model.RunRanked)

	if p.store != nil && req.GroupKey != "" {
		if err := p.store.SaveLeads(persistCtx, req.GroupKey, candidates); err != nil {
			return nil, err
		}
	}
	if p.store != nil {
		if err := p.store.CompleteRun(persistCtx, runID, model.StatusOK, len(candidates)); err != nil {
			return nil, err
		}
	}

	topN := req.TopN
	if topN <= 0 {
		topN = p.topN
	}

	log.Info("pipeline delivered",
		zap.Int("candidates", len(candidates)),
		zap.Int("top_n", topN),
	)

	return &Result{
		Status: model.StatusOK,
		Leads:  score.Top(candidates, topN),
		All:    candidates,
		RunID:  runID,
	}, nil
}

// advance records a state transition; persistence failures here are logged
// and never interrupt the run.
func (p *Pipeline) advance(ctx context.Context, runID string, state model.RunState) {
	if p.store == nil || runID == "" {
		return
	}
	if err := p.store.UpdateRunState(ctx, runID, state); err != nil {
		zap.L().Warn("pipeline state update failed",
			zap.String("run_id", runID),
			zap.String("state", string(state)),
			zap.Error(err),
		)
	}
}
