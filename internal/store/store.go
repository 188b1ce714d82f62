// Package store persists pipeline runs and delivered leads. It sits outside
// the core pipeline: the orchestrator hands it finished data and never reads
// partially-enriched candidates back.
package store

import (
	"context"

	"github.com/tars-systems/leadscout/internal/model"
)

// Store defines the persistence interface for runs and leads.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, groupKey string, profile model.ProductProfile) (*model.Run, error)
	UpdateRunState(ctx context.Context, runID string, state model.RunState) error
	CompleteRun(ctx context.Context, runID string, status model.Status, leadCount int) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)

	// Leads, keyed by a caller-supplied group identifier. SaveLeads replaces
	// the group's previous leads; ListLeads returns them in ranked order.
	SaveLeads(ctx context.Context, groupKey string, leads []model.Candidate) error
	ListLeads(ctx context.Context, groupKey string) ([]model.Candidate, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
