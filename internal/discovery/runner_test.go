package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tars-systems/leadscout/internal/model"
	"github.com/tars-systems/leadscout/internal/resilience"
)

func TestRunner_FlattensInQueryOrder(t *testing.T) {
	src := &mockSource{
		name: "maps",
		hits: map[string][]model.RawHit{
			"erp":        {{Name: "Alpha"}, {Name: "Beta"}},
			"automation": {{Name: "Gamma"}},
		},
	}
	runner := NewRunner([]Source{src}, 4)

	hits := runner.Run(context.Background(), []model.SearchQuery{
		{Keyword: "erp", Location: "Pune"},
		{Keyword: "automation", Location: "Pune"},
	})

	require.Len(t, hits, 3)
	assert.Equal(t, "Alpha", hits[0].Name)
	assert.Equal(t, "Beta", hits[1].Name)
	assert.Equal(t, "Gamma", hits[2].Name)
}

func TestRunner_FailedQueryDegradesToEmpty(t *testing.T) {
	src := &mockSource{
		name: "maps",
		hits: map[string][]model.RawHit{"erp": {{Name: "Alpha"}}},
		errs: map[string]error{"automation": errors.New("provider timeout")},
	}
	runner := NewRunner([]Source{src}, 2)

	hits := runner.Run(context.Background(), []model.SearchQuery{
		{Keyword: "automation"},
		{Keyword: "erp"},
	})

	require.Len(t, hits, 1)
	assert.Equal(t, "Alpha", hits[0].Name)
}

func TestRunner_QuotaErrorAbortsOnlyThatQuery(t *testing.T) {
	src := &mockSource{
		name: "organic",
		hits: map[string][]model.RawHit{"software": {{Name: "Kept"}}},
		errs: map[string]error{
			"erp": resilience.NewQuotaError(errors.New("rate limited"), 429),
		},
	}
	runner := NewRunner([]Source{src}, 2)

	hits := runner.Run(context.Background(), []model.SearchQuery{
		{Keyword: "erp"},
		{Keyword: "software"},
	})

	require.Len(t, hits, 1)
	assert.Equal(t, "Kept", hits[0].Name)
}

func TestRunner_AllQueriesEmptyYieldsNoHits(t *testing.T) {
	runner := NewRunner([]Source{&mockSource{name: "maps"}}, 2)
	hits := runner.Run(context.Background(), []model.SearchQuery{{Keyword: "erp"}})
	assert.Empty(t, hits)
}

func TestRunner_MultipleSourcesKeepSourceOrderWithinQuery(t *testing.T) {
	maps := &mockSource{name: "maps", hits: map[string][]model.RawHit{"erp": {{Name: "FromMaps"}}}}
	organic := &mockSource{name: "organic", hits: map[string][]model.RawHit{"erp": {{Name: "FromOrganic"}}}}
	runner := NewRunner([]Source{maps, organic}, 4)

	hits := runner.Run(context.Background(), []model.SearchQuery{{Keyword: "erp"}})

	require.Len(t, hits, 2)
	assert.Equal(t, "FromMaps", hits[0].Name)
	assert.Equal(t, "FromOrganic", hits[1].Name)
}
