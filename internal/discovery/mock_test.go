package discovery

import (
	"context"
	"sync"

	"github.com/tars-systems/leadscout/internal/model"
	"github.com/tars-systems/leadscout/pkg/serp"
)

// mockSerpClient returns canned responses keyed by query text.
type mockSerpClient struct {
	mu        sync.Mutex
	responses map[string]*serp.SearchResponse
	err       error
	calls     []serp.SearchRequest
}

func (m *mockSerpClient) Search(_ context.Context, req serp.SearchRequest) (*serp.SearchResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if resp, ok := m.responses[req.Query]; ok {
		return resp, nil
	}
	return &serp.SearchResponse{}, nil
}

// mockSource returns canned hits keyed by query keyword.
type mockSource struct {
	name string
	hits map[string][]model.RawHit
	errs map[string]error
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Discover(_ context.Context, q model.SearchQuery) ([]model.RawHit, error) {
	if err, ok := m.errs[q.Keyword]; ok {
		return nil, err
	}
	return m.hits[q.Keyword], nil
}
