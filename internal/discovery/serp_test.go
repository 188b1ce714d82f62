package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/tars-systems/leadscout/internal/model"
	"github.com/tars-systems/leadscout/pkg/serp"
)

func testLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

func TestMapsSource_MapsLocalResults(t *testing.T) {
	client := &mockSerpClient{
		responses: map[string]*serp.SearchResponse{
			"erp company services in Pune": {
				LocalResults: []serp.LocalResult{
					{Title: "Acme Solutions", Address: "MG Road, Pune", Phone: "+91 12345 67890", Website: "https://acme.example", Rating: 4.5},
					{Title: ""},
					{Title: "Beta Systems"},
				},
			},
		},
	}

	src := NewMapsSource(client, testLimiter(), 12)
	hits, err := src.Discover(context.Background(), model.SearchQuery{Keyword: "erp", Location: "Pune"})

	require.NoError(t, err)
	require.Len(t, hits, 2, "nameless results are dropped")
	assert.Equal(t, model.RawHit{
		Name:    "Acme Solutions",
		Website: "https://acme.example",
		Phone:   "+91 12345 67890",
		Address: "MG Road, Pune",
		Rating:  4.5,
	}, hits[0])

	require.Len(t, client.calls, 1)
	assert.Equal(t, serp.EngineGoogleMaps, client.calls[0].Engine)
}

func TestMapsSource_TruncatesToMaxHits(t *testing.T) {
	locals := make([]serp.LocalResult, 20)
	for i := range locals {
		locals[i] = serp.LocalResult{Title: "Company"}
	}
	client := &mockSerpClient{
		responses: map[string]*serp.SearchResponse{
			"erp company services in Pune": {LocalResults: locals},
		},
	}

	src := NewMapsSource(client, testLimiter(), 5)
	hits, err := src.Discover(context.Background(), model.SearchQuery{Keyword: "erp", Location: "Pune"})

	require.NoError(t, err)
	assert.Len(t, hits, 5)
}

func TestOrganicSource_NamesFromDomain(t *testing.T) {
	client := &mockSerpClient{
		responses: map[string]*serp.SearchResponse{
			"software company services in Pune": {
				OrganicResults: []serp.OrganicResult{
					{Title: "Acme | ERP software", Link: "https://www.acme.example/products", Snippet: "ERP and automation"},
					{Title: "no link"},
				},
			},
		},
	}

	src := NewOrganicSource(client, testLimiter(), 12)
	hits, err := src.Discover(context.Background(), model.SearchQuery{Keyword: "software", Location: "Pune"})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "acme.example", hits[0].Name)
	assert.Equal(t, "https://www.acme.example/products", hits[0].Website)
	assert.Equal(t, "ERP and automation", hits[0].Description)
}

func TestDomainName(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://www.acme.example/about", "acme.example"},
		{"https://acme.example", "acme.example"},
		{"not a url", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domainName(tt.link), tt.link)
	}
}
