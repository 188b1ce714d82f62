package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tars-systems/leadscout/internal/model"
)

func TestKeywords_MatchesVocabulary(t *testing.T) {
	got := Keywords("We provide ERP and automation software")
	assert.Equal(t, []string{"software", "automation", "erp"}, got)
}

func TestKeywords_CaseInsensitive(t *testing.T) {
	got := Keywords("CLOUD Consulting for HEALTHCARE providers")
	assert.ElementsMatch(t, []string{"consulting", "cloud", "healthcare"}, got)
}

func TestKeywords_NoMatch(t *testing.T) {
	got := Keywords("handmade pottery and ceramics")
	assert.Empty(t, got)
}

func TestQueries_FromDescription(t *testing.T) {
	profile := Profile("We provide ERP and automation software", "Pune")
	queries := Queries(profile, nil)

	require.Len(t, queries, 3)
	for _, q := range queries {
		assert.Equal(t, "Pune", q.Location)
	}
	assert.Equal(t, "software", queries[0].Keyword)
	assert.Equal(t, "automation", queries[1].Keyword)
	assert.Equal(t, "erp", queries[2].Keyword)
}

func TestQueries_IndustriesTakePrecedence(t *testing.T) {
	profile := Profile("We provide ERP and automation software", "Pune")
	queries := Queries(profile, []string{"Healthcare"})

	require.Len(t, queries, 1)
	assert.Equal(t, "healthcare software", queries[0].Keyword)
}

func TestQueries_UnknownIndustrySearchedAsIs(t *testing.T) {
	profile := Profile("anything", "Mumbai")
	queries := Queries(profile, []string{"Agritech"})

	require.Len(t, queries, 1)
	assert.Equal(t, "agritech", queries[0].Keyword)
}

func TestQueries_EmptyMatchYieldsGenericQueries(t *testing.T) {
	profile := Profile("handmade pottery and ceramics", "Nagpur")
	queries := Queries(profile, nil)

	require.NotEmpty(t, queries)
	assert.Equal(t, "software", queries[0].Keyword)
}

func TestQueries_Deduplicates(t *testing.T) {
	profile := model.ProductProfile{
		Keywords: []string{"erp", "ERP", "erp "},
		Location: "Pune",
	}
	queries := Queries(profile, nil)
	assert.Len(t, queries, 1)
}

func TestSearchQueryText(t *testing.T) {
	q := model.SearchQuery{Keyword: "erp", Location: "Pune"}
	assert.Equal(t, "erp company services in Pune", q.Text())
}
