// Package serp provides a client for the SerpAPI search service, covering
// the organic web and maps engines used for lead discovery.
package serp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/tars-systems/leadscout/internal/resilience"
)

const defaultBaseURL = "https://serpapi.com"

// Engine selects which SerpAPI engine a search runs against.
type Engine string

const (
	// EngineGoogle is the organic web search engine.
	EngineGoogle Engine = "google"
	// EngineGoogleMaps is the maps-style local search engine.
	EngineGoogleMaps Engine = "google_maps"
)

// Client performs SerpAPI search operations.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// SearchRequest describes one search call.
type SearchRequest struct {
	Engine   Engine
	Query    string
	Location string
	Num      int
}

// SearchResponse is the subset of the SerpAPI payload the pipeline consumes.
type SearchResponse struct {
	OrganicResults []OrganicResult `json:"organic_results"`
	LocalResults   []LocalResult   `json:"local_results"`
}

// OrganicResult is a single organic web search result.
type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// LocalResult is a single maps-style local search result.
type LocalResult struct {
	Title       string  `json:"title"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	Website     string  `json:"website"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetry overrides the default retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	retry   resilience.RetryConfig
}

// NewClient creates a SerpAPI client.
func NewClient(apiKey string, opts ...Option) Client {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("serp search")
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		retry: retry,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search runs one search, retrying transient failures. Quota and parse
// errors are returned on the first occurrence.
func (c *httpClient) Search(ctx context.Context, sreq SearchRequest) (*SearchResponse, error) {
	return resilience.Retry(ctx, c.retry, func(ctx context.Context) (*SearchResponse, error) {
		return c.search(ctx, sreq)
	})
}

func (c *httpClient) search(ctx context.Context, sreq SearchRequest) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("engine", string(sreq.Engine))
	params.Set("q", sreq.Query)
	params.Set("api_key", c.apiKey)
	if sreq.Location != "" {
		params.Set("location", sreq.Location)
	}
	if sreq.Num > 0 {
		params.Set("num", strconv.Itoa(sreq.Num))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "serp: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "serp: send request"), 0)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "serp: read response"), resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("serp: unexpected status %d: %s", resp.StatusCode, string(body))
		if resilience.IsQuotaHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewQuotaError(err, resp.StatusCode)
		}
		return nil, resilience.NewTransientError(err, resp.StatusCode)
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, resilience.NewParseError(eris.Wrap(err, "serp: unmarshal response"))
	}

	return &result, nil
}
