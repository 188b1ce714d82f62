package enrich

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tars-systems/leadscout/internal/model"
	"github.com/tars-systems/leadscout/internal/resilience"
	"github.com/tars-systems/leadscout/pkg/serp"
)

const (
	personProfilePattern  = "linkedin.com/in/"
	companyProfilePattern = "linkedin.com/company/"
)

// titleSeparators are the separators LinkedIn result titles use between the
// person's name and their headline.
var titleSeparators = []string{" - ", " – ", " | "}

// LeadershipResolver looks up leadership and organization profile links for
// a company name. Both lookups share the run's provider rate limiter and
// degrade to not-found on any error.
type LeadershipResolver struct {
	client  serp.Client
	limiter *rate.Limiter
}

// NewLeadershipResolver creates a LeadershipResolver.
func NewLeadershipResolver(client serp.Client, limiter *rate.Limiter) *LeadershipResolver {
	return &LeadershipResolver{client: client, limiter: limiter}
}

// CEO searches for the company's top leadership profile. It returns nil when
// no personal profile link can be found; callers render absence however
// their surface requires.
func (r *LeadershipResolver) CEO(ctx context.Context, company string) *model.Person {
	results := r.search(ctx, company, `"`+company+`" CEO site:linkedin.com/in`)
	for _, res := range results {
		if !strings.Contains(strings.ToLower(res.Link), personProfilePattern) {
			continue
		}
		return &model.Person{
			Name:       displayName(res.Title),
			ProfileURL: res.Link,
		}
	}
	return nil
}

// CompanyProfile searches for the company's organization profile page and
// returns the first matching link, or an empty string.
func (r *LeadershipResolver) CompanyProfile(ctx context.Context, company string) string {
	results := r.search(ctx, company, `"`+company+`" site:linkedin.com/company`)
	for _, res := range results {
		if strings.Contains(strings.ToLower(res.Link), companyProfilePattern) {
			return res.Link
		}
	}
	return ""
}

func (r *LeadershipResolver) search(ctx context.Context, company, query string) []serp.OrganicResult {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil
	}

	resp, err := r.client.Search(ctx, serp.SearchRequest{
		Engine: serp.EngineGoogle,
		Query:  query,
	})
	if err != nil {
		log := zap.L().With(zap.String("company", company))
		if resilience.IsQuota(err) {
			log.Warn("leadership lookup rejected by provider quota", zap.Error(err))
		} else {
			log.Debug("leadership lookup failed", zap.Error(err))
		}
		return nil
	}
	return resp.OrganicResults
}

// displayName derives a person's name from a result title: the text before
// the first separator.
func displayName(title string) string {
	for _, sep := range titleSeparators {
		if idx := strings.Index(title, sep); idx >= 0 {
			return strings.TrimSpace(title[:idx])
		}
	}
	return strings.TrimSpace(title)
}
