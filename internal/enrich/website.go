// Package enrich augments discovered candidates with contact and leadership
// data. Every lookup here is best-effort: failures degrade to empty fields
// and never propagate.
package enrich

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	// defaultFetchTimeout bounds a single website fetch.
	defaultFetchTimeout = 5 * time.Second

	// maxBodyBytes limits how much of a page is downloaded.
	maxBodyBytes = 512 * 1024 // 512 KB

	// maxDescriptionChars truncates overly long page descriptions.
	maxDescriptionChars = 300
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d -]{8,}\d`)
)

// Profile holds the contact data extracted from a company website.
// All fields are optional.
type Profile struct {
	Email       string
	Description string
	Phone       string
}

// WebsiteExtractor fetches a company site and pulls out a contact email,
// phone, and short description.
type WebsiteExtractor struct {
	http    *http.Client
	timeout time.Duration
}

// WebsiteOption configures a WebsiteExtractor.
type WebsiteOption func(*WebsiteExtractor)

// WithFetchTimeout overrides the per-fetch timeout.
func WithFetchTimeout(d time.Duration) WebsiteOption {
	return func(e *WebsiteExtractor) {
		e.timeout = d
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) WebsiteOption {
	return func(e *WebsiteExtractor) {
		e.http = hc
	}
}

// NewWebsiteExtractor creates a WebsiteExtractor.
func NewWebsiteExtractor(opts ...WebsiteOption) *WebsiteExtractor {
	e := &WebsiteExtractor{
		http:    &http.Client{},
		timeout: defaultFetchTimeout,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract fetches the URL and returns whatever contact data it can find.
// It never fails outward: any network, timeout, or parse problem yields a
// zero Profile.
func (e *WebsiteExtractor) Extract(ctx context.Context, rawURL string) Profile {
	if rawURL == "" {
		return Profile{}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalizeURL(rawURL), nil)
	if err != nil {
		zap.L().Debug("extract: bad url", zap.String("url", rawURL), zap.Error(err))
		return Profile{}
	}

	resp, err := e.http.Do(req)
	if err != nil {
		zap.L().Debug("extract: fetch failed", zap.String("url", rawURL), zap.Error(err))
		return Profile{}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		zap.L().Debug("extract: unexpected status", zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
		return Profile{}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		zap.L().Debug("extract: read failed", zap.String("url", rawURL), zap.Error(err))
		return Profile{}
	}

	var p Profile
	if m := emailRe.Find(body); m != nil {
		p.Email = string(m)
	}
	if m := phoneRe.Find(body); m != nil {
		p.Phone = strings.TrimSpace(string(m))
	}
	p.Description = pageDescription(body)
	return p
}

// normalizeURL prefixes https:// when the scheme is absent.
func normalizeURL(rawURL string) string {
	if strings.Contains(rawURL, "://") {
		return rawURL
	}
	return "https://" + rawURL
}

// pageDescription pulls the meta description, falling back to the page
// title. A parse failure yields an empty string.
func pageDescription(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	desc, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	desc = strings.TrimSpace(desc)
	if desc == "" {
		desc = strings.TrimSpace(doc.Find("title").First().Text())
	}
	desc = strings.Join(strings.Fields(desc), " ")
	if len(desc) > maxDescriptionChars {
		// Back off to a rune boundary so truncation never emits invalid UTF-8.
		cut := maxDescriptionChars
		for cut > 0 && !utf8.RuneStart(desc[cut]) {
			cut--
		}
		desc = desc[:cut]
	}
	return desc
}
