// Package content extracts SEO and content-quality signals from a page's
// markup. It accepts either a URL to fetch or raw HTML, and produces a
// ContentFeatureSet covering meta tags, headings, text metrics, keyword
// analysis, link classification, structured data, social tags, and
// navigation signals.
package content

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sitelens/sitelens/internal/model"
)

// Extractor analyzes page markup for SEO and content signals.
//
// Design decision: We parse with golang.org/x/net/html rather than regex
// because it correctly handles the malformed HTML common on the web and
// gives us a proper DOM to walk. All features are computed from a single
// parse; the fetch is the only network operation.
type Extractor struct {
	// client performs HTML fetches when the input is a URL.
	client *http.Client

	// userAgent is sent with fetches. Some sites serve stripped-down pages
	// to unknown clients, which would skew content metrics.
	userAgent string

	// headers are extra request headers from per-site configuration.
	headers map[string]string

	// maxBodySize truncates oversized responses to bound memory usage.
	maxBodySize int64

	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient sets the HTTP client used for fetches.
// Useful for tests and for injecting site-specific transport settings.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) { e.client = c }
}

// WithUserAgent sets the User-Agent header for fetches.
func WithUserAgent(ua string) Option {
	return func(e *Extractor) { e.userAgent = ua }
}

// WithHeaders sets extra request headers, typically from per-site
// configuration (cookies, auth headers).
func WithHeaders(h map[string]string) Option {
	return func(e *Extractor) { e.headers = h }
}

// WithMaxBodySize limits the response body size in bytes.
func WithMaxBodySize(n int64) Option {
	return func(e *Extractor) { e.maxBodySize = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// defaultUserAgent mirrors a desktop Chrome client.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// New creates an Extractor with the given options.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		client:      &http.Client{Timeout: 10 * time.Second},
		userAgent:   defaultUserAgent,
		maxBodySize: 5 * 1024 * 1024,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract analyzes the given page. When markup is empty and pageURL is set,
// the page is fetched first. A fetch failure is not fatal: it is recorded
// on the feature set and extraction continues with the URL-only signals.
//
// The URL-dependent features (link classification, URL structure) are only
// computed when pageURL is non-empty; everything else works on bare markup.
func (e *Extractor) Extract(ctx context.Context, pageURL, markup string) (*model.ContentFeatureSet, error) {
	features := &model.ContentFeatureSet{}

	if markup == "" && pageURL != "" {
		body, size, err := e.fetch(ctx, pageURL)
		if err != nil {
			e.logger.Warn("markup fetch failed", "url", pageURL, "error", err)
			features.FetchError = err.Error()
			// URL structure needs no markup
			extractURLStructure(features, pageURL)
			return features, nil
		}
		markup = body
		features.PageSizeBytes = size
		features.PageSizeKB = round2(float64(size) / 1024)
	}

	if markup == "" {
		return nil, ErrNoContent
	}

	doc, err := parseDocument(markup)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	extractMetaTags(features, doc)
	extractHeadings(features, doc)
	extractContentMetrics(features, doc, markup)
	extractLinkFeatures(features, doc, pageURL)
	extractImageFeatures(features, doc)
	extractStructuredData(features, doc)
	extractSocialMetaTags(features, doc)
	features.HasViewport = doc.metaName("viewport") != nil
	extractURLStructure(features, pageURL)
	extractKeywordAnalysis(features)
	extractContentDepth(features, doc)
	extractInternationalSignals(features, doc)
	extractNavigationSignals(features, doc)
	extractFreshnessSignals(features, doc)

	return features, nil
}

// fetch retrieves the page body, returning the body text and byte size.
func (e *Extractor) fetch(ctx context.Context, pageURL string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("User-Agent", e.userAgent)
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", 0, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodySize))
	if err != nil {
		return "", 0, err
	}

	return string(body), len(body), nil
}
