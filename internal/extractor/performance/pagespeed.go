package performance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sitelens/sitelens/internal/model"
)

// DefaultAuditEndpoint is the remote audit API URL.
const DefaultAuditEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// auditCategories are requested from the remote audit service.
var auditCategories = []string{"PERFORMANCE", "ACCESSIBILITY", "BEST_PRACTICES", "SEO"}

// opportunityKeys are the audits recorded as optimization opportunities.
// Any of these scoring below 1 is recorded, not only failing ones.
var opportunityKeys = []string{
	"render-blocking-resources",
	"unused-css-rules",
	"unused-javascript",
	"modern-image-formats",
	"offscreen-images",
	"unminified-css",
	"unminified-javascript",
	"uses-optimized-images",
	"uses-text-compression",
	"uses-responsive-images",
}

// diagnosticKeys are the audits recorded as diagnostics.
var diagnosticKeys = []string{
	"main-thread-tasks",
	"bootup-time",
	"third-party-summary",
	"font-display",
	"uses-http2",
}

// AuditClient calls the remote Lighthouse-style audit API.
//
// The service runs a full lab measurement of the target page, so the
// request timeout must be generous. Mobile strategy is used because
// mobile scores are the stricter and more widely cited baseline.
type AuditClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewAuditClient creates an AuditClient. An empty endpoint selects the
// default; an empty key sends unauthenticated requests at a lower quota.
func NewAuditClient(endpoint, apiKey string) *AuditClient {
	if endpoint == "" {
		endpoint = DefaultAuditEndpoint
	}
	return &AuditClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 90 * time.Second},
	}
}

// WithHTTPClient replaces the HTTP client. Used by tests.
func (a *AuditClient) WithHTTPClient(c *http.Client) *AuditClient {
	a.client = c
	return a
}

// auditResponse mirrors the subset of the remote audit JSON we consume.
type auditResponse struct {
	LighthouseResult struct {
		Categories map[string]struct {
			Score *float64 `json:"score"`
		} `json:"categories"`
		Audits map[string]auditEntry `json:"audits"`
	} `json:"lighthouseResult"`
}

// auditEntry is one audit result.
type auditEntry struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Score        *float64 `json:"score"`
	NumericValue *float64 `json:"numericValue"`
	DisplayValue string   `json:"displayValue"`
	Details      *struct {
		Items []auditItem `json:"items"`
	} `json:"details"`
}

// auditItem is one row in an audit's details table.
type auditItem struct {
	URL          string  `json:"url"`
	TransferSize int     `json:"transferSize"`
	BlockingTime float64 `json:"blockingTime"`
}

// Run requests an audit for the URL and maps the response into a feature
// set. The caller stamps source and timestamp.
func (a *AuditClient) Run(ctx context.Context, pageURL string) (*model.PerformanceFeatureSet, error) {
	params := url.Values{}
	params.Set("url", pageURL)
	for _, c := range auditCategories {
		params.Add("category", c)
	}
	params.Set("strategy", "MOBILE")
	if a.apiKey != "" {
		params.Set("key", a.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audit request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audit request failed: status %d", resp.StatusCode)
	}

	var data auditResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode audit response: %w", err)
	}

	features := &model.PerformanceFeatureSet{URL: pageURL}
	extractCategoryScores(features, &data)
	extractWebVitals(features, &data)
	extractOpportunities(features, &data)
	extractDiagnostics(features, &data)
	return features, nil
}

// extractCategoryScores maps the four 0-1 category scores to 0-100 ints.
func extractCategoryScores(f *model.PerformanceFeatureSet, data *auditResponse) {
	categories := data.LighthouseResult.Categories

	scaled := func(name string) *int {
		cat, ok := categories[name]
		if !ok || cat.Score == nil {
			return nil
		}
		return model.IntPtr(int(*cat.Score * 100))
	}

	f.PerformanceScore = scaled("performance")
	f.AccessibilityScore = scaled("accessibility")
	f.BestPracticesScore = scaled("best-practices")
	f.SEOScore = scaled("seo")
}

// extractWebVitals maps the six Core-Web-Vitals-style audits. First Input
// Delay is not measured directly; Total Blocking Time is substituted as
// its proxy, and that substitution is intentional.
func extractWebVitals(f *model.PerformanceFeatureSet, data *auditResponse) {
	audits := data.LighthouseResult.Audits

	metric := func(key string) (score, value *float64) {
		audit, ok := audits[key]
		if !ok {
			return nil, nil
		}
		if audit.Score != nil {
			score = model.Float64Ptr(*audit.Score * 100)
		}
		return score, audit.NumericValue
	}

	f.LCPScore, f.LCPValue = metric("largest-contentful-paint")
	f.CLSScore, f.CLSValue = metric("cumulative-layout-shift")
	f.FCPScore, f.FCPValue = metric("first-contentful-paint")
	f.TTIScore, f.TTIValue = metric("interactive")
	f.SpeedIndexScore, f.SpeedIndexValue = metric("speed-index")
	f.TBTScore, f.TBTValue = metric("total-blocking-time")

	f.FIDScore = f.TBTScore
	f.FIDValue = f.TBTValue
}

// extractOpportunities records audits scoring below 1 and pulls out the
// render-blocking and unused-bytes details.
func extractOpportunities(f *model.PerformanceFeatureSet, data *auditResponse) {
	audits := data.LighthouseResult.Audits

	for _, key := range opportunityKeys {
		audit, ok := audits[key]
		if !ok || audit.Score == nil || *audit.Score >= 1 {
			continue
		}
		f.Opportunities = append(f.Opportunities, model.Opportunity{
			ID:           key,
			Title:        audit.Title,
			Description:  audit.Description,
			Score:        *audit.Score,
			SavingsMs:    audit.NumericValue,
			DisplayValue: audit.DisplayValue,
		})
	}

	if rb, ok := audits["render-blocking-resources"]; ok && rb.Details != nil {
		for _, item := range rb.Details.Items {
			f.RenderBlockingResources = append(f.RenderBlockingResources, item.URL)
			switch {
			case strings.HasSuffix(item.URL, ".css"):
				f.RenderBlockingCSSCount++
			case strings.HasSuffix(item.URL, ".js"):
				f.RenderBlockingJSCount++
			}
		}
	}

	if unused, ok := audits["unused-javascript"]; ok && unused.Details != nil && unused.NumericValue != nil {
		f.UnusedJSBytes = model.IntPtr(int(*unused.NumericValue))
	}
	if unused, ok := audits["unused-css-rules"]; ok && unused.Details != nil && unused.NumericValue != nil {
		f.UnusedCSSBytes = model.IntPtr(int(*unused.NumericValue))
	}
}

// extractDiagnostics records the diagnostic audits plus the derived
// bootup-time, third-party, HTTP/2, and font-display fields.
func extractDiagnostics(f *model.PerformanceFeatureSet, data *auditResponse) {
	audits := data.LighthouseResult.Audits

	for _, key := range diagnosticKeys {
		audit, ok := audits[key]
		if !ok || audit.Score == nil {
			continue
		}
		f.Diagnostics = append(f.Diagnostics, model.Diagnostic{
			ID:           key,
			Title:        audit.Title,
			Description:  audit.Description,
			Score:        *audit.Score,
			DisplayValue: audit.DisplayValue,
		})
	}

	if bootup, ok := audits["bootup-time"]; ok {
		f.TotalJSExecutionTime = bootup.NumericValue
	}

	if tp, ok := audits["third-party-summary"]; ok && tp.Details != nil {
		f.ThirdPartyRequests = len(tp.Details.Items)
		size := 0
		blocking := 0.0
		for _, item := range tp.Details.Items {
			size += item.TransferSize
			blocking += item.BlockingTime
		}
		f.ThirdPartySize = model.IntPtr(size)
		f.ThirdPartyBlockingTime = model.Float64Ptr(blocking)
	}

	if http2, ok := audits["uses-http2"]; ok {
		f.UsesHTTP2 = http2.Score != nil && *http2.Score == 1
	}
	if font, ok := audits["font-display"]; ok {
		f.FontDisplaySet = font.Score != nil && *font.Score == 1
	}
}
