package performance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sitelens/sitelens/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubProber returns a fixed local measurement.
type stubProber struct {
	features *model.PerformanceFeatureSet
	err      error
	invoked  bool
}

func (s *stubProber) Measure(_ context.Context, _ string) (*model.PerformanceFeatureSet, error) {
	s.invoked = true
	return s.features, s.err
}

// auditPayload is a minimal remote audit response.
const auditPayload = `{
	"lighthouseResult": {
		"categories": {
			"performance": {"score": 0.8},
			"accessibility": {"score": 0.95},
			"best-practices": {"score": 1.0},
			"seo": {"score": 0.9}
		},
		"audits": {
			"largest-contentful-paint": {"score": 0.75, "numericValue": 2400.5},
			"cumulative-layout-shift": {"score": 1.0, "numericValue": 0.01},
			"first-contentful-paint": {"score": 0.9, "numericValue": 1100},
			"interactive": {"score": 0.7, "numericValue": 3800},
			"speed-index": {"score": 0.85, "numericValue": 2100},
			"total-blocking-time": {"score": 0.6, "numericValue": 450},
			"render-blocking-resources": {
				"score": 0.5, "title": "Eliminate render-blocking resources",
				"numericValue": 300, "details": {"items": [
					{"url": "https://example.com/app.css"},
					{"url": "https://example.com/app.js"}
				]}
			},
			"uses-http2": {"score": 1},
			"font-display": {"score": 0},
			"bootup-time": {"score": 0.9, "numericValue": 820},
			"third-party-summary": {"score": 1, "details": {"items": [
				{"url": "https://cdn.example.net/lib.js", "transferSize": 5000, "blockingTime": 120.5}
			]}}
		}
	}
}`

// TestAuditClientRun tests the remote audit stage field mapping.
func TestAuditClientRun(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("strategy") != "MOBILE" {
			t.Errorf("strategy = %q, want MOBILE", q.Get("strategy"))
		}
		if got := q["category"]; len(got) != 4 {
			t.Errorf("categories = %v, want 4", got)
		}
		_, _ = w.Write([]byte(auditPayload))
	}))
	defer srv.Close()

	f, err := NewAuditClient(srv.URL, "").Run(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if f.PerformanceScore == nil || *f.PerformanceScore != 80 {
		t.Errorf("PerformanceScore = %v, want 80", f.PerformanceScore)
	}
	if f.AccessibilityScore == nil || *f.AccessibilityScore != 95 {
		t.Errorf("AccessibilityScore = %v, want 95", f.AccessibilityScore)
	}
	if f.LCPScore == nil || *f.LCPScore != 75 {
		t.Errorf("LCPScore = %v, want 75", f.LCPScore)
	}
	if f.LCPValue == nil || *f.LCPValue != 2400.5 {
		t.Errorf("LCPValue = %v, want 2400.5", f.LCPValue)
	}

	// FID uses TBT as proxy
	if f.FIDValue == nil || *f.FIDValue != 450 {
		t.Errorf("FIDValue = %v, want TBT value 450", f.FIDValue)
	}
	if f.FIDScore == nil || *f.FIDScore != 60 {
		t.Errorf("FIDScore = %v, want TBT score 60", f.FIDScore)
	}

	// Opportunities: only render-blocking-resources scores below 1
	if len(f.Opportunities) != 1 || f.Opportunities[0].ID != "render-blocking-resources" {
		t.Errorf("Opportunities = %+v, want one render-blocking entry", f.Opportunities)
	}
	if f.RenderBlockingCSSCount != 1 || f.RenderBlockingJSCount != 1 {
		t.Errorf("render blocking counts = %d css, %d js, want 1 each",
			f.RenderBlockingCSSCount, f.RenderBlockingJSCount)
	}

	if !f.UsesHTTP2 {
		t.Error("UsesHTTP2 should be true")
	}
	if f.FontDisplaySet {
		t.Error("FontDisplaySet should be false for score 0")
	}
	if f.ThirdPartyRequests != 1 || f.ThirdPartySize == nil || *f.ThirdPartySize != 5000 {
		t.Errorf("third party = %d requests, size %v", f.ThirdPartyRequests, f.ThirdPartySize)
	}
	if len(f.Diagnostics) != 4 {
		t.Errorf("Diagnostics = %d entries, want 4", len(f.Diagnostics))
	}
}

// TestHeaderProberProbe tests the header probe stage.
func TestHeaderProberProbe(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %q, want HEAD", r.Method)
		}
		h := w.Header()
		h.Set("Content-Encoding", "gzip")
		h.Set("Cache-Control", "max-age=3600")
		h.Set("ETag", `"abc"`)
		h.Set("Strict-Transport-Security", "max-age=63072000")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Server", "nginx/1.25")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	probe, err := NewHeaderProber().Probe(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}

	if probe.HTTPStatusCode != http.StatusOK {
		t.Errorf("HTTPStatusCode = %d", probe.HTTPStatusCode)
	}
	if probe.ResponseTime <= 0 {
		t.Errorf("ResponseTime = %v, want positive", probe.ResponseTime)
	}
	if !probe.UsesGzipCompression || probe.UsesBrotliCompression {
		t.Errorf("compression flags = gzip:%v brotli:%v", probe.UsesGzipCompression, probe.UsesBrotliCompression)
	}
	if !probe.HasCacheControl || probe.CacheControlValue != "max-age=3600" {
		t.Errorf("CacheControlValue = %q", probe.CacheControlValue)
	}
	if !probe.HasETag || !probe.HasHSTS || !probe.HasXContentTypeOptions {
		t.Error("expected ETag, HSTS and X-Content-Type-Options flags")
	}
	if probe.ServerType != "nginx/1.25" {
		t.Errorf("ServerType = %q", probe.ServerType)
	}
}

// TestHeaderProberCountsRedirects tests redirect counting.
func TestHeaderProberCountsRedirects(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			http.Redirect(w, r, srv.URL+"/hop", http.StatusMovedPermanently)
		case "/hop":
			http.Redirect(w, r, srv.URL+"/final", http.StatusFound)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	probe, err := NewHeaderProber().Probe(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if probe.RedirectsCount != 2 {
		t.Errorf("RedirectsCount = %d, want 2", probe.RedirectsCount)
	}
}

// TestMergeWaterfall tests the exact three-stage merge property: stage 3
// fills only null fields and never overwrites stage 2.
func TestMergeWaterfall(t *testing.T) {
	t.Parallel()

	// Stage 1 produced a score but no LCP value
	f := &model.PerformanceFeatureSet{
		URL:              "https://example.com",
		PerformanceScore: model.IntPtr(80),
		AnalyzedAt:       "2026-08-25 10:00:00",
		AnalysisSource:   model.SourceAPI,
	}

	// Stage 2 overlays response time
	overlayHeaderProbe(f, &HeaderProbe{
		ResponseTime: 120,
		AnalyzedAt:   "2026-08-25 10:00:01",
	})

	// Stage 3 offers vitals and a conflicting response time
	local := &model.PerformanceFeatureSet{
		LCPValue:     model.Float64Ptr(2200),
		CLSValue:     model.Float64Ptr(0.08),
		ResponseTime: model.Float64Ptr(999),
		AnalyzedAt:   "2026-08-25 10:00:05",
	}
	if filled := fillFromLocal(f, local); !filled {
		t.Fatal("fillFromLocal should report fields filled")
	}

	if f.PerformanceScore == nil || *f.PerformanceScore != 80 {
		t.Errorf("PerformanceScore = %v, want 80", f.PerformanceScore)
	}
	if f.LCPValue == nil || *f.LCPValue != 2200 {
		t.Errorf("LCPValue = %v, want 2200 filled from stage 3", f.LCPValue)
	}
	if f.CLSValue == nil || *f.CLSValue != 0.08 {
		t.Errorf("CLSValue = %v, want 0.08 filled from stage 3", f.CLSValue)
	}
	if f.ResponseTime == nil || *f.ResponseTime != 120 {
		t.Errorf("ResponseTime = %v, want stage-2 value 120 preserved", f.ResponseTime)
	}
	if f.AnalysisSource != model.SourceMerged {
		t.Errorf("AnalysisSource = %q, want merged", f.AnalysisSource)
	}
}

// TestMergeLocalOnly tests the source when no earlier stage stamped the set.
func TestMergeLocalOnly(t *testing.T) {
	t.Parallel()

	f := &model.PerformanceFeatureSet{URL: "https://example.com", AnalysisSource: model.SourceUnknown}
	local := &model.PerformanceFeatureSet{
		ResponseTime: model.Float64Ptr(400),
		AnalyzedAt:   "2026-08-25 11:00:00",
	}

	fillFromLocal(f, local)

	if f.AnalysisSource != model.SourceLocal {
		t.Errorf("AnalysisSource = %q, want local", f.AnalysisSource)
	}
	if f.AnalyzedAt != "2026-08-25 11:00:00" {
		t.Errorf("AnalyzedAt = %q, want local stamp", f.AnalyzedAt)
	}
}

// TestExtractFallbackTrigger tests that the local stage runs exactly when
// the remote audit failed and fallback is enabled.
func TestExtractFallbackTrigger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		auditOK     bool
		fallback    bool
		wantInvoked bool
	}{
		{"audit fails with fallback", false, true, true},
		{"audit fails without fallback", false, false, false},
		{"audit succeeds", true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !tt.auditOK {
					w.WriteHeader(http.StatusTooManyRequests)
					return
				}
				_, _ = w.Write([]byte(auditPayload))
			}))
			defer srv.Close()

			prober := &stubProber{features: &model.PerformanceFeatureSet{}}
			e := New(
				WithAuditClient(NewAuditClient(srv.URL, "")),
				WithProber(prober),
				WithFallback(tt.fallback),
				WithLogger(discardLogger()),
			)

			// Header probe hits the same server; HEAD succeeds either way.
			f := e.Extract(context.Background(), srv.URL)

			if prober.invoked != tt.wantInvoked {
				t.Errorf("prober invoked = %v, want %v", prober.invoked, tt.wantInvoked)
			}
			if f.FallbackUsed != tt.wantInvoked {
				t.Errorf("FallbackUsed = %v, want %v", f.FallbackUsed, tt.wantInvoked)
			}
			if !tt.auditOK && f.APIError == "" {
				t.Error("APIError should record the audit failure")
			}
		})
	}
}

// TestExtractFallbackUsedEvenWhenProberFails tests that FallbackUsed
// reflects invocation, not success.
func TestExtractFallbackUsedEvenWhenProberFails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	prober := &stubProber{err: errors.New("browser not installed")}
	e := New(
		WithAuditClient(NewAuditClient(srv.URL, "")),
		WithProber(prober),
		WithFallback(true),
		WithLogger(discardLogger()),
	)

	f := e.Extract(context.Background(), srv.URL)

	if !f.FallbackUsed {
		t.Error("FallbackUsed should be set even when the prober errors")
	}
}

// TestClassifyResource tests the six-bucket classification.
func TestClassifyResource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		url         string
		want        ResourceBucket
	}{
		{"html by type", "text/html; charset=utf-8", "https://e.com/", BucketHTML},
		{"css by type", "text/css", "https://e.com/a", BucketCSS},
		{"css by extension", "application/octet-stream", "https://e.com/style.css", BucketCSS},
		{"js by type", "application/javascript", "https://e.com/x", BucketJS},
		{"js by extension", "", "https://e.com/app.js", BucketJS},
		{"image", "image/png", "https://e.com/i", BucketImage},
		{"font by type", "font/woff2", "https://e.com/f", BucketFont},
		{"font by extension", "binary/octet-stream", "https://e.com/f.woff2", BucketFont},
		{"other", "application/json", "https://e.com/api", BucketOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ClassifyResource(tt.contentType, tt.url); got != tt.want {
				t.Errorf("ClassifyResource() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestAccumulateResource tests bucket accumulation and request counting.
func TestAccumulateResource(t *testing.T) {
	t.Parallel()

	f := &model.PerformanceFeatureSet{}
	AccumulateResource(f, BucketCSS, 100)
	AccumulateResource(f, BucketCSS, 50)
	AccumulateResource(f, BucketImage, 2000)

	if f.CSSSize == nil || *f.CSSSize != 150 {
		t.Errorf("CSSSize = %v, want 150", f.CSSSize)
	}
	if f.CSSRequests != 2 {
		t.Errorf("CSSRequests = %d, want 2", f.CSSRequests)
	}
	if f.ImageSize == nil || *f.ImageSize != 2000 {
		t.Errorf("ImageSize = %v, want 2000", f.ImageSize)
	}
	if f.HTMLSize != nil {
		t.Errorf("HTMLSize = %v, want nil for untouched bucket", f.HTMLSize)
	}
}
