package performance

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sitelens/sitelens/internal/model"
)

// HeaderProber issues a HEAD request and records response headers,
// timing, and protocol information. It is the cheap, always-run second
// stage of the waterfall.
type HeaderProber struct {
	client    *http.Client
	userAgent string
}

// NewHeaderProber creates a HeaderProber with a 10 second timeout.
func NewHeaderProber() *HeaderProber {
	return &HeaderProber{
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	}
}

// WithHTTPClient replaces the HTTP client's transport settings while
// keeping redirect counting intact. Used by tests.
func (h *HeaderProber) WithHTTPClient(c *http.Client) *HeaderProber {
	h.client = c
	return h
}

// HeaderProbe holds the fields the probe stage produces. A separate type
// (rather than a full feature set) makes the overlay explicit: exactly
// these fields overwrite the merged set, nothing else.
type HeaderProbe struct {
	ResponseTime   float64
	HTTPStatusCode int
	RedirectsCount int

	UsesGzipCompression   bool
	UsesBrotliCompression bool
	HasCacheControl       bool
	CacheControlValue     string
	HasETag               bool
	HasExpires            bool
	ExpiresValue          string

	HasHSTS                bool
	HSTSValue              string
	HasCSP                 bool
	CSPValue               string
	HasXFrameOptions       bool
	XFrameOptionsValue     string
	HasXContentTypeOptions bool
	HasReferrerPolicy      bool
	ReferrerPolicyValue    string

	ServerType string
	UsesHTTP2  bool
	UsesHTTP3  bool

	AnalyzedAt string
}

// Probe issues the HEAD request, following redirects, and returns the
// collected header fields.
func (h *HeaderProber) Probe(ctx context.Context, url string) (*HeaderProbe, error) {
	redirects := 0
	client := &http.Client{
		Timeout:   h.client.Timeout,
		Transport: h.client.Transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			redirects = len(via)
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", h.userAgent)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	probe := &HeaderProbe{
		ResponseTime:   float64(time.Since(start)) / float64(time.Millisecond),
		HTTPStatusCode: resp.StatusCode,
		RedirectsCount: redirects,
		AnalyzedAt:     time.Now().Format(timeFormat),
	}

	headers := resp.Header

	encoding := strings.ToLower(headers.Get("Content-Encoding"))
	probe.UsesGzipCompression = strings.Contains(encoding, "gzip")
	probe.UsesBrotliCompression = strings.Contains(encoding, "br")

	if v := headers.Get("Cache-Control"); v != "" {
		probe.HasCacheControl = true
		probe.CacheControlValue = v
	}
	probe.HasETag = headers.Get("ETag") != ""
	if v := headers.Get("Expires"); v != "" {
		probe.HasExpires = true
		probe.ExpiresValue = v
	}

	if v := headers.Get("Strict-Transport-Security"); v != "" {
		probe.HasHSTS = true
		probe.HSTSValue = v
	}
	if v := headers.Get("Content-Security-Policy"); v != "" {
		probe.HasCSP = true
		probe.CSPValue = v
	}
	if v := headers.Get("X-Frame-Options"); v != "" {
		probe.HasXFrameOptions = true
		probe.XFrameOptionsValue = v
	}
	probe.HasXContentTypeOptions = headers.Get("X-Content-Type-Options") != ""
	if v := headers.Get("Referrer-Policy"); v != "" {
		probe.HasReferrerPolicy = true
		probe.ReferrerPolicyValue = v
	}

	probe.ServerType = headers.Get("Server")

	switch resp.ProtoMajor {
	case 2:
		probe.UsesHTTP2 = true
	case 3:
		probe.UsesHTTP3 = true
	}

	return probe, nil
}

// overlayHeaderProbe unconditionally copies the probe's fields onto the
// feature set. The probe always wins for the fields it produces: header
// data is orthogonal to audit data, not a fallback for it.
func overlayHeaderProbe(f *model.PerformanceFeatureSet, p *HeaderProbe) {
	f.ResponseTime = model.Float64Ptr(p.ResponseTime)
	f.HTTPStatusCode = model.IntPtr(p.HTTPStatusCode)
	f.RedirectsCount = p.RedirectsCount

	f.UsesGzipCompression = p.UsesGzipCompression
	f.UsesBrotliCompression = p.UsesBrotliCompression
	f.HasCacheControl = p.HasCacheControl
	f.CacheControlValue = p.CacheControlValue
	f.HasETag = p.HasETag
	f.HasExpires = p.HasExpires
	f.ExpiresValue = p.ExpiresValue

	f.HasHSTS = p.HasHSTS
	f.HSTSValue = p.HSTSValue
	f.HasCSP = p.HasCSP
	f.CSPValue = p.CSPValue
	f.HasXFrameOptions = p.HasXFrameOptions
	f.XFrameOptionsValue = p.XFrameOptionsValue
	f.HasXContentTypeOptions = p.HasXContentTypeOptions
	f.HasReferrerPolicy = p.HasReferrerPolicy
	f.ReferrerPolicyValue = p.ReferrerPolicyValue

	f.ServerType = p.ServerType
	f.UsesHTTP2 = p.UsesHTTP2
	f.UsesHTTP3 = p.UsesHTTP3

	f.AnalyzedAt = p.AnalyzedAt
	f.AnalysisSource = model.SourceHeaders
}
