package model

// AnalysisSource identifies which waterfall stage a performance feature set
// was (last) populated from.
type AnalysisSource string

const (
	// SourceAPI means the remote audit API produced the data.
	SourceAPI AnalysisSource = "api"

	// SourceHeaders means the HTTP header probe produced the data.
	SourceHeaders AnalysisSource = "headers"

	// SourceLocal means the local browser measurement produced the data.
	SourceLocal AnalysisSource = "local"

	// SourceMerged means the local fallback filled gaps in data that was
	// already sourced from the API or the header probe.
	SourceMerged AnalysisSource = "merged"

	// SourceUnknown means no stage has populated the set yet.
	SourceUnknown AnalysisSource = "unknown"
)

// Opportunity is one optimization suggestion from the remote audit.
// Any audit scoring below 1 is recorded, not just failing ones.
type Opportunity struct {
	ID           string   `json:"id"`
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	Score        float64  `json:"score"`
	SavingsMs    *float64 `json:"savings_ms,omitempty"`
	DisplayValue string   `json:"display_value,omitempty"`
}

// Diagnostic is one diagnostic audit result from the remote audit.
type Diagnostic struct {
	ID           string  `json:"id"`
	Title        string  `json:"title,omitempty"`
	Description  string  `json:"description,omitempty"`
	Score        float64 `json:"score"`
	DisplayValue string  `json:"display_value,omitempty"`
}

// PerformanceFeatureSet holds network-performance signals collected by the
// three-stage waterfall. Pointer fields distinguish "not determined by any
// stage that ran" (nil) from "measured as zero"; several merge and scoring
// rules depend on that distinction, so do not replace pointers with zero
// values.
type PerformanceFeatureSet struct {
	// URL is the analyzed URL.
	URL string `json:"url"`

	// AnalyzedAt is the timestamp of the stage that most recently
	// populated this set, formatted "2006-01-02 15:04:05".
	AnalyzedAt string `json:"analyzed_at,omitempty"`

	// === Core Web Vitals ===
	// Scores are 0-100 (the remote service reports 0-1 and is scaled x100);
	// values are milliseconds except CLS which is unitless.

	LCPScore *float64 `json:"lcp_score,omitempty"`
	LCPValue *float64 `json:"lcp_value,omitempty"`

	// FIDScore/FIDValue are not measured directly: Total Blocking Time is
	// substituted as the FID proxy. This substitution is deliberate.
	FIDScore *float64 `json:"fid_score,omitempty"`
	FIDValue *float64 `json:"fid_value,omitempty"`

	CLSScore *float64 `json:"cls_score,omitempty"`
	CLSValue *float64 `json:"cls_value,omitempty"`

	FCPScore *float64 `json:"fcp_score,omitempty"`
	FCPValue *float64 `json:"fcp_value,omitempty"`

	TTIScore *float64 `json:"tti_score,omitempty"`
	TTIValue *float64 `json:"tti_value,omitempty"`

	SpeedIndexScore *float64 `json:"speed_index_score,omitempty"`
	SpeedIndexValue *float64 `json:"speed_index_value,omitempty"`

	TBTScore *float64 `json:"tbt_score,omitempty"`
	TBTValue *float64 `json:"tbt_value,omitempty"`

	// === Overall Category Scores (0-100) ===

	PerformanceScore   *int `json:"performance_score,omitempty"`
	AccessibilityScore *int `json:"accessibility_score,omitempty"`
	BestPracticesScore *int `json:"best_practices_score,omitempty"`
	SEOScore           *int `json:"seo_score,omitempty"`

	// === Resource Analysis ===
	// Sizes are bytes accumulated per bucket; requests count responses
	// classified into each bucket by content type or extension.

	TotalPageSize *int `json:"total_page_size,omitempty"`
	TotalRequests *int `json:"total_requests,omitempty"`

	HTMLSize  *int `json:"html_size,omitempty"`
	CSSSize   *int `json:"css_size,omitempty"`
	JSSize    *int `json:"js_size,omitempty"`
	ImageSize *int `json:"image_size,omitempty"`
	FontSize  *int `json:"font_size,omitempty"`
	OtherSize *int `json:"other_size,omitempty"`

	HTMLRequests  int `json:"html_requests"`
	CSSRequests   int `json:"css_requests"`
	JSRequests    int `json:"js_requests"`
	ImageRequests int `json:"image_requests"`
	FontRequests  int `json:"font_requests"`
	OtherRequests int `json:"other_requests"`

	// === Caching & Compression ===

	UsesGzipCompression   bool   `json:"uses_gzip_compression"`
	UsesBrotliCompression bool   `json:"uses_brotli_compression"`
	HasCacheControl       bool   `json:"has_cache_control"`
	CacheControlValue     string `json:"cache_control_value,omitempty"`
	HasETag               bool   `json:"has_etag"`
	HasExpires            bool   `json:"has_expires"`
	ExpiresValue          string `json:"expires_value,omitempty"`

	// === Security Headers ===

	HasHSTS                 bool   `json:"has_hsts"`
	HSTSValue               string `json:"hsts_value,omitempty"`
	HasCSP                  bool   `json:"has_csp"`
	CSPValue                string `json:"csp_value,omitempty"`
	HasXFrameOptions        bool   `json:"has_x_frame_options"`
	XFrameOptionsValue      string `json:"x_frame_options_value,omitempty"`
	HasXContentTypeOptions  bool   `json:"has_x_content_type_options"`
	HasReferrerPolicy       bool   `json:"has_referrer_policy"`
	ReferrerPolicyValue     string `json:"referrer_policy_value,omitempty"`

	// === Server & Response ===

	ServerType     string   `json:"server_type,omitempty"`
	ResponseTime   *float64 `json:"response_time,omitempty"`
	HTTPStatusCode *int     `json:"http_status_code,omitempty"`
	RedirectsCount int      `json:"redirects_count"`
	UsesHTTP2      bool     `json:"uses_http2"`
	UsesHTTP3      bool     `json:"uses_http3"`

	// === Render-Blocking Resources ===

	RenderBlockingCSSCount int      `json:"render_blocking_css_count"`
	RenderBlockingJSCount  int      `json:"render_blocking_js_count"`
	RenderBlockingResources []string `json:"render_blocking_resources,omitempty"`

	// === JavaScript & CSS Analysis ===

	UnusedJSBytes         *int     `json:"unused_js_bytes,omitempty"`
	UnusedCSSBytes        *int     `json:"unused_css_bytes,omitempty"`
	TotalJSExecutionTime  *float64 `json:"total_js_execution_time,omitempty"`
	MainThreadWorkTime    *float64 `json:"main_thread_work_time,omitempty"`

	// === Font Optimization ===

	FontDisplaySet bool `json:"font_display_set"`

	// === Third-Party Analysis ===

	ThirdPartyRequests     int      `json:"third_party_requests"`
	ThirdPartySize         *int     `json:"third_party_size,omitempty"`
	ThirdPartyBlockingTime *float64 `json:"third_party_blocking_time,omitempty"`

	// === Audit Lists ===

	Opportunities []Opportunity `json:"opportunities,omitempty"`
	Diagnostics   []Diagnostic  `json:"diagnostics,omitempty"`

	// === Metadata ===

	// AnalysisSource records which stage most recently stamped AnalyzedAt.
	AnalysisSource AnalysisSource `json:"analysis_source"`

	// APIError records a remote audit failure. A populated APIError
	// triggers the local fallback stage when fallback is enabled.
	APIError string `json:"api_error,omitempty"`

	// FallbackUsed is set whenever the local measurement stage was
	// invoked, whether or not it filled any field.
	FallbackUsed bool `json:"fallback_used"`
}

// Float64Ptr returns a pointer to v. Helper for building feature sets.
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v. Helper for building feature sets.
func IntPtr(v int) *int { return &v }
