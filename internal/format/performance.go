package format

import (
	"fmt"
	"strings"

	"github.com/sitelens/sitelens/internal/model"
)

// Performance renders a performance feature set into the fixed-section
// technical block.
func Performance(f *model.PerformanceFeatureSet, url string) string {
	opportunities := "None analyzed"
	if len(f.Opportunities) > 0 {
		var lines []string
		for i, opp := range f.Opportunities {
			if i == 5 {
				break
			}
			title := opp.Title
			if title == "" {
				title = "Unknown"
			}
			lines = append(lines, fmt.Sprintf("  • %s: %s", title, formatMs(opp.SavingsMs)))
		}
		opportunities = strings.Join(lines, "\n")
	}

	renderBlocking := "None"
	if len(f.RenderBlockingResources) > 0 {
		var lines []string
		for i, res := range f.RenderBlockingResources {
			if i == 5 {
				break
			}
			lines = append(lines, "  • "+res)
		}
		if extra := len(f.RenderBlockingResources) - 5; extra > 0 {
			lines = append(lines, fmt.Sprintf("  • ... and %d more", extra))
		}
		renderBlocking = strings.Join(lines, "\n")
	}

	clsValue := "N/A"
	if f.CLSValue != nil {
		clsValue = num(*f.CLSValue)
	}
	totalRequests := "N/A"
	if f.TotalRequests != nil {
		totalRequests = fmt.Sprintf("%d", *f.TotalRequests)
	}
	statusCode := "N/A"
	if f.HTTPStatusCode != nil {
		statusCode = fmt.Sprintf("%d", *f.HTTPStatusCode)
	}
	apiError := f.APIError
	if apiError == "" {
		apiError = "None"
	}

	var b strings.Builder
	w := func(format string, args ...any) { fmt.Fprintf(&b, format+"\n", args...) }

	w("TECHNICAL PERFORMANCE FEATURES EXTRACTED FROM URL: %s", url)
	w("")
	w("=== ANALYSIS SOURCE ===")
	w("Primary Source: %s", f.AnalysisSource)
	w("Analyzed At: %s", orNA(f.AnalyzedAt))
	w("Fallback Used: %t", f.FallbackUsed)
	w("API Error: %s", apiError)
	w("")
	w("=== OVERALL SCORES ===")
	w("Performance Score: %s", formatScore(f.PerformanceScore))
	w("Accessibility Score: %s", formatScore(f.AccessibilityScore))
	w("Best Practices Score: %s", formatScore(f.BestPracticesScore))
	w("SEO Score: %s", formatScore(f.SEOScore))
	w("")
	w("=== CORE WEB VITALS ===")
	w("Largest Contentful Paint (LCP): %s - %s", formatMs(f.LCPValue), categorizeLCP(f.LCPValue))
	w("  Score: %s", formatVitalScore(f.LCPScore))
	w("")
	w("First Input Delay (FID/TBT): %s - %s", formatMs(f.FIDValue), categorizeFID(f.FIDValue))
	w("  Score: %s", formatVitalScore(f.FIDScore))
	w("")
	w("Cumulative Layout Shift (CLS): %s - %s", clsValue, categorizeCLS(f.CLSValue))
	w("  Score: %s", formatVitalScore(f.CLSScore))
	w("")
	w("=== LOADING PERFORMANCE ===")
	w("First Contentful Paint (FCP): %s", formatMs(f.FCPValue))
	w("  Score: %s", formatVitalScore(f.FCPScore))
	w("")
	w("Time to Interactive (TTI): %s", formatMs(f.TTIValue))
	w("  Score: %s", formatVitalScore(f.TTIScore))
	w("")
	w("Speed Index: %s", formatMs(f.SpeedIndexValue))
	w("  Score: %s", formatVitalScore(f.SpeedIndexScore))
	w("")
	w("Total Blocking Time (TBT): %s", formatMs(f.TBTValue))
	w("  Score: %s", formatVitalScore(f.TBTScore))
	w("")
	w("=== RESOURCE ANALYSIS ===")
	w("Total Page Size: %s", formatBytes(f.TotalPageSize))
	w("Total Requests: %s", totalRequests)
	w("")
	w("Resource Breakdown:")
	w("  HTML: %s (%d requests)", formatBytes(f.HTMLSize), f.HTMLRequests)
	w("  CSS: %s (%d requests)", formatBytes(f.CSSSize), f.CSSRequests)
	w("  JavaScript: %s (%d requests)", formatBytes(f.JSSize), f.JSRequests)
	w("  Images: %s (%d requests)", formatBytes(f.ImageSize), f.ImageRequests)
	w("  Fonts: %s (%d requests)", formatBytes(f.FontSize), f.FontRequests)
	w("  Other: %s (%d requests)", formatBytes(f.OtherSize), f.OtherRequests)
	w("")
	w("=== RENDER-BLOCKING RESOURCES ===")
	w("Render-Blocking CSS: %d files", f.RenderBlockingCSSCount)
	w("Render-Blocking JavaScript: %d files", f.RenderBlockingJSCount)
	w("Resources:")
	w("%s", renderBlocking)
	w("")
	w("=== JAVASCRIPT ANALYSIS ===")
	w("Unused JavaScript: %s", formatBytes(f.UnusedJSBytes))
	w("Total JS Execution Time: %s", formatMs(f.TotalJSExecutionTime))
	w("Main Thread Work Time: %s", formatMs(f.MainThreadWorkTime))
	w("")
	w("=== CSS ANALYSIS ===")
	w("Unused CSS: %s", formatBytes(f.UnusedCSSBytes))
	w("")
	w("=== CACHING & COMPRESSION ===")
	w("Compression:")
	w("  Gzip: %t", f.UsesGzipCompression)
	w("  Brotli: %t", f.UsesBrotliCompression)
	w("")
	w("Caching:")
	w("  Cache-Control: %t", f.HasCacheControl)
	w("  Cache-Control Value: %s", orNA(f.CacheControlValue))
	w("  ETag: %t", f.HasETag)
	w("  Expires: %t", f.HasExpires)
	w("  Expires Value: %s", orNA(f.ExpiresValue))
	w("")
	w("=== SECURITY HEADERS ===")
	w("HSTS (Strict-Transport-Security): %t", f.HasHSTS)
	w("  Value: %s", orNA(f.HSTSValue))
	w("")
	w("Content-Security-Policy (CSP): %t", f.HasCSP)
	w("  Value: %s", orNA(f.CSPValue))
	w("")
	w("X-Frame-Options: %t", f.HasXFrameOptions)
	w("  Value: %s", orNA(f.XFrameOptionsValue))
	w("")
	w("X-Content-Type-Options: %t", f.HasXContentTypeOptions)
	w("")
	w("Referrer-Policy: %t", f.HasReferrerPolicy)
	w("  Value: %s", orNA(f.ReferrerPolicyValue))
	w("")
	w("=== SERVER & RESPONSE ===")
	w("Server Type: %s", orNA(f.ServerType))
	w("Response Time: %s", formatMs(f.ResponseTime))
	w("HTTP Status Code: %s", statusCode)
	w("Redirects Count: %d", f.RedirectsCount)
	w("Uses HTTP/2: %t", f.UsesHTTP2)
	w("Uses HTTP/3: %t", f.UsesHTTP3)
	w("")
	w("=== THIRD-PARTY ANALYSIS ===")
	w("Third-Party Requests: %d", f.ThirdPartyRequests)
	w("Third-Party Size: %s", formatBytes(f.ThirdPartySize))
	w("Third-Party Blocking Time: %s", formatMs(f.ThirdPartyBlockingTime))
	w("")
	w("=== FONT OPTIMIZATION ===")
	w("Font Display Set: %t", f.FontDisplaySet)
	w("")
	w("=== TOP OPTIMIZATION OPPORTUNITIES ===")
	w("%s", opportunities)
	w("")
	w("=== DIAGNOSTICS COUNT ===")
	w("Total Diagnostics: %d", len(f.Diagnostics))

	return b.String()
}
