package format

import (
	"strings"
	"testing"

	"github.com/sitelens/sitelens/internal/model"
)

// TestFormatBytes tests the KB/MB thresholds at 1024.
func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *int
		want string
	}{
		{"nil", nil, "N/A"},
		{"bytes", model.IntPtr(512), "512 bytes"},
		{"boundary to KB", model.IntPtr(1024), "1.00 KB"},
		{"kilobytes", model.IntPtr(1536), "1.50 KB"},
		{"boundary to MB", model.IntPtr(1024 * 1024), "1.00 MB"},
		{"megabytes", model.IntPtr(5 * 1024 * 1024), "5.00 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatBytes(tt.in); got != tt.want {
				t.Errorf("formatBytes() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestFormatMs tests millisecond truncation.
func TestFormatMs(t *testing.T) {
	t.Parallel()

	if got := formatMs(nil); got != "N/A" {
		t.Errorf("formatMs(nil) = %q", got)
	}
	if got := formatMs(model.Float64Ptr(2543.7)); got != "2543ms" {
		t.Errorf("formatMs(2543.7) = %q, want 2543ms", got)
	}
}

// TestFormatList tests the item cap and overflow suffix.
func TestFormatList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []string
		max   int
		want  string
	}{
		{"empty", nil, 5, "None"},
		{"under cap", []string{"a", "b"}, 5, "a, b"},
		{"at cap", []string{"a", "b", "c"}, 3, "a, b, c"},
		{"over cap", []string{"a", "b", "c", "d"}, 3, "a, b, c (+ 1 more)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatList(tt.items, tt.max); got != tt.want {
				t.Errorf("formatList() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestCategorizeVitals tests the web vital threshold buckets.
func TestCategorizeVitals(t *testing.T) {
	t.Parallel()

	if got := categorizeLCP(model.Float64Ptr(2400)); got != "Good (< 2.5s)" {
		t.Errorf("categorizeLCP(2400) = %q", got)
	}
	if got := categorizeLCP(model.Float64Ptr(3000)); got != "Needs Improvement (2.5-4s)" {
		t.Errorf("categorizeLCP(3000) = %q", got)
	}
	if got := categorizeLCP(model.Float64Ptr(4500)); got != "Poor (> 4s)" {
		t.Errorf("categorizeLCP(4500) = %q", got)
	}
	if got := categorizeFID(model.Float64Ptr(150)); got != "Needs Improvement (100-300ms)" {
		t.Errorf("categorizeFID(150) = %q", got)
	}
	if got := categorizeCLS(model.Float64Ptr(0.05)); got != "Good (< 0.1)" {
		t.Errorf("categorizeCLS(0.05) = %q", got)
	}
	if got := categorizeCLS(nil); got != "N/A" {
		t.Errorf("categorizeCLS(nil) = %q", got)
	}
}

// TestContentStable tests that the content block is byte-identical across
// calls and carries the expected section order.
func TestContentStable(t *testing.T) {
	t.Parallel()

	f := &model.ContentFeatureSet{
		Title:          "Example Page",
		TitleLength:    12,
		H1Count:        1,
		H1Texts:        []string{"Welcome"},
		WordCount:      420,
		TextHTMLRatio:  44.6,
		TopKeywords:    []model.Keyword{{Keyword: "widgets", Count: 9, Density: 2.5}},
		URLUsesHTTPS:   true,
		URLReadability: "Good",
		Text:           "Welcome to the example page.",
	}

	first := Content(f, "URL", "https://example.com")
	second := Content(f, "URL", "https://example.com")
	if first != second {
		t.Fatal("Content output differs between identical calls")
	}

	wantLines := []string{
		"SEO FEATURES EXTRACTED FROM URL: https://example.com",
		"Text-to-HTML Ratio: 44.6%",
		"Top Keywords: widgets(2.5%)",
		"H1 Texts: Welcome",
		"Welcome to the example page....",
	}
	for _, line := range wantLines {
		if !strings.Contains(first, line) {
			t.Errorf("output missing %q", line)
		}
	}

	sections := []string{
		"=== URL STRUCTURE ===",
		"=== META TAGS ===",
		"=== HEADING STRUCTURE ===",
		"=== CONTENT METRICS ===",
		"=== KEYWORD ANALYSIS ===",
		"=== LINKS ===",
		"=== IMAGES ===",
		"=== STRUCTURED DATA ===",
		"=== SOCIAL MEDIA TAGS ===",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(first, section)
		if idx < 0 {
			t.Fatalf("section %q missing", section)
		}
		if idx < last {
			t.Errorf("section %q out of order", section)
		}
		last = idx
	}
}

// TestContentEmptyText tests the preview fallback for missing text.
func TestContentEmptyText(t *testing.T) {
	t.Parallel()

	out := Content(&model.ContentFeatureSet{}, "HTML", "provided markup")
	if !strings.Contains(out, "No text content found...") {
		t.Error("empty text should render the fallback preview")
	}
	if !strings.Contains(out, "Title: N/A (0 chars)") {
		t.Error("missing title should render as N/A")
	}
}

// TestPerformanceNilFields tests that unmeasured metrics render as N/A
// rather than zero.
func TestPerformanceNilFields(t *testing.T) {
	t.Parallel()

	f := &model.PerformanceFeatureSet{
		URL:            "https://example.com",
		AnalysisSource: model.SourceUnknown,
		APIError:       "audit request failed",
	}
	out := Performance(f, f.URL)

	for _, line := range []string{
		"Performance Score: N/A",
		"Largest Contentful Paint (LCP): N/A - N/A",
		"Total Page Size: N/A",
		"API Error: audit request failed",
		"Primary Source: unknown",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q", line)
		}
	}
}

// TestPerformancePopulated tests measured values and the render-blocking
// overflow suffix.
func TestPerformancePopulated(t *testing.T) {
	t.Parallel()

	f := &model.PerformanceFeatureSet{
		URL:              "https://example.com",
		AnalysisSource:   model.SourceAPI,
		PerformanceScore: model.IntPtr(87),
		LCPValue:         model.Float64Ptr(2100.4),
		LCPScore:         model.Float64Ptr(95),
		TotalPageSize:    model.IntPtr(2 * 1024 * 1024),
		TotalRequests:    model.IntPtr(48),
		RenderBlockingResources: []string{
			"a.css", "b.css", "c.js", "d.js", "e.css", "f.js", "g.css",
		},
		Opportunities: []model.Opportunity{
			{Title: "Eliminate render-blocking resources", SavingsMs: model.Float64Ptr(350)},
		},
	}
	out := Performance(f, f.URL)

	for _, line := range []string{
		"Performance Score: 87/100",
		"Largest Contentful Paint (LCP): 2100ms - Good (< 2.5s)",
		"Total Page Size: 2.00 MB",
		"Total Requests: 48",
		"  • ... and 2 more",
		"  • Eliminate render-blocking resources: 350ms",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q", line)
		}
	}
}

// TestVisual tests the per-mode metadata lines and the audit block.
func TestVisual(t *testing.T) {
	t.Parallel()

	t.Run("url mode with audit", func(t *testing.T) {
		t.Parallel()

		f := &model.VisualFeatureSet{
			Mode:   model.VisualModeURL,
			Source: "https://example.com",
			Screenshots: map[string][]byte{
				"desktop": []byte("abcd"),
				"mobile":  []byte("ef"),
			},
			Viewports: []string{"desktop", "mobile"},
			Accessibility: &model.AccessibilityAudit{
				Score: 85,
				Issues: []model.AccessibilityIssue{
					{Type: "missing_alt_text", SeverityText: "serious", Count: 2, Description: "2 images missing alt text"},
				},
				Summary: model.AccessibilitySummary{Serious: 1, Total: 1},
			},
		}
		out := Visual(f)

		for _, line := range []string{
			"Analysis Mode: URL",
			"Viewports Captured: desktop, mobile",
			"Overall Accessibility Score: 85/100",
			"[SERIOUS] 2 images missing alt text",
			"Number of Viewports: 2",
			"approximately 4 bytes",
		} {
			if !strings.Contains(out, line) {
				t.Errorf("output missing %q", line)
			}
		}
	})

	t.Run("single screenshot without audit", func(t *testing.T) {
		t.Parallel()

		f := &model.VisualFeatureSet{
			Mode:        model.VisualModeScreenshot,
			Source:      "provided_screenshot",
			Screenshots: map[string][]byte{"default": []byte("img")},
			Viewports:   []string{"default"},
		}
		out := Visual(f)

		if !strings.Contains(out, "Analysis Mode: SCREENSHOT") {
			t.Error("mode line missing")
		}
		if !strings.Contains(out, "Viewport: default") {
			t.Error("viewport line missing")
		}
		if strings.Contains(out, "ACCESSIBILITY AUDIT RESULTS") {
			t.Error("audit block should be absent without an audit")
		}
	})
}
