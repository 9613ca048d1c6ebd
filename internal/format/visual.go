package format

import (
	"fmt"
	"strings"

	"github.com/sitelens/sitelens/internal/model"
)

// Visual renders a visual feature set into the UI/UX analysis block:
// capture metadata, the accessibility audit when present, and an inventory
// of the screenshots available for visual review.
func Visual(f *model.VisualFeatureSet) string {
	var b strings.Builder
	w := func(format string, args ...any) { fmt.Fprintf(&b, format+"\n", args...) }

	w("=== UI/UX ANALYSIS REQUEST ===")
	w("")
	w("Analysis Mode: %s", strings.ToUpper(string(f.Mode)))
	w("Source: %s", orNA(f.Source))

	switch f.Mode {
	case model.VisualModeURL:
		w("Viewports Captured: %s", strings.Join(f.Viewports, ", "))
	case model.VisualModeScreenshotSet:
		w("Viewports Provided: %s", strings.Join(f.Viewports, ", "))
	case model.VisualModeScreenshot:
		viewport := "default"
		if len(f.Viewports) > 0 {
			viewport = f.Viewports[0]
		}
		w("Viewport: %s", viewport)
	}

	if a := f.Accessibility; a != nil {
		w("")
		w("=== ACCESSIBILITY AUDIT RESULTS ===")
		w("")
		w("Overall Accessibility Score: %d/100", a.Score)
		w("")
		w("Issue Summary:")
		w("  Critical Issues: %d", a.Summary.Critical)
		w("  Serious Issues: %d", a.Summary.Serious)
		w("  Moderate Issues: %d", a.Summary.Moderate)
		w("  Total Issues: %d", a.Summary.Total)

		if len(a.Issues) > 0 {
			w("")
			w("Detailed Issues:")
			for _, issue := range a.Issues {
				w("  [%s] %s", strings.ToUpper(issue.SeverityText), issue.Description)
			}
		}
	}

	firstSize := 0
	if len(f.Viewports) > 0 {
		firstSize = len(f.Screenshots[f.Viewports[0]])
	}

	w("")
	w("=== SCREENSHOTS AVAILABLE ===")
	w("")
	w("Number of Viewports: %d", len(f.Screenshots))
	w("Viewports: %s", strings.Join(f.Viewports, ", "))
	w("")
	w("Note: Screenshots have been captured and will be analyzed visually.")
	w("Each screenshot is approximately %d bytes.", firstSize)
	w("")
	w("=== ANALYSIS INSTRUCTIONS ===")
	w("")
	w("Provide a comprehensive UI/UX evaluation based on the screenshots and accessibility data.")
	w("Analyze visual design, user experience, accessibility compliance, and responsive design quality.")
	w("Provide specific, actionable recommendations prioritized by impact.")

	return b.String()
}
