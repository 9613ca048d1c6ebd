package model

// VisualMode identifies how the visual feature set was produced.
type VisualMode string

const (
	// VisualModeURL means screenshots were captured live from a URL.
	VisualModeURL VisualMode = "url"

	// VisualModeScreenshot means a single provided screenshot was loaded.
	VisualModeScreenshot VisualMode = "screenshot"

	// VisualModeScreenshotSet means a set of provided screenshots was loaded.
	VisualModeScreenshotSet VisualMode = "screenshots"
)

// AccessibilityIssue is one severity-classified finding from the rule-based
// accessibility audit.
type AccessibilityIssue struct {
	// Type is the machine-readable issue identifier
	// (e.g. "missing_alt_text", "unlabeled_inputs").
	Type string `json:"type"`

	// Severity classifies the impact of the issue.
	Severity Severity `json:"severity"`

	// SeverityText is the string form of Severity, for serialization.
	SeverityText string `json:"severity_text"`

	// Count is the number of elements affected.
	Count int `json:"count"`

	// Description is a human-readable summary including the count.
	Description string `json:"description"`
}

// AccessibilitySummary counts issues per severity.
type AccessibilitySummary struct {
	Critical int `json:"critical"`
	Serious  int `json:"serious"`
	Moderate int `json:"moderate"`
	Total    int `json:"total"`
}

// AccessibilityAudit is the result of the rule-based DOM inspection.
// Score starts at 100 and subtracts Severity.Weight per finding, floored
// at 0; it is monotonically non-increasing in the issue counts.
type AccessibilityAudit struct {
	Score   int                  `json:"score"`
	Issues  []AccessibilityIssue `json:"issues,omitempty"`
	Summary AccessibilitySummary `json:"summary"`
}

// VisualFeatureSet holds captured or loaded screenshots and, in URL mode,
// the accessibility audit.
type VisualFeatureSet struct {
	// Mode records how the set was produced.
	Mode VisualMode `json:"mode"`

	// Source is the URL or a description of the provided screenshots.
	Source string `json:"source,omitempty"`

	// Screenshots maps viewport names to raw PNG bytes. A viewport whose
	// capture or load failed is absent from the map; the failure never
	// removes sibling viewports.
	Screenshots map[string][]byte `json:"-"`

	// Viewports lists the viewport names present in Screenshots, in the
	// canonical capture order (desktop, tablet, mobile) for URL mode and
	// sorted name order for provided sets.
	Viewports []string `json:"viewports,omitempty"`

	// Accessibility is the audit result. Only populated in URL mode;
	// nil means the audit did not run or failed.
	Accessibility *AccessibilityAudit `json:"accessibility,omitempty"`
}
