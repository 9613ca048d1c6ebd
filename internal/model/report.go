package model

import "time"

// BranchStatus is the terminal state of one extraction branch.
type BranchStatus string

const (
	// BranchRan means the extractor executed and produced a feature set.
	BranchRan BranchStatus = "ran"

	// BranchSkipped means the eligibility predicate rejected the input.
	// The branch still yields a placeholder so synthesis has a uniform shape.
	BranchSkipped BranchStatus = "skipped"

	// BranchFailed means the extractor errored. The failure is contained
	// at the branch boundary and never aborts sibling branches.
	BranchFailed BranchStatus = "failed"
)

// Branch name constants. CombinedReport always lists branches in this
// order regardless of completion order.
const (
	BranchSEO         = "seo"
	BranchPerformance = "performance"
	BranchVisual      = "visual"
)

// SkippedPlaceholder is the formatted text of a branch that did not run.
const SkippedPlaceholder = "Not analyzed."

// BranchResult is the terminal outcome of one branch. Exactly one is
// produced per branch per run, whatever happened.
type BranchResult struct {
	// Name is one of the Branch* constants.
	Name string `json:"name"`

	// Status is the terminal state.
	Status BranchStatus `json:"status"`

	// FormattedText is the formatter output for Ran branches, the
	// SkippedPlaceholder for Skipped ones, and an error description for
	// Failed ones.
	FormattedText string `json:"formatted_text"`

	// Error is the error message for Failed branches.
	Error string `json:"error,omitempty"`

	// Content holds the raw feature set when Name is BranchSEO and the
	// branch ran.
	Content *ContentFeatureSet `json:"content,omitempty"`

	// Performance holds the raw feature set when Name is BranchPerformance
	// and the branch ran.
	Performance *PerformanceFeatureSet `json:"performance,omitempty"`

	// Visual holds the raw feature set when Name is BranchVisual and the
	// branch ran.
	Visual *VisualFeatureSet `json:"visual,omitempty"`
}

// CombinedReport is the only artifact crossing into the synthesis boundary.
// Branches are always ordered SEO, Performance, Visual.
type CombinedReport struct {
	// Input is the original analysis input.
	Input AnalysisInput `json:"input"`

	// Classification is the classifier verdict (or fallback) for the input.
	Classification ClassificationResult `json:"classification"`

	// AnalyzedAt is when the analysis started.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Branches holds one result per branch in canonical order.
	Branches []BranchResult `json:"branches"`

	// Summary is the synthesis output, when a synthesis collaborator is
	// configured. Empty otherwise.
	Summary string `json:"summary,omitempty"`
}

// Branch returns the result with the given name, or nil if absent.
func (r *CombinedReport) Branch(name string) *BranchResult {
	for i := range r.Branches {
		if r.Branches[i].Name == name {
			return &r.Branches[i]
		}
	}
	return nil
}

// AllSkipped reports whether no branch ran or failed. This is a valid,
// if unhelpful, terminal state, not an error.
func (r *CombinedReport) AllSkipped() bool {
	for _, b := range r.Branches {
		if b.Status != BranchSkipped {
			return false
		}
	}
	return true
}
