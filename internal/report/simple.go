package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sitelens/sitelens/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose includes the full per-branch formatted text instead of the
	// status summary only.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose includes the full formatted feature blocks per branch.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) { w.verbose = verbose }
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.CombinedReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeBranches(&sb, report)
	w.writeSummary(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CombinedReport) {
	rule := strings.Repeat("=", 70)
	sb.WriteString("\n")
	sb.WriteString(rule)
	sb.WriteString("\n")
	sb.WriteString("                      WEBSITE ANALYSIS REPORT\n")
	sb.WriteString(rule)
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Input Kind:     %s\n", report.Classification.Kind)
	fmt.Fprintf(sb, "Confidence:     %s\n", report.Classification.Confidence)
	if report.Input.URL != "" {
		fmt.Fprintf(sb, "Target:         %s\n", report.Input.URL)
	}
	fmt.Fprintf(sb, "Analyzed At:    %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeBranches(sb *strings.Builder, report *model.CombinedReport) {
	rule := strings.Repeat("-", 70)

	for _, br := range report.Branches {
		fmt.Fprintf(sb, "%s\n[%s] %s\n%s\n", rule, statusLabel(br.Status), branchTitle(br.Name), rule)

		switch {
		case br.Status == model.BranchFailed:
			fmt.Fprintf(sb, "Error: %s\n", br.Error)
		case br.Status == model.BranchSkipped:
			sb.WriteString(model.SkippedPlaceholder + "\n")
		case w.verbose:
			sb.WriteString(br.FormattedText)
			sb.WriteString("\n")
		default:
			sb.WriteString(branchDigest(&br))
		}
		sb.WriteString("\n")
	}
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.CombinedReport) {
	if report.Summary == "" {
		return
	}
	rule := strings.Repeat("=", 70)
	sb.WriteString(rule)
	sb.WriteString("\nSUMMARY\n")
	sb.WriteString(rule)
	sb.WriteString("\n")
	sb.WriteString(report.Summary)
	sb.WriteString("\n")
}

// branchDigest renders the one-screen overview of a completed branch.
func branchDigest(br *model.BranchResult) string {
	var sb strings.Builder

	switch {
	case br.Content != nil:
		f := br.Content
		fmt.Fprintf(&sb, "Title: %s\n", f.Title)
		fmt.Fprintf(&sb, "Words: %d  Links: %d  Images: %d\n", f.WordCount, f.TotalLinks, f.TotalImages)
		fmt.Fprintf(&sb, "Content Depth Score: %d/100\n", f.ContentDepthScore)

	case br.Performance != nil:
		f := br.Performance
		fmt.Fprintf(&sb, "Source: %s  Fallback Used: %t\n", f.AnalysisSource, f.FallbackUsed)
		if f.PerformanceScore != nil {
			fmt.Fprintf(&sb, "Performance Score: %d/100\n", *f.PerformanceScore)
		}
		if f.APIError != "" {
			fmt.Fprintf(&sb, "API Error: %s\n", f.APIError)
		}

	case br.Visual != nil:
		f := br.Visual
		fmt.Fprintf(&sb, "Mode: %s  Viewports: %s\n", f.Mode, strings.Join(f.Viewports, ", "))
		if f.Accessibility != nil {
			fmt.Fprintf(&sb, "Accessibility Score: %d/100 (%d issues)\n",
				f.Accessibility.Score, f.Accessibility.Summary.Total)
		}
	}

	return sb.String()
}

func branchTitle(name string) string {
	switch name {
	case model.BranchSEO:
		return "SEO & Content Analysis"
	case model.BranchPerformance:
		return "Performance Analysis"
	case model.BranchVisual:
		return "UI/UX & Accessibility Analysis"
	default:
		return name
	}
}

func statusLabel(status model.BranchStatus) string {
	switch status {
	case model.BranchRan:
		return "OK"
	case model.BranchSkipped:
		return "SKIP"
	case model.BranchFailed:
		return "FAIL"
	default:
		return string(status)
	}
}
