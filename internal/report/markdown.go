package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/sitelens/sitelens/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for documentation and
// sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CombinedReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeBranchOverview(md, report)

	for _, br := range report.Branches {
		w.writeBranch(md, &br)
	}

	if report.Summary != "" {
		md.H2("Summary")
		md.PlainText("")
		md.PlainText(report.Summary)
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CombinedReport) {
	md.H1("Website Analysis Report")
	md.PlainText("")

	target := report.Input.URL
	if target == "" {
		target = string(report.Input.Kind)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + target + "`"},
			{"Input Kind", string(report.Classification.Kind)},
			{"Classification Confidence", string(report.Classification.Confidence)},
			{"Analyzed At", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeBranchOverview(md *markdown.Markdown, report *model.CombinedReport) {
	md.H2("Branch Results")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Branches))
	for _, br := range report.Branches {
		detail := ""
		switch br.Status {
		case model.BranchFailed:
			detail = br.Error
		case model.BranchSkipped:
			detail = model.SkippedPlaceholder
		}
		rows = append(rows, []string{branchTitle(br.Name), w.statusBadge(br.Status), detail})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Branch", "Status", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) statusBadge(status model.BranchStatus) string {
	switch status {
	case model.BranchRan:
		return "✅ Ran"
	case model.BranchSkipped:
		return "⏭️ Skipped"
	case model.BranchFailed:
		return "❌ Failed"
	default:
		return string(status)
	}
}

func (w *MarkdownWriter) writeBranch(md *markdown.Markdown, br *model.BranchResult) {
	if br.Status != model.BranchRan {
		return
	}

	md.H2(branchTitle(br.Name))
	md.PlainText("")

	switch {
	case br.Content != nil:
		w.writeContent(md, br.Content)
	case br.Performance != nil:
		w.writePerformance(md, br.Performance)
	case br.Visual != nil:
		w.writeVisual(md, br.Visual)
	}
}

func (w *MarkdownWriter) writeContent(md *markdown.Markdown, f *model.ContentFeatureSet) {
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Title", f.Title},
			{"Word Count", strconv.Itoa(f.WordCount)},
			{"Content Depth Score", fmt.Sprintf("%d/100", f.ContentDepthScore)},
			{"Readability", f.ReadabilityScore},
			{"Internal Links", strconv.Itoa(f.InternalLinks)},
			{"External Links", strconv.Itoa(f.ExternalLinks)},
			{"Images Without Alt", strconv.Itoa(f.ImagesWithoutAlt)},
			{"Has JSON-LD", strconv.FormatBool(f.HasJSONLD)},
		},
	})
	md.PlainText("")

	if len(f.TopKeywords) > 0 {
		md.H3("Top Keywords")
		md.PlainText("")

		rows := make([][]string, 0, len(f.TopKeywords))
		for _, kw := range f.TopKeywords {
			rows = append(rows, []string{
				kw.Keyword,
				strconv.Itoa(kw.Count),
				fmt.Sprintf("%.2f%%", kw.Density),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Keyword", "Count", "Density"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writePerformance(md *markdown.Markdown, f *model.PerformanceFeatureSet) {
	score := func(v *int) string {
		if v == nil {
			return "N/A"
		}
		return fmt.Sprintf("%d/100", *v)
	}
	ms := func(v *float64) string {
		if v == nil {
			return "N/A"
		}
		return fmt.Sprintf("%dms", int(*v))
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Analysis Source", string(f.AnalysisSource)},
			{"Performance Score", score(f.PerformanceScore)},
			{"Accessibility Score", score(f.AccessibilityScore)},
			{"Best Practices Score", score(f.BestPracticesScore)},
			{"SEO Score", score(f.SEOScore)},
			{"LCP", ms(f.LCPValue)},
			{"FID (TBT proxy)", ms(f.FIDValue)},
			{"FCP", ms(f.FCPValue)},
			{"Response Time", ms(f.ResponseTime)},
			{"Fallback Used", strconv.FormatBool(f.FallbackUsed)},
		},
	})
	md.PlainText("")

	if f.APIError != "" {
		md.Warningf("Remote audit failed: %s", f.APIError)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeVisual(md *markdown.Markdown, f *model.VisualFeatureSet) {
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Mode", string(f.Mode)},
			{"Viewports", strings.Join(f.Viewports, ", ")},
		},
	})
	md.PlainText("")

	a := f.Accessibility
	if a == nil {
		return
	}

	md.H3("Accessibility Audit")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Critical", strconv.Itoa(a.Summary.Critical)},
			{"🟠 Serious", strconv.Itoa(a.Summary.Serious)},
			{"🟡 Moderate", strconv.Itoa(a.Summary.Moderate)},
			{"**Total**", "**" + strconv.Itoa(a.Summary.Total) + "**"},
		},
	})
	md.PlainText("")

	if a.Summary.Total > 0 {
		w.writeSeverityChart(md, a)
	}

	switch {
	case a.Summary.Critical > 0:
		md.Cautionf("Accessibility score %d/100: %d critical issue(s) require immediate attention.",
			a.Score, a.Summary.Critical)
	case a.Summary.Serious > 0:
		md.Warningf("Accessibility score %d/100: %d serious issue(s) should be addressed.",
			a.Score, a.Summary.Serious)
	case a.Summary.Total > 0:
		md.Notef("Accessibility score %d/100 with moderate issues only.", a.Score)
	default:
		md.Tip(fmt.Sprintf("Accessibility score %d/100: no issues detected.", a.Score))
	}
	md.PlainText("")

	if len(a.Issues) > 0 {
		rows := make([][]string, 0, len(a.Issues))
		for _, issue := range a.Issues {
			rows = append(rows, []string{issue.SeverityText, strconv.Itoa(issue.Count), issue.Description})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Severity", "Count", "Description"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeSeverityChart embeds a mermaid pie chart of the issue severity
// distribution.
func (w *MarkdownWriter) writeSeverityChart(md *markdown.Markdown, a *model.AccessibilityAudit) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Severity Distribution"),
		piechart.WithShowData(true),
	)

	if a.Summary.Critical > 0 {
		chart.LabelAndIntValue("Critical", uint64(a.Summary.Critical))
	}
	if a.Summary.Serious > 0 {
		chart.LabelAndIntValue("Serious", uint64(a.Summary.Serious))
	}
	if a.Summary.Moderate > 0 {
		chart.LabelAndIntValue("Moderate", uint64(a.Summary.Moderate))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
