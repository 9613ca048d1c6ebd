package visual

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/sitelens/sitelens/internal/model"
)

// Audit runs five deterministic accessibility checks over the document
// markup and derives a 0-100 score.
//
// The checks are rule-based DOM inspections, not a full WCAG engine:
//
//  1. Images missing non-empty alt text (Serious)
//  2. Links with neither text content nor an aria-label (Serious)
//  3. Non-hidden inputs lacking both a bound label and an aria-label (Critical)
//  4. Missing document-level lang attribute (Serious)
//  5. Heading-hierarchy problems: no H1, multiple H1, or a skipped level,
//     one finding per distinct problem (Moderate)
//
// Score = max(0, 100 - 15*critical - 10*serious - 5*moderate) where the
// counts are findings per severity, not affected elements.
func Audit(markup string) (*model.AccessibilityAudit, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup for audit: %w", err)
	}

	state := collectAuditState(root)

	var issues []model.AccessibilityIssue
	addIssue := func(issueType string, severity model.Severity, count int, description string) {
		issues = append(issues, model.AccessibilityIssue{
			Type:         issueType,
			Severity:     severity,
			SeverityText: strings.ToLower(severity.String()),
			Count:        count,
			Description:  description,
		})
	}

	if state.imagesWithoutAlt > 0 {
		addIssue("missing_alt_text", model.SeveritySerious, state.imagesWithoutAlt,
			fmt.Sprintf("%d images missing alt text", state.imagesWithoutAlt))
	}
	if state.emptyLinks > 0 {
		addIssue("empty_links", model.SeveritySerious, state.emptyLinks,
			fmt.Sprintf("%d links without accessible names", state.emptyLinks))
	}
	if state.unlabeledInputs > 0 {
		addIssue("unlabeled_inputs", model.SeverityCritical, state.unlabeledInputs,
			fmt.Sprintf("%d form inputs without labels", state.unlabeledInputs))
	}
	if !state.hasLang {
		addIssue("missing_lang", model.SeveritySerious, 1,
			"HTML element missing lang attribute")
	}
	for _, problem := range headingProblems(state.headingLevels) {
		addIssue("heading_hierarchy", model.SeverityModerate, 1, problem)
	}

	summary := model.AccessibilitySummary{}
	for _, issue := range issues {
		switch issue.Severity {
		case model.SeverityCritical:
			summary.Critical++
		case model.SeveritySerious:
			summary.Serious++
		case model.SeverityModerate:
			summary.Moderate++
		}
	}
	summary.Total = len(issues)

	score := 100 -
		summary.Critical*model.SeverityCritical.Weight() -
		summary.Serious*model.SeveritySerious.Weight() -
		summary.Moderate*model.SeverityModerate.Weight()
	if score < 0 {
		score = 0
	}

	return &model.AccessibilityAudit{
		Score:   score,
		Issues:  issues,
		Summary: summary,
	}, nil
}

// auditState holds the element counts a single DOM walk collects.
type auditState struct {
	imagesWithoutAlt int
	emptyLinks       int
	unlabeledInputs  int
	hasLang          bool

	// headingLevels lists heading levels (1-6) in document order.
	headingLevels []int
}

func collectAuditState(root *html.Node) *auditState {
	state := &auditState{}

	// labelTargets collects label[for] values; inputs are checked against
	// it after the walk since a label may follow its input.
	labelTargets := make(map[string]bool)
	type inputInfo struct {
		id        string
		ariaLabel string
	}
	var inputs []inputInfo

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				// Attribute presence is the check, so lang="" counts
				// as declared.
				if hasAttr(n, "lang") {
					state.hasLang = true
				}

			case "img":
				if strings.TrimSpace(getAttr(n, "alt")) == "" {
					state.imagesWithoutAlt++
				}

			case "a":
				if strings.TrimSpace(nodeText(n)) == "" && getAttr(n, "aria-label") == "" {
					state.emptyLinks++
				}

			case "input":
				if !strings.EqualFold(getAttr(n, "type"), "hidden") {
					inputs = append(inputs, inputInfo{
						id:        getAttr(n, "id"),
						ariaLabel: getAttr(n, "aria-label"),
					})
				}

			case "label":
				if target := getAttr(n, "for"); target != "" {
					labelTargets[target] = true
				}

			case "h1", "h2", "h3", "h4", "h5", "h6":
				state.headingLevels = append(state.headingLevels, int(n.Data[1]-'0'))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for _, in := range inputs {
		hasLabel := in.id != "" && labelTargets[in.id]
		if !hasLabel && in.ariaLabel == "" {
			state.unlabeledInputs++
		}
	}

	return state
}

// headingProblems reports hierarchy problems in document order: H1
// presence first, then the first skipped level only.
func headingProblems(levels []int) []string {
	var problems []string

	h1Count := 0
	for _, l := range levels {
		if l == 1 {
			h1Count++
		}
	}
	if h1Count == 0 {
		problems = append(problems, "No H1 heading found")
	}
	if h1Count > 1 {
		problems = append(problems, fmt.Sprintf("Multiple H1 headings (%d)", h1Count))
	}

	for i := 1; i < len(levels); i++ {
		if levels[i]-levels[i-1] > 1 {
			problems = append(problems, fmt.Sprintf("Skipped heading level from H%d to H%d", levels[i-1], levels[i]))
			break
		}
	}

	return problems
}

// nodeText returns the concatenated text of a node's subtree.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// hasAttr reports whether the attribute is declared, regardless of value.
func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}
