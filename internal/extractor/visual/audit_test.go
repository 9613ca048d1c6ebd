package visual

import (
	"strings"
	"testing"

	"github.com/sitelens/sitelens/internal/model"
)

func audit(t *testing.T, markup string) *model.AccessibilityAudit {
	t.Helper()

	a, err := Audit(markup)
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	return a
}

func findIssue(a *model.AccessibilityAudit, issueType string) *model.AccessibilityIssue {
	for i := range a.Issues {
		if a.Issues[i].Type == issueType {
			return &a.Issues[i]
		}
	}
	return nil
}

// TestAuditCleanDocument tests a document with no findings.
func TestAuditCleanDocument(t *testing.T) {
	t.Parallel()

	a := audit(t, `<html lang="en"><body>
		<h1>Title</h1><h2>Section</h2>
		<img src="x.png" alt="described">
		<a href="/about">About us</a>
		<label for="q">Search</label><input id="q" type="text">
	</body></html>`)

	if a.Score != 100 {
		t.Errorf("Score = %d, want 100", a.Score)
	}
	if a.Summary.Total != 0 {
		t.Errorf("Total = %d issues, want 0: %+v", a.Summary.Total, a.Issues)
	}
}

// TestAuditMissingAltText tests the image check and element counting.
func TestAuditMissingAltText(t *testing.T) {
	t.Parallel()

	a := audit(t, `<html lang="en"><body><h1>t</h1>
		<img src="a.png"><img src="b.png" alt=" "><img src="c.png" alt="fine">
	</body></html>`)

	issue := findIssue(a, "missing_alt_text")
	if issue == nil {
		t.Fatal("missing_alt_text issue not found")
	}
	if issue.Count != 2 {
		t.Errorf("Count = %d, want 2", issue.Count)
	}
	if issue.Severity != model.SeveritySerious {
		t.Errorf("Severity = %v, want serious", issue.Severity)
	}
	if issue.Description != "2 images missing alt text" {
		t.Errorf("Description = %q", issue.Description)
	}
	// One serious finding deducts 10
	if a.Score != 90 {
		t.Errorf("Score = %d, want 90", a.Score)
	}
}

// TestAuditEmptyLinks tests the link accessible-name check.
func TestAuditEmptyLinks(t *testing.T) {
	t.Parallel()

	a := audit(t, `<html lang="en"><body><h1>t</h1>
		<a href="/x"></a>
		<a href="/y" aria-label="labeled icon"></a>
		<a href="/z">named</a>
	</body></html>`)

	issue := findIssue(a, "empty_links")
	if issue == nil {
		t.Fatal("empty_links issue not found")
	}
	if issue.Count != 1 {
		t.Errorf("Count = %d, want 1", issue.Count)
	}
}

// TestAuditUnlabeledInputs tests the form input check, including labels
// that appear after their input and hidden inputs.
func TestAuditUnlabeledInputs(t *testing.T) {
	t.Parallel()

	a := audit(t, `<html lang="en"><body><h1>t</h1>
		<input id="early" type="text">
		<label for="early">Late label</label>
		<input type="text">
		<input type="hidden" name="csrf">
		<input type="email" aria-label="Email">
	</body></html>`)

	issue := findIssue(a, "unlabeled_inputs")
	if issue == nil {
		t.Fatal("unlabeled_inputs issue not found")
	}
	if issue.Count != 1 {
		t.Errorf("Count = %d, want 1 (late label and aria-label must pass, hidden skipped)", issue.Count)
	}
	if issue.Severity != model.SeverityCritical {
		t.Errorf("Severity = %v, want critical", issue.Severity)
	}
}

// TestAuditMissingLang tests the document language check.
func TestAuditMissingLang(t *testing.T) {
	t.Parallel()

	a := audit(t, `<html><body><h1>t</h1></body></html>`)

	if findIssue(a, "missing_lang") == nil {
		t.Error("missing_lang issue not found")
	}

	withLang := audit(t, `<html lang="ja"><body><h1>t</h1></body></html>`)
	if findIssue(withLang, "missing_lang") != nil {
		t.Error("missing_lang reported despite lang attribute")
	}

	emptyLang := audit(t, `<html lang=""><body><h1>t</h1></body></html>`)
	if findIssue(emptyLang, "missing_lang") != nil {
		t.Error("missing_lang reported for an empty but declared lang attribute")
	}
}

// TestAuditHeadingHierarchy tests H1 presence and skipped levels, one
// finding per distinct problem.
func TestAuditHeadingHierarchy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		markup   string
		wantDesc []string
	}{
		{
			name:     "no h1",
			markup:   `<html lang="en"><body><h2>only</h2></body></html>`,
			wantDesc: []string{"No H1 heading found"},
		},
		{
			name:     "multiple h1",
			markup:   `<html lang="en"><body><h1>a</h1><h1>b</h1></body></html>`,
			wantDesc: []string{"Multiple H1 headings (2)"},
		},
		{
			name:     "skipped level",
			markup:   `<html lang="en"><body><h1>a</h1><h3>skipped</h3></body></html>`,
			wantDesc: []string{"Skipped heading level from H1 to H3"},
		},
		{
			name:     "only first skip reported",
			markup:   `<html lang="en"><body><h1>a</h1><h3>x</h3><h1>b</h1><h5>y</h5></body></html>`,
			wantDesc: []string{"Multiple H1 headings (2)", "Skipped heading level from H1 to H3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := audit(t, tt.markup)

			var got []string
			for _, issue := range a.Issues {
				if issue.Type == "heading_hierarchy" {
					got = append(got, issue.Description)
					if issue.Severity != model.SeverityModerate {
						t.Errorf("Severity = %v, want moderate", issue.Severity)
					}
				}
			}

			if len(got) != len(tt.wantDesc) {
				t.Fatalf("heading issues = %v, want %v", got, tt.wantDesc)
			}
			for i := range got {
				if got[i] != tt.wantDesc[i] {
					t.Errorf("issue[%d] = %q, want %q", i, got[i], tt.wantDesc[i])
				}
			}
		})
	}
}

// TestAuditScoreMonotonicAndFloored tests that the score never increases
// with more issues and never drops below zero.
func TestAuditScoreMonotonicAndFloored(t *testing.T) {
	t.Parallel()

	// Each added block introduces more severity findings.
	clean := `<html lang="en"><body><h1>t</h1></body></html>`
	oneIssue := `<html lang="en"><body><h1>t</h1><img src="a.png"></body></html>`
	manyIssues := `<html><body>
		<h2>no h1</h2><h5>skip</h5>
		<img src="a.png">
		<a href="/x"></a>
		<input type="text">
	</body></html>`

	scores := []int{
		audit(t, clean).Score,
		audit(t, oneIssue).Score,
		audit(t, manyIssues).Score,
	}

	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[i-1] {
			t.Errorf("score increased with more issues: %v", scores)
		}
	}
	for _, s := range scores {
		if s < 0 || s > 100 {
			t.Errorf("score %d outside [0,100]", s)
		}
	}

	// One finding of every kind at once; deductions sum per finding, not
	// per affected element.
	var b strings.Builder
	b.WriteString(`<html><body><h2>x</h2><h6>y</h6><img src="a"><a href="/"></a><input type="text">`)
	b.WriteString(`</body></html>`)
	floor := audit(t, b.String())
	// critical(1)*15 + serious(3)*10 + moderate(2)*5 = 55 deducted
	if floor.Score != 45 {
		t.Errorf("Score = %d, want 45", floor.Score)
	}
}
