package model

import "testing"

// TestAnalysisInputHasURL tests the structural URL predicate.
func TestAnalysisInputHasURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input AnalysisInput
		want  bool
	}{
		{"http url", NewURLInput("http://example.com"), true},
		{"https url", NewURLInput("https://example.com/page"), true},
		{"html input", NewHTMLInput("<html></html>"), false},
		{"screenshot input", NewScreenshotInput("shot.png"), false},
		{"scheme-less url", NewURLInput("example.com"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.input.HasURL(); got != tt.want {
				t.Errorf("HasURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestAnalysisInputHasScreenshots tests the screenshot predicate for both
// single and set variants.
func TestAnalysisInputHasScreenshots(t *testing.T) {
	t.Parallel()

	single := NewScreenshotInput("a.png")
	if !single.HasScreenshots() {
		t.Error("single screenshot input should have screenshots")
	}

	set := NewScreenshotSetInput(map[string]string{"desktop": "d.png"})
	if !set.HasScreenshots() {
		t.Error("screenshot set input should have screenshots")
	}

	if NewHTMLInput("<p>hi</p>").HasScreenshots() {
		t.Error("html input should not have screenshots")
	}
}

// TestLooksLikeHTML tests the tag pattern used by the classification fallback.
func TestLooksLikeHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"full document", "<html><body></body></html>", true},
		{"fragment", "some text with a <div class=\"x\"> inside", true},
		{"doctype", "<!DOCTYPE html>", true},
		{"plain text", "just words, no markup", false},
		{"less-than only", "1 < 2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := LooksLikeHTML(tt.in); got != tt.want {
				t.Errorf("LooksLikeHTML(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
