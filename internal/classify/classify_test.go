package classify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/sitelens/sitelens/internal/model"
)

// stubClassifier returns a fixed result or error.
type stubClassifier struct {
	result model.ClassificationResult
	err    error
}

func (s *stubClassifier) Classify(_ context.Context, _ string) (model.ClassificationResult, error) {
	return s.result, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestParseRaw tests structural input parsing for all variants.
func TestParseRaw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		wantKind model.InputKind
		wantErr  bool
	}{
		{"http url", "http://example.com", model.InputURL, false},
		{"https url", "https://example.com/page", model.InputURL, false},
		{"html fragment", "<html><body>hi</body></html>", model.InputHTML, false},
		{"plain text is carried as markup", "analyze my website please", model.InputHTML, false},
		{"empty string", "", model.InputUnknown, false},
		{"json url", `{"url": "https://example.com"}`, model.InputURL, false},
		{"json html", `{"html": "<p>hi</p>"}`, model.InputHTML, false},
		{"json screenshot", `{"screenshot": "shot.png"}`, model.InputScreenshot, false},
		{"json screenshot set", `{"screenshots": {"desktop": "d.png", "mobile": "m.png"}}`, model.InputScreenshotSet, false},
		{"json empty object", `{}`, model.InputUnknown, false},
		{"malformed json", `{"screenshots": [broken`, model.InputUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRaw(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRaw() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.wantKind)
			}
		})
	}
}

// TestParseRawPreservesURL tests that a URL field survives alongside
// screenshot and HTML variants.
func TestParseRawPreservesURL(t *testing.T) {
	t.Parallel()

	got, err := ParseRaw(`{"url": "https://example.com", "screenshots": {"desktop": "d.png"}}`)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != model.InputScreenshotSet {
		t.Errorf("Kind = %q, want screenshot_set", got.Kind)
	}
	if !got.HasURL() {
		t.Error("URL field should be preserved on screenshot-set input")
	}
}

// TestRuleBasedConfidence tests confidence assignment per matched rule.
func TestRuleBasedConfidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		kind model.InputKind
		conf model.Confidence
	}{
		{"url is high", "https://example.com", model.InputURL, model.ConfidenceHigh},
		{"tag-shaped html is medium", "<div>x</div>", model.InputHTML, model.ConfidenceMedium},
		{"prose is html at low confidence", "no structure here", model.InputHTML, model.ConfidenceLow},
		{"empty input is unknown", "", model.InputUnknown, model.ConfidenceLow},
		{"malformed json falls back to string rules", `{"html": <broken`, model.InputHTML, model.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := RuleBased(tt.in)
			if got.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.kind)
			}
			if got.Confidence != tt.conf {
				t.Errorf("Confidence = %q, want %q", got.Confidence, tt.conf)
			}
		})
	}
}

// TestStructural tests shape-only input derivation.
func TestStructural(t *testing.T) {
	t.Parallel()

	t.Run("prose keeps its text as markup", func(t *testing.T) {
		t.Parallel()

		in := Structural("my landing page copy")
		if in.Kind != model.InputHTML {
			t.Errorf("Kind = %q, want html", in.Kind)
		}
		if in.Markup != "my landing page copy" {
			t.Errorf("Markup = %q, want raw text preserved", in.Markup)
		}
	})

	t.Run("malformed object degrades to string rules", func(t *testing.T) {
		t.Parallel()

		in := Structural(`{"screenshots": [broken`)
		if in.Kind != model.InputHTML {
			t.Errorf("Kind = %q, want html from string rules", in.Kind)
		}
	})
}

// TestResolveFallsBackOnClassifierError tests that a classifier failure is
// recovered by the rules, never surfaced.
func TestResolveFallsBackOnClassifierError(t *testing.T) {
	t.Parallel()

	c := &stubClassifier{err: errors.New("capability offline")}
	got := Resolve(context.Background(), c, "https://example.com", discardLogger())

	if got.Kind != model.InputURL {
		t.Errorf("Kind = %q, want url from fallback rules", got.Kind)
	}
}

// TestResolvePrefersClassifier tests that a working classifier wins over rules.
func TestResolvePrefersClassifier(t *testing.T) {
	t.Parallel()

	want := model.ClassificationResult{
		Kind:            model.InputURL,
		Confidence:      model.ConfidenceHigh,
		Reasoning:       "user asked for a site analysis",
		NormalizedInput: model.NewURLInput("https://example.com"),
	}
	got := Resolve(context.Background(), &stubClassifier{result: want}, "analyze example.com", discardLogger())

	if got.Reasoning != want.Reasoning {
		t.Errorf("Reasoning = %q, want classifier verdict", got.Reasoning)
	}
}

// TestResolveNilClassifier tests rule-only operation with no capability wired.
func TestResolveNilClassifier(t *testing.T) {
	t.Parallel()

	got := Resolve(context.Background(), nil, "<p>hello</p>", discardLogger())
	if got.Kind != model.InputHTML {
		t.Errorf("Kind = %q, want html", got.Kind)
	}
}
