package classify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sitelens/sitelens/internal/model"
)

// structuredInput mirrors the JSON object shape accepted as raw input.
// Every field is optional; the variant is decided by which fields are set.
type structuredInput struct {
	URL         string            `json:"url"`
	HTML        string            `json:"html"`
	Screenshot  string            `json:"screenshot"`
	Screenshots map[string]string `json:"screenshots"`
}

// ParseRaw converts raw user input into a typed AnalysisInput.
//
// Input that looks like a JSON object is decoded into the structured shape
// and mapped to a variant by field priority: a screenshot set wins over a
// single screenshot, which wins over inline HTML, which wins over a bare
// URL. A URL field is preserved alongside screenshot and HTML variants so
// structural predicates can still see it.
//
// A malformed JSON object is a validation failure surfaced to the caller;
// it is not silently treated as plain text because the user clearly
// intended a structured request.
func ParseRaw(rawInput string) (model.AnalysisInput, error) {
	trimmed := strings.TrimSpace(rawInput)

	if strings.HasPrefix(trimmed, "{") {
		var s structuredInput
		if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
			return model.AnalysisInput{Kind: model.InputUnknown}, fmt.Errorf("parse structured input: %w", err)
		}
		return fromStructured(s), nil
	}

	return parseString(trimmed), nil
}

// fromStructured maps a decoded JSON object to an input variant.
func fromStructured(s structuredInput) model.AnalysisInput {
	switch {
	case len(s.Screenshots) > 0:
		in := model.NewScreenshotSetInput(s.Screenshots)
		in.URL = s.URL
		return in
	case s.Screenshot != "":
		in := model.NewScreenshotInput(s.Screenshot)
		in.URL = s.URL
		return in
	case s.HTML != "":
		in := model.NewHTMLInput(s.HTML)
		in.URL = s.URL
		return in
	case s.URL != "":
		return model.NewURLInput(s.URL)
	default:
		return model.AnalysisInput{Kind: model.InputUnknown}
	}
}

// parseString classifies a plain string by its shape. Any non-URL text is
// carried as markup: a bare string is always eligible for content analysis,
// whether it is tag-shaped or prose.
func parseString(s string) model.AnalysisInput {
	switch {
	case s == "":
		return model.AnalysisInput{Kind: model.InputUnknown}
	case model.LooksLikeURL(s):
		return model.NewURLInput(s)
	default:
		return model.NewHTMLInput(s)
	}
}

// Structural derives a typed input from the raw string by shape alone,
// ignoring any classifier. Malformed structured input degrades to the
// plain string rules rather than failing.
//
// The orchestrator evaluates branch eligibility over this value, never
// over a classifier verdict, so a classifier outage or a bad verdict can
// never block extraction.
func Structural(rawInput string) model.AnalysisInput {
	input, err := ParseRaw(rawInput)
	if err != nil {
		return parseString(strings.TrimSpace(rawInput))
	}
	return input
}
