// Package classify turns raw user input into a typed AnalysisInput.
//
// Classification happens in two layers. The primary layer is an external
// classifier capability (typically LLM-backed) that understands
// natural-language wrapping such as "please analyze https://example.com".
// The secondary layer is a deterministic rule set over the input's shape.
// The rules always produce a verdict, so a classifier outage degrades
// accuracy but never blocks analysis.
package classify

import (
	"context"
	"log/slog"

	"github.com/sitelens/sitelens/internal/model"
)

// Classifier is the external classification capability.
//
// Implementations receive the raw input exactly as the user provided it
// (structured inputs are serialized to JSON first) and return a verdict
// with a normalized input. The orchestrator must function correctly even
// if this call fails; see Resolve.
type Classifier interface {
	// Classify returns a classification verdict for the raw input.
	Classify(ctx context.Context, rawInput string) (model.ClassificationResult, error)
}

// Resolve classifies raw input, falling back to rule-based classification
// when the classifier is nil or returns an error.
//
// Classification failure is never surfaced to the caller: the rules always
// yield at least an Unknown verdict, and an Unknown verdict with no
// eligible branch is a valid terminal state, not an error.
func Resolve(ctx context.Context, c Classifier, rawInput string, logger *slog.Logger) model.ClassificationResult {
	if c != nil {
		result, err := c.Classify(ctx, rawInput)
		if err == nil {
			return result
		}
		logger.Warn("classifier unavailable, using rule-based fallback", "error", err)
	}
	return RuleBased(rawInput)
}

// RuleBased classifies raw input using structural rules only:
//
//  1. JSON object shape with a screenshot key yields Screenshot(Set)
//  2. http(s):// prefix yields URL
//  3. any other non-empty string yields HTML, carried as markup
//  4. empty input yields Unknown
//
// Confidence reflects how discriminating the matched rule is. A scheme
// prefix or an explicit structured field is near certain; a tag-shaped
// string rates medium; prose treated as markup is a guess and rates low.
func RuleBased(rawInput string) model.ClassificationResult {
	input := Structural(rawInput)

	confidence := model.ConfidenceLow
	switch input.Kind {
	case model.InputURL, model.InputScreenshot, model.InputScreenshotSet:
		confidence = model.ConfidenceHigh
	case model.InputHTML:
		confidence = model.ConfidenceMedium
		if !model.LooksLikeHTML(input.Markup) {
			confidence = model.ConfidenceLow
		}
	case model.InputUnknown:
		confidence = model.ConfidenceLow
	}

	return model.ClassificationResult{
		Kind:            input.Kind,
		Confidence:      confidence,
		NormalizedInput: input,
	}
}
