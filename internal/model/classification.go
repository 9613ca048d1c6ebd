package model

// Confidence expresses how sure the classifier is about its verdict.
type Confidence string

const (
	// ConfidenceHigh means the classification is near certain.
	ConfidenceHigh Confidence = "high"

	// ConfidenceMedium means the classification is probable but ambiguous.
	ConfidenceMedium Confidence = "medium"

	// ConfidenceLow means the classification is a guess, typically the
	// result of the rule-based fallback on unusual input.
	ConfidenceLow Confidence = "low"
)

// ClassificationResult is the verdict produced once per request by the
// classifier capability (or its rule-based fallback).
type ClassificationResult struct {
	// Kind is the detected input kind.
	Kind InputKind `json:"kind"`

	// Confidence qualifies the verdict.
	Confidence Confidence `json:"confidence"`

	// Reasoning is a short free-text explanation from the classifier.
	// Empty for rule-based fallback results.
	Reasoning string `json:"reasoning,omitempty"`

	// NormalizedInput is the input with any natural-language wrapping
	// stripped (e.g. the URL extracted from "please analyze https://...").
	NormalizedInput AnalysisInput `json:"normalized_input"`
}
