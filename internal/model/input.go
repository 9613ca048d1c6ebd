package model

import (
	"regexp"
	"strings"
)

// InputKind identifies which variant of the AnalysisInput union is populated.
type InputKind string

const (
	// InputURL is a bare URL string (http:// or https://).
	InputURL InputKind = "url"

	// InputHTML is raw HTML markup provided directly.
	InputHTML InputKind = "html"

	// InputScreenshot is a single screenshot file reference.
	InputScreenshot InputKind = "screenshot"

	// InputScreenshotSet is a set of screenshots keyed by viewport name.
	InputScreenshotSet InputKind = "screenshot_set"

	// InputUnknown is an input that matched no structural rule.
	InputUnknown InputKind = "unknown"
)

// htmlTagPattern matches anything that looks like an HTML/XML tag.
// Used by the structural fallback when the classifier is unavailable.
var htmlTagPattern = regexp.MustCompile(`<[a-zA-Z!/][^>]*>`)

// AnalysisInput is the tagged union describing a single piece of evidence
// about a website. Exactly one variant is populated per request and the
// value is immutable once created; use the New* constructors.
//
// Design decision: We use one struct with a Kind tag rather than an
// interface with per-variant types because the orchestrator's eligibility
// predicates need cheap structural access to all variants, and the union
// must serialize to a single JSON shape for the HTTP front end.
type AnalysisInput struct {
	// Kind identifies the populated variant.
	Kind InputKind `json:"kind"`

	// URL is the target URL when Kind is InputURL, or when a structured
	// request carried both a URL and screenshots.
	URL string `json:"url,omitempty"`

	// Markup is the raw HTML when Kind is InputHTML.
	Markup string `json:"html,omitempty"`

	// ScreenshotPath is the file path when Kind is InputScreenshot.
	ScreenshotPath string `json:"screenshot,omitempty"`

	// Screenshots maps viewport names to file paths when Kind is
	// InputScreenshotSet.
	Screenshots map[string]string `json:"screenshots,omitempty"`
}

// NewURLInput creates an input for a URL target.
func NewURLInput(url string) AnalysisInput {
	return AnalysisInput{Kind: InputURL, URL: url}
}

// NewHTMLInput creates an input for raw markup.
func NewHTMLInput(markup string) AnalysisInput {
	return AnalysisInput{Kind: InputHTML, Markup: markup}
}

// NewScreenshotInput creates an input for a single screenshot file.
func NewScreenshotInput(path string) AnalysisInput {
	return AnalysisInput{Kind: InputScreenshot, ScreenshotPath: path}
}

// NewScreenshotSetInput creates an input for a viewport-keyed screenshot set.
func NewScreenshotSetInput(shots map[string]string) AnalysisInput {
	return AnalysisInput{Kind: InputScreenshotSet, Screenshots: shots}
}

// HasURL reports whether the input resolves to a URL: either the input is a
// bare string starting with an http(s) prefix, or a structured input
// carrying a url field.
//
// This is a pure structural check over the raw input. It deliberately does
// not consult the classifier so that a classifier outage never blocks
// extraction.
func (in AnalysisInput) HasURL() bool {
	return strings.HasPrefix(in.URL, "http://") || strings.HasPrefix(in.URL, "https://")
}

// HasMarkup reports whether the input carries raw HTML markup.
func (in AnalysisInput) HasMarkup() bool {
	return in.Markup != ""
}

// HasScreenshots reports whether the input carries a screenshot or a
// screenshot set.
func (in AnalysisInput) HasScreenshots() bool {
	return in.ScreenshotPath != "" || len(in.Screenshots) > 0
}

// LooksLikeHTML reports whether a raw string contains a tag pattern.
// Used by the rule-based classification fallback.
func LooksLikeHTML(s string) bool {
	return htmlTagPattern.MatchString(s)
}

// LooksLikeURL reports whether a raw string starts with an http(s) prefix.
func LooksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
