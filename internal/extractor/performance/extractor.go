// Package performance collects network-performance signals through a
// three-stage waterfall: a remote Lighthouse-style audit API, a cheap HTTP
// header probe, and a local headless-browser measurement used as fallback.
//
// Each stage is independently attempted and its failures degrade to
// populated error fields; Extract never fails outright for a reachable or
// unreachable URL alike.
package performance

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitelens/sitelens/internal/model"
)

// Prober measures a page locally with a headless browser. It is the
// third waterfall stage, abstracted so the browser dependency stays
// swappable and the merge logic testable without a browser.
type Prober interface {
	// Measure navigates to the URL and returns navigation timing plus a
	// per-bucket resource breakdown.
	Measure(ctx context.Context, url string) (*model.PerformanceFeatureSet, error)
}

// Extractor runs the performance waterfall.
type Extractor struct {
	audit  *AuditClient
	header *HeaderProber
	prober Prober

	// fallbackEnabled gates the local measurement stage.
	fallbackEnabled bool

	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithAuditClient sets the remote audit client.
func WithAuditClient(c *AuditClient) Option {
	return func(e *Extractor) { e.audit = c }
}

// WithHeaderProber sets the header probe stage.
func WithHeaderProber(h *HeaderProber) Option {
	return func(e *Extractor) { e.header = h }
}

// WithProber sets the local measurement stage. A nil prober disables the
// fallback regardless of the enable flag.
func WithProber(p Prober) Option {
	return func(e *Extractor) { e.prober = p }
}

// WithFallback enables or disables the local measurement stage.
func WithFallback(enabled bool) Option {
	return func(e *Extractor) { e.fallbackEnabled = enabled }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// New creates an Extractor with the given options.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		audit:           NewAuditClient("", ""),
		header:          NewHeaderProber(),
		fallbackEnabled: true,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// timeFormat is the timestamp layout stamped by each stage.
const timeFormat = "2006-01-02 15:04:05"

// Extract runs the waterfall against the URL and merges the stage outputs.
//
// Stage order and merge policy:
//  1. The remote audit runs first and seeds the feature set.
//  2. The header probe always runs; its fields unconditionally overlay the
//     set, because header data is orthogonal to audit data, not a fallback.
//  3. The local measurement runs only when stage 1 recorded an error and
//     fallback is enabled. It fills only fields still unset and never
//     overwrites stage 1 or 2 data. FallbackUsed is set whenever stage 3
//     was invoked, even if it filled nothing.
func (e *Extractor) Extract(ctx context.Context, url string) *model.PerformanceFeatureSet {
	features := e.runAudit(ctx, url)

	e.logger.Debug("probing response headers", "url", url)
	if probe, err := e.header.Probe(ctx, url); err != nil {
		e.logger.Warn("header probe failed", "url", url, "error", err)
	} else {
		overlayHeaderProbe(features, probe)
	}

	if features.APIError != "" && e.fallbackEnabled && e.prober != nil {
		e.logger.Debug("remote audit failed, invoking local measurement", "url", url)
		features.FallbackUsed = true

		local, err := e.prober.Measure(ctx, url)
		if err != nil {
			e.logger.Warn("local measurement failed", "url", url, "error", err)
		} else {
			fillFromLocal(features, local)
		}
	}

	return features
}

// runAudit executes the remote audit stage. A failure is recorded in
// APIError rather than returned, so the rest of the waterfall continues.
func (e *Extractor) runAudit(ctx context.Context, url string) *model.PerformanceFeatureSet {
	e.logger.Debug("requesting remote audit", "url", url)

	features, err := e.audit.Run(ctx, url)
	if err != nil {
		e.logger.Warn("remote audit failed", "url", url, "error", err)
		return &model.PerformanceFeatureSet{
			URL:            url,
			AnalysisSource: model.SourceUnknown,
			APIError:       err.Error(),
		}
	}

	features.AnalysisSource = model.SourceAPI
	features.AnalyzedAt = time.Now().Format(timeFormat)
	return features
}
