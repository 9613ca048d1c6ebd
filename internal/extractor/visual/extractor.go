// Package visual captures or loads page screenshots and runs the
// rule-based accessibility audit.
//
// Three input modes are supported. URL mode drives a headless browser at
// three fixed viewports and audits the rendered DOM. Screenshot mode loads
// a single provided image. Screenshot-set mode loads a viewport-keyed map
// of images, skipping unreadable entries instead of failing the batch.
package visual

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/sitelens/sitelens/internal/model"
)

// Viewport is one capture size.
type Viewport struct {
	Name   string
	Width  int
	Height int
}

// DefaultViewports are captured in URL mode, in this order.
var DefaultViewports = []Viewport{
	{Name: "desktop", Width: 1920, Height: 1080},
	{Name: "tablet", Width: 768, Height: 1024},
	{Name: "mobile", Width: 375, Height: 667},
}

// Capturer drives a headless browser. It is an interface so the browser
// dependency stays swappable and the extractor testable without one.
//
// Implementations own the browser exclusively for the duration of one call
// and must release it on every exit path.
type Capturer interface {
	// Capture navigates to the URL at the given viewport and returns PNG
	// image bytes.
	Capture(ctx context.Context, url string, vp Viewport) ([]byte, error)

	// PageHTML navigates to the URL and returns the rendered document
	// markup, used by the accessibility audit.
	PageHTML(ctx context.Context, url string) (string, error)
}

// Extractor produces visual feature sets.
type Extractor struct {
	capturer  Capturer
	viewports []Viewport
	logger    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCapturer sets the browser implementation. URL mode requires one.
func WithCapturer(c Capturer) Option {
	return func(e *Extractor) { e.capturer = c }
}

// WithViewports overrides the capture viewports.
func WithViewports(vps []Viewport) Option {
	return func(e *Extractor) { e.viewports = vps }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// New creates an Extractor with the given options.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		viewports: DefaultViewports,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ErrNoCapturer is returned by URL mode when no browser is wired.
var ErrNoCapturer = fmt.Errorf("no browser capturer configured")

// ExtractURL captures one screenshot per viewport and audits the rendered
// DOM. A capture failure for one viewport is logged and that viewport is
// omitted; it never aborts the other viewports. An audit failure leaves
// Accessibility nil.
func (e *Extractor) ExtractURL(ctx context.Context, url string) (*model.VisualFeatureSet, error) {
	if e.capturer == nil {
		return nil, ErrNoCapturer
	}

	features := &model.VisualFeatureSet{
		Mode:        model.VisualModeURL,
		Source:      url,
		Screenshots: make(map[string][]byte),
	}

	for _, vp := range e.viewports {
		e.logger.Debug("capturing viewport", "url", url, "viewport", vp.Name,
			"width", vp.Width, "height", vp.Height)

		img, err := e.capturer.Capture(ctx, url, vp)
		if err != nil {
			e.logger.Warn("viewport capture failed", "url", url, "viewport", vp.Name, "error", err)
			continue
		}
		features.Screenshots[vp.Name] = img
		features.Viewports = append(features.Viewports, vp.Name)
	}

	markup, err := e.capturer.PageHTML(ctx, url)
	if err != nil {
		e.logger.Warn("accessibility audit skipped", "url", url, "error", err)
		return features, nil
	}

	audit, err := Audit(markup)
	if err != nil {
		e.logger.Warn("accessibility audit failed", "url", url, "error", err)
		return features, nil
	}
	features.Accessibility = audit

	return features, nil
}

// ExtractScreenshot loads a single provided screenshot under the "default"
// viewport. A missing or unreadable file is a hard failure.
func (e *Extractor) ExtractScreenshot(path string) (*model.VisualFeatureSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided screenshot path is intentional
	if err != nil {
		return nil, fmt.Errorf("load screenshot %s: %w", path, err)
	}

	return &model.VisualFeatureSet{
		Mode:        model.VisualModeScreenshot,
		Source:      "provided_screenshot",
		Screenshots: map[string][]byte{"default": data},
		Viewports:   []string{"default"},
	}, nil
}

// ExtractScreenshotSet loads each named viewport independently. A missing
// or unreadable file causes that viewport to be skipped with a warning;
// the batch succeeds with whatever subset loaded.
func (e *Extractor) ExtractScreenshotSet(shots map[string]string) (*model.VisualFeatureSet, error) {
	features := &model.VisualFeatureSet{
		Mode:        model.VisualModeScreenshotSet,
		Source:      "provided_screenshots",
		Screenshots: make(map[string][]byte),
	}

	names := make([]string, 0, len(shots))
	for name := range shots {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := os.ReadFile(shots[name]) //nolint:gosec // User-provided screenshot path is intentional
		if err != nil {
			e.logger.Warn("skipping viewport", "viewport", name, "path", shots[name], "error", err)
			continue
		}
		features.Screenshots[name] = data
		features.Viewports = append(features.Viewports, name)
	}

	return features, nil
}
