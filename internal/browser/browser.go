// Package browser drives a local headless Chrome through the DevTools
// protocol. It backs two extraction concerns: viewport screenshots with
// rendered-DOM retrieval for the visual analysis, and navigation-timing
// measurement with per-resource accounting for the performance fallback.
//
// Design decision: every public method launches its own browser process
// and tears it down before returning, instead of pooling a long-lived
// instance. Analyses are batch-shaped and infrequent, and a fresh profile
// per call means no cookie, cache, or crash state leaks between targets.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/sitelens/sitelens/internal/config"
	"github.com/sitelens/sitelens/internal/extractor/performance"
	"github.com/sitelens/sitelens/internal/extractor/visual"
)

// Browser implements both the screenshot capturer and the local
// performance prober on top of one Chrome lifecycle.
var (
	_ visual.Capturer    = (*Browser)(nil)
	_ performance.Prober = (*Browser)(nil)
)

// Browser launches headless Chrome sessions on demand.
type Browser struct {
	navigationTimeout time.Duration
	userAgent         string
	logger            *slog.Logger
}

// Option configures a Browser.
type Option func(*Browser)

// WithNavigationTimeout bounds page navigation and load waiting.
func WithNavigationTimeout(d time.Duration) Option {
	return func(b *Browser) { b.navigationTimeout = d }
}

// WithUserAgent overrides the browser user agent string.
func WithUserAgent(ua string) Option {
	return func(b *Browser) { b.userAgent = ua }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Browser) { b.logger = l }
}

// New creates a Browser with the given options.
func New(opts ...Option) *Browser {
	b := &Browser{
		navigationTimeout: config.DefaultNavigationTimeout,
		userAgent:         config.DefaultUserAgent,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// session is one launched Chrome process with its control connection.
type session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// launch starts a headless Chrome and connects to it. The caller must
// call close on every exit path.
func (b *Browser) launch() (*session, error) {
	l := launcher.New().
		Headless(true).
		Set("disable-blink-features", "AutomationControlled")

	wsURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	rb := rod.New().ControlURL(wsURL)
	if err := rb.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	if err := rb.IgnoreCertErrors(true); err != nil {
		_ = rb.Close()
		l.Cleanup()
		return nil, fmt.Errorf("ignore cert errors: %w", err)
	}

	b.logger.Debug("launched headless chrome", "url", wsURL)
	return &session{browser: rb, launcher: l}, nil
}

func (s *session) close(logger *slog.Logger) {
	if err := s.browser.Close(); err != nil {
		logger.Warn("browser close failed", "error", err)
	}
	s.launcher.Cleanup()
}

// openPage creates a stealth page, applies the user agent, and navigates
// to the URL within the navigation timeout. A load-wait timeout is logged
// but not fatal: partially loaded pages are still worth inspecting.
func (b *Browser) openPage(ctx context.Context, s *session, url string) (*rod.Page, error) {
	page, err := stealth.Page(s.browser)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if b.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.userAgent}); err != nil {
			page.Close()
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, b.navigationTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(url); err != nil {
		page.Close()
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		b.logger.Warn("page load wait timed out", "url", url, "error", err)
	}

	return page, nil
}

// Capture navigates to the URL at the given viewport and returns a PNG
// screenshot of the visible area.
func (b *Browser) Capture(ctx context.Context, url string, vp visual.Viewport) ([]byte, error) {
	s, err := b.launch()
	if err != nil {
		return nil, err
	}
	defer s.close(b.logger)

	page, err := b.openPage(ctx, s, url)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: 1,
		Mobile:            vp.Name == "mobile",
	}); err != nil {
		return nil, fmt.Errorf("set viewport %s: %w", vp.Name, err)
	}

	img, err := page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot %s at %s: %w", url, vp.Name, err)
	}
	return img, nil
}

// PageHTML navigates to the URL and returns the rendered document markup
// after scripts have run, for rule checks that need the live DOM rather
// than the served source.
func (b *Browser) PageHTML(ctx context.Context, url string) (string, error) {
	s, err := b.launch()
	if err != nil {
		return "", err
	}
	defer s.close(b.logger)

	page, err := b.openPage(ctx, s, url)
	if err != nil {
		return "", err
	}
	defer page.Close()

	res, err := page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("serialize DOM for %s: %w", url, err)
	}
	return res.Value.Str(), nil
}
