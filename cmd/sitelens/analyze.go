package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sitelens/sitelens/internal/browser"
	"github.com/sitelens/sitelens/internal/config"
	"github.com/sitelens/sitelens/internal/database"
	"github.com/sitelens/sitelens/internal/extractor/content"
	"github.com/sitelens/sitelens/internal/extractor/performance"
	"github.com/sitelens/sitelens/internal/extractor/visual"
	"github.com/sitelens/sitelens/internal/log"
	"github.com/sitelens/sitelens/internal/model"
	"github.com/sitelens/sitelens/internal/pipeline"
	"github.com/sitelens/sitelens/internal/report"
)

// NewAnalyzeCmd creates the analyze subcommand.
func NewAnalyzeCmd() *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze [target]...",
		Short: "Analyze one or more websites",
		Long: `Analyze websites for SEO/content signals, performance metrics, and
visual accessibility. Targets may be URLs, HTML files, or screenshot
images; each target runs only the branches its input is eligible for.

Examples:
  sitelens analyze https://example.com
  sitelens analyze page.html --json -o report.json
  sitelens analyze --screenshot homepage.png
  sitelens analyze https://example.com --screenshots desktop=d.png,mobile=m.png
  sitelens analyze https://a.example.com https://b.example.com -b 4`,
		RunE: runAnalyze,
	}

	analyzeCmd.Flags().StringP("config", "c", "", "path to configuration file (default: .sitelens in current or home directory)")
	analyzeCmd.Flags().BoolP("json", "j", false, "output report in JSON format")
	analyzeCmd.Flags().BoolP("markdown", "m", false, "output report in Markdown format")
	analyzeCmd.Flags().StringP("output", "o", "", "write report to file instead of stdout")
	analyzeCmd.Flags().IntP("batch", "b", config.DefaultBatchSize, "number of concurrent analyses for multiple targets")
	analyzeCmd.Flags().String("screenshot", "", "path to a screenshot image to analyze")
	analyzeCmd.Flags().StringSlice("screenshots", nil, "viewport=path pairs of screenshots to analyze together")
	analyzeCmd.Flags().Bool("archive", false, "save analysis results to the local archive")
	analyzeCmd.Flags().String("api-key", "", "API key for the remote performance audit service")
	analyzeCmd.Flags().Bool("no-fallback", false, "disable the headless browser fallback for performance metrics")
	analyzeCmd.Flags().String("user-agent", config.DefaultUserAgent, "User-Agent header for HTML fetches")
	analyzeCmd.Flags().Duration("fetch-timeout", config.DefaultFetchTimeout, "timeout for HTML fetches")
	analyzeCmd.Flags().Duration("audit-timeout", config.DefaultAuditTimeout, "timeout for remote performance audit requests")

	return analyzeCmd
}

// runAnalyze executes the analyze command.
func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := loadSiteConfigs(cfg, logger); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Warn("received signal, cancelling analysis", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	var archive *database.Archive
	if cfg.SaveToDB {
		archive, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer archive.Close()
		logger.Debug("archive enabled", "dir", cfg.DBDir)
	}

	out, err := openReportOutput(cfg)
	if err != nil {
		return err
	}
	defer out.Close()
	writer := newReportWriter(cfg, out)

	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchAnalysis(ctx, cfg, logger, writer, archive)
	}
	return runSequentialAnalysis(ctx, cfg, logger, writer, archive)
}

// buildConfig creates a Config from command-line flags and positional
// targets.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, fmt.Errorf("failed to get json flag: %w", err)
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, fmt.Errorf("failed to get markdown flag: %w", err)
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, fmt.Errorf("failed to get output flag: %w", err)
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return nil, fmt.Errorf("failed to get batch flag: %w", err)
	}
	if cfg.AuditAPIKey, err = cmd.Flags().GetString("api-key"); err != nil {
		return nil, fmt.Errorf("failed to get api-key flag: %w", err)
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return nil, fmt.Errorf("failed to get user-agent flag: %w", err)
	}
	if cfg.FetchTimeout, err = cmd.Flags().GetDuration("fetch-timeout"); err != nil {
		return nil, fmt.Errorf("failed to get fetch-timeout flag: %w", err)
	}
	if cfg.AuditTimeout, err = cmd.Flags().GetDuration("audit-timeout"); err != nil {
		return nil, fmt.Errorf("failed to get audit-timeout flag: %w", err)
	}

	noFallback, err := cmd.Flags().GetBool("no-fallback")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-fallback flag: %w", err)
	}
	cfg.LocalFallback = !noFallback

	saveToDB, err := cmd.Flags().GetBool("archive")
	if err != nil {
		return nil, fmt.Errorf("failed to get archive flag: %w", err)
	}
	if saveToDB {
		cfg.SaveToDB = true
		cfg.DBDir = config.XDGDataDir()
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if cfg.Targets, err = buildTargets(cmd, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildTargets resolves positional arguments and screenshot flags into raw
// analysis inputs. A single URL argument combined with screenshot flags
// becomes one structured target so the visual branch can review the
// provided captures while the other branches analyze the URL.
func buildTargets(cmd *cobra.Command, args []string) ([]string, error) {
	screenshot, err := cmd.Flags().GetString("screenshot")
	if err != nil {
		return nil, fmt.Errorf("failed to get screenshot flag: %w", err)
	}
	pairs, err := cmd.Flags().GetStringSlice("screenshots")
	if err != nil {
		return nil, fmt.Errorf("failed to get screenshots flag: %w", err)
	}

	shots, err := parseScreenshotPairs(pairs)
	if err != nil {
		return nil, err
	}

	hasShots := screenshot != "" || len(shots) > 0
	if hasShots && len(args) == 1 && model.LooksLikeURL(args[0]) {
		target, err := structuredTarget(args[0], screenshot, shots)
		if err != nil {
			return nil, err
		}
		return []string{target}, nil
	}

	var targets []string
	for _, arg := range args {
		target, err := resolveTarget(arg)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	if hasShots {
		target, err := structuredTarget("", screenshot, shots)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// resolveTarget maps one positional argument to a raw input: URLs pass
// through, HTML files are read as markup, image files become screenshot
// targets, and anything else is left for the classifier to judge.
func resolveTarget(arg string) (string, error) {
	if model.LooksLikeURL(arg) {
		return arg, nil
	}

	info, err := os.Stat(arg)
	if err != nil || info.IsDir() {
		return arg, nil
	}

	switch strings.ToLower(filepath.Ext(arg)) {
	case ".html", ".htm":
		data, err := os.ReadFile(arg) //nolint:gosec // User-provided target path is intentional
		if err != nil {
			return "", fmt.Errorf("read HTML file %s: %w", arg, err)
		}
		return string(data), nil
	case ".png", ".jpg", ".jpeg", ".webp":
		return structuredTarget("", arg, nil)
	default:
		return arg, nil
	}
}

// parseScreenshotPairs parses viewport=path pairs from the --screenshots flag.
func parseScreenshotPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	shots := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, path, ok := strings.Cut(pair, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid screenshot pair %q: expected viewport=path", pair)
		}
		shots[name] = path
	}
	return shots, nil
}

// structuredTarget encodes a structured input as the JSON object form the
// classifier accepts.
func structuredTarget(pageURL, screenshot string, shots map[string]string) (string, error) {
	obj := make(map[string]any, 3)
	if pageURL != "" {
		obj["url"] = pageURL
	}
	if screenshot != "" {
		obj["screenshot"] = screenshot
	}
	if len(shots) > 0 {
		obj["screenshots"] = shots
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("encode structured target: %w", err)
	}
	return string(raw), nil
}

// getVerboseFlag returns the verbose flag value, checking the local flags
// first and then the root command's persistent flags.
func getVerboseFlag(cmd *cobra.Command) bool {
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil {
		return verbose
	}
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	return verbose
}

// setupLogger creates a logger writing to stderr so reports on stdout stay
// clean. Sensitive values such as API keys and cookies are redacted.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, verbose)
}

// loadSiteConfigs loads the .sitelens config file into cfg.SiteConfigs.
// An explicitly specified path must exist; the default search locations
// are optional.
func loadSiteConfigs(cfg *config.Config, logger *slog.Logger) error {
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return fmt.Errorf("config file not found: %s", cfg.ConfigFilePath)
		}
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
		return nil
	}

	cf, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("load config file %s: %w", path, err)
	}
	logger.Debug("loaded site configuration", "path", path, "sites", len(cf.Sites))
	cfg.SiteConfigs = cf
	return nil
}

// siteConfigFor returns the merged site configuration for a target.
// Non-URL targets get the config file defaults.
func siteConfigFor(cfg *config.Config, target string) config.SiteConfig {
	if cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return cfg.SiteConfigs.Defaults
	}
	return cfg.SiteConfigs.GetSiteConfig(u.Host)
}

// buildOrchestrator wires the three extractors into a pipeline using the
// global config merged with one site's overrides.
func buildOrchestrator(cfg *config.Config, site config.SiteConfig, logger *slog.Logger) *pipeline.Orchestrator {
	userAgent := cfg.UserAgent
	if site.UserAgent != "" {
		userAgent = site.UserAgent
	}

	headers := make(map[string]string, len(site.Headers)+1)
	for k, v := range site.Headers {
		headers[k] = v
	}
	if site.Cookie != "" {
		headers["Cookie"] = site.Cookie
	}

	contentExtractor := content.New(
		content.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}),
		content.WithUserAgent(userAgent),
		content.WithHeaders(headers),
		content.WithMaxBodySize(cfg.MaxBodySize),
		content.WithLogger(logger),
	)

	apiKey := cfg.AuditAPIKey
	if site.AuditAPIKey != "" {
		apiKey = site.AuditAPIKey
	}
	auditClient := performance.NewAuditClient(cfg.AuditEndpoint, apiKey).
		WithHTTPClient(&http.Client{Timeout: cfg.AuditTimeout})

	br := browser.New(
		browser.WithNavigationTimeout(cfg.NavigationTimeout),
		browser.WithUserAgent(userAgent),
		browser.WithLogger(logger),
	)

	fallback := cfg.LocalFallback && !site.DisableLocalFallback
	perfOpts := []performance.Option{
		performance.WithAuditClient(auditClient),
		performance.WithHeaderProber(performance.NewHeaderProber()),
		performance.WithFallback(fallback),
		performance.WithLogger(logger),
	}
	if fallback {
		perfOpts = append(perfOpts, performance.WithProber(br))
	}
	performanceExtractor := performance.New(perfOpts...)

	visualExtractor := visual.New(
		visual.WithCapturer(br),
		visual.WithLogger(logger),
	)

	return pipeline.New(
		pipeline.WithContentExtractor(contentExtractor),
		pipeline.WithPerformanceExtractor(performanceExtractor),
		pipeline.WithVisualExtractor(visualExtractor),
		pipeline.WithLogger(logger),
	)
}

// runSequentialAnalysis analyzes targets one at a time, continuing past
// individual failures. Each target gets a pipeline built with its own
// site configuration.
func runSequentialAnalysis(ctx context.Context, cfg *config.Config, logger *slog.Logger, w report.Writer, archive *database.Archive) error {
	var failed int
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		orch := buildOrchestrator(cfg, siteConfigFor(cfg, target), logger)
		rep, err := orch.Run(ctx, target)
		if err != nil {
			logger.Error("analysis failed", "target", target, "error", err)
			failed++
			continue
		}

		if err := emitReport(ctx, logger, w, archive, rep); err != nil {
			return err
		}
	}

	if failed > 0 && failed == len(cfg.Targets) {
		return fmt.Errorf("all %d analyses failed", failed)
	}
	return nil
}

// runBatchAnalysis analyzes targets concurrently. Batch runs share one
// pipeline, so only the config file defaults apply; per-site overrides
// need a sequential run.
func runBatchAnalysis(ctx context.Context, cfg *config.Config, logger *slog.Logger, w report.Writer, archive *database.Archive) error {
	var defaults config.SiteConfig
	if cfg.SiteConfigs != nil {
		defaults = cfg.SiteConfigs.Defaults
	}

	orch := buildOrchestrator(cfg, defaults, logger)
	processor := pipeline.NewBatchProcessor(orch,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	reports, err := processor.Process(ctx, cfg.Targets)
	if err != nil {
		return fmt.Errorf("batch analysis: %w", err)
	}

	for _, rep := range reports {
		if rep == nil {
			continue
		}
		if err := emitReport(ctx, logger, w, archive, rep); err != nil {
			return err
		}
	}
	return nil
}

// emitReport writes one report and archives it when the archive is enabled.
// Archive failures are logged rather than fatal; the report has already
// been delivered.
func emitReport(ctx context.Context, logger *slog.Logger, w report.Writer, archive *database.Archive, rep *model.CombinedReport) error {
	if _, err := w.Write(rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if archive != nil {
		id := uuid.NewString()
		if err := archive.Save(ctx, id, rep); err != nil {
			logger.Warn("failed to archive analysis", "error", err)
		} else {
			logger.Info("analysis archived", "analysis_id", id)
		}
	}
	return nil
}

// openReportOutput returns the report destination: stdout by default, or
// the configured file with restrictive permissions.
func openReportOutput(cfg *config.Config) (io.WriteCloser, error) {
	if cfg.ReportFile == "" {
		return nopWriteCloser{os.Stdout}, nil
	}

	if dir := filepath.Dir(cfg.ReportFile); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create report directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return nil, fmt.Errorf("open report file: %w", err)
	}
	return f, nil
}

// newReportWriter selects the report format from the config.
func newReportWriter(cfg *config.Config, out io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}
}

// nopWriteCloser wraps stdout so the output path can be closed uniformly.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
