// Package config defines the analyzer configuration, its defaults, and
// the optional .sitelens YAML file with per-site overrides.
package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The timeouts mirror what each analysis stage can tolerate: a plain HTML
// fetch should answer quickly, while a full remote audit run routinely
// takes over a minute.
const (
	// DefaultFetchTimeout applies to plain HTML fetches for content analysis.
	// 10 seconds is generous for a single page; anything slower is treated
	// as a fetch failure and recorded on the feature set.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultAuditTimeout applies to remote performance audit requests.
	// The audit service runs a full lab measurement of the target page, so
	// 90 seconds is a realistic upper bound rather than a safety margin.
	DefaultAuditTimeout = 90 * time.Second

	// DefaultNavigationTimeout applies to headless browser page loads used
	// by the local performance fallback and screenshot capture.
	DefaultNavigationTimeout = 30 * time.Second

	// DefaultBatchSize of 4 concurrent analyses balances throughput with
	// the cost of headless browser instances. Higher values multiply
	// browser memory usage.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "sitelens"

	// DefaultUserAgent is sent with HTML fetches and header probes.
	// A desktop Chrome user agent avoids the stripped-down pages some
	// sites serve to unknown clients, which would skew content metrics.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// DefaultAuditEndpoint is the remote performance audit API.
	DefaultAuditEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultListenAddr is the bind address for the HTTP analysis service.
	DefaultListenAddr = ":8080"
)

// Config holds all configuration options for the analyzer.
// This struct is populated from CLI flags and passed through the
// application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, AuditConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// FetchTimeout is the timeout for plain HTML fetches.
	FetchTimeout time.Duration

	// AuditTimeout is the timeout for remote performance audit requests.
	// The audit service measures the page itself, so this must be far
	// larger than FetchTimeout.
	AuditTimeout time.Duration

	// NavigationTimeout is the timeout for headless browser page loads.
	NavigationTimeout time.Duration

	// AuditEndpoint is the remote performance audit API URL.
	AuditEndpoint string

	// AuditAPIKey authenticates requests to the remote audit API.
	// Optional: the API accepts unauthenticated requests at a lower quota.
	AuditAPIKey string

	// LocalFallback enables the headless browser fallback when the remote
	// audit fails or returns incomplete metrics. Disabling it keeps the
	// analyzer free of browser dependencies at the cost of sparser
	// performance data.
	LocalFallback bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent analyses when processing
	// multiple targets.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sitelens in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file. This is populated by LoadConfigFile.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// Targets is the list of inputs to analyze. Each entry may be a URL,
	// a path to an HTML file, or a path to a screenshot image.
	Targets []string

	// DBDir is the directory path for storing the SQLite archive.
	// When set, analysis results are saved for later retrieval.
	// When empty, results are not persisted.
	DBDir string

	// SaveToDB indicates whether to save analysis results to the archive.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// UserAgent is the User-Agent header sent with HTML fetches and
	// header probes.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory
	// exhaustion. Set to 0 to use the default (5MB).
	MaxBodySize int64

	// ListenAddr is the bind address for the HTTP analysis service.
	// Only used by the serve command.
	ListenAddr string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeouts, the
// audit endpoint). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		FetchTimeout:      DefaultFetchTimeout,
		AuditTimeout:      DefaultAuditTimeout,
		NavigationTimeout: DefaultNavigationTimeout,
		AuditEndpoint:     DefaultAuditEndpoint,
		LocalFallback:     true,
		BatchSize:         DefaultBatchSize,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		ListenAddr:        DefaultListenAddr,
	}
}

// XDGDataDir returns the XDG data directory for the analyzer.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/sitelens
// On macOS: ~/Library/Application Support/sitelens
// On Windows: %LOCALAPPDATA%\sitelens
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the analyzer.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any analysis begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Timeouts must be positive; zero would cause immediate failures
	if c.FetchTimeout <= 0 || c.AuditTimeout <= 0 || c.NavigationTimeout <= 0 {
		return ErrInvalidTimeout
	}

	// BatchSize must be positive; zero would mean no analysis
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.AuditEndpoint == "" {
		return ErrMissingAuditEndpoint
	}

	// MaxBodySize must be non-negative; 0 means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}

// ValidateServe checks the configuration for the HTTP service, which runs
// without a target list.
func (c *Config) ValidateServe() error {
	if c.FetchTimeout <= 0 || c.AuditTimeout <= 0 || c.NavigationTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.ListenAddr == "" {
		return ErrInvalidListenAddr
	}
	if c.AuditEndpoint == "" {
		return ErrMissingAuditEndpoint
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
