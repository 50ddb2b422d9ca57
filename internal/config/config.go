package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout is set to 30 seconds. Ordinary sites respond well
	// within that; a longer timeout mostly delays reporting dead hosts.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize of 4 concurrent evaluations balances throughput
	// with politeness toward the evaluated hosts. Higher values speed up
	// large lists but hit the targets harder.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "adascan"

	// DefaultUserAgent identifies adascan in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows operators
	// to identify evaluator traffic in their logs.
	DefaultUserAgent = "adascan/1.0 (+https://github.com/ADACompany01/adascan)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Config holds all configuration options for adascan.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Timeout is the timeout for each HTTP request.
	// This applies to individual fetches, not the overall run duration.
	Timeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent evaluations when processing
	// multiple targets. Higher values increase throughput but hit the
	// evaluated hosts harder.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .adascan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file. This is populated by LoadConfigFile.
	SiteConfigs *File

	// Plan is the compliance level (A, AA, or AAA) to build a checklist
	// for after evaluation. When empty, no plan is selected automatically.
	Plan string

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

	// Targets is the list of URLs to evaluate.
	// Must contain at least one URL.
	Targets []string

	// DBDir is the directory path for storing the SQLite database.
	// When set, evaluation results are saved for historical comparison.
	// When empty, results are not persisted.
	// Defaults to XDG data directory (~/.local/share/adascan on Linux).
	DBDir string

	// SaveToDB indicates whether to save evaluation results to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	// A descriptive User-Agent helps site operators identify evaluator traffic.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, batch size).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		BatchSize:   DefaultBatchSize,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for adascan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/adascan
// On macOS: ~/Library/Application Support/adascan
// On Windows: %LOCALAPPDATA%\adascan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for adascan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/adascan
// On macOS: ~/Library/Application Support/adascan
// On Windows: %APPDATA%\adascan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// validPlans are the compliance levels accepted by the --plan flag.
var validPlans = map[string]bool{"A": true, "AA": true, "AAA": true}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any evaluation begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one target to evaluate
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// BatchSize must be positive; zero would mean no evaluations
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// Plan, when set, must be a recognized compliance level
	if c.Plan != "" && !validPlans[c.Plan] {
		return ErrInvalidPlanLevel
	}

	// MaxBodySize must be non-negative; 0 means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
