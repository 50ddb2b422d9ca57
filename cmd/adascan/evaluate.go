package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ADACompany01/adascan/internal/config"
	"github.com/ADACompany01/adascan/internal/database"
	"github.com/ADACompany01/adascan/internal/engine"
	"github.com/ADACompany01/adascan/internal/fetch"
	"github.com/ADACompany01/adascan/internal/log"
	"github.com/ADACompany01/adascan/internal/model"
	"github.com/ADACompany01/adascan/internal/report"
	"github.com/ADACompany01/adascan/internal/store"
)

// NewEvaluateCmd creates the evaluate command.
func NewEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate [url]",
		Short: "Evaluate a web page for accessibility issues",
		Long: `Evaluate fetches a web page and checks it against WCAG success criteria.

It analyzes the markup for:
- Missing text alternatives (images, iframes, form controls)
- Structural problems (headings, tables, page language)
- Navigation barriers (link text, page titles)
- Zoom and scaling restrictions

The page is scored from 0 to 100 and compliance plans are suggested.
With --plan, a remediation checklist for that level is included.

Examples:
  # Evaluate a single page
  adascan evaluate https://example.com

  # Evaluate multiple pages concurrently
  adascan evaluate https://a.example.com https://b.example.com

  # Build an AA remediation checklist
  adascan evaluate --plan AA https://example.com

  # Output JSON report to a file
  adascan evaluate --json -o report.json https://example.com

Configuration file (.adascan) example:
  sites:
    staging.example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
    intranet.example.com:
      plan: AAA`,
		Args: cobra.ArbitraryArgs,
		RunE: runEvaluateCmd,
	}

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for HTTP requests")

	// Evaluation flags
	cmd.Flags().StringP("plan", "p", "",
		"Compliance level to build a checklist for (A, AA, or AAA)")

	// Batch evaluation flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent evaluations")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .adascan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().Bool("no-save", false,
		"Do not save evaluation results to the local history database")

	return cmd
}

// runEvaluateCmd executes the evaluate command.
func runEvaluateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential redaction
	verbose := getVerboseFlag(cmd)
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runEvaluation(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.Plan, err = cmd.Flags().GetString("plan")
	if err != nil {
		return nil, err
	}
	cfg.Plan = strings.ToUpper(cfg.Plan)

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	// Positional arguments are the target URLs
	cfg.Targets = args

	return cfg, nil
}

// runEvaluation executes the evaluation for all targets.
func runEvaluation(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting evaluation",
		"targets", cfg.Targets,
		"plan", cfg.Plan,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Use batch evaluation for multiple targets
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchEvaluation(ctx, cfg, db, logger)
	}

	return runSequentialEvaluation(ctx, cfg, db, logger)
}

// runSequentialEvaluation evaluates targets one at a time through a session.
// Sequential mode applies per-site configuration and supports checklists.
func runSequentialEvaluation(ctx context.Context, cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) error {
	var failures int
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		siteConfig := getSiteConfig(cfg, target)
		evaluator := newEvaluatorForTarget(cfg, siteConfig, logger)
		session := store.New(evaluator, store.WithLogger(logger))

		fmt.Printf("Evaluating %s...\n", target)
		startTime := time.Now()

		result, err := session.EvaluateSite(ctx, evaluator.FormatURL(target))
		if err != nil {
			logger.Error("evaluation failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Evaluation error for %s: %v\n", target, err)
			failures++
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Evaluation completed in %s (score: %d/100)\n\n", elapsed.Round(time.Millisecond), result.Score)

		// Build a checklist when a plan was requested.
		// Site config may override the global plan level.
		plan := cfg.Plan
		if siteConfig.Plan != "" {
			plan = siteConfig.Plan
		}
		if plan != "" {
			if err := session.SelectPlan(model.Level(plan)); err != nil {
				logger.Error("plan selection failed", "target", target, "plan", plan, "error", err)
			}
		}

		state := session.State()
		if err := outputReport(cfg, &state); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}

		if err := saveEvaluation(ctx, db, result, logger); err != nil {
			logger.Error("failed to save evaluation", "target", target, "error", err)
		}
	}

	if failures == len(cfg.Targets) {
		return errors.New("all evaluations failed")
	}
	return nil
}

// runBatchEvaluation evaluates multiple targets concurrently.
// Batch mode uses default site config only; checklists are not built.
func runBatchEvaluation(ctx context.Context, cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch evaluation of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	if cfg.SiteConfigs != nil && len(cfg.SiteConfigs.Sites) > 0 {
		logger.Warn("batch mode uses default site config only; site-specific configs (cookies, headers) are ignored",
			"siteCount", len(cfg.SiteConfigs.Sites))
		fmt.Fprintf(os.Stderr, "Warning: Site-specific configurations are ignored in batch mode. Use sequential mode (--batch 1) to apply per-site settings.\n\n")
	}

	var siteConfig config.SiteConfig
	if cfg.SiteConfigs != nil {
		siteConfig = cfg.SiteConfigs.Defaults
	}
	evaluator := newEvaluatorForTarget(cfg, siteConfig, logger)

	// Normalize targets up front so reported URLs match stored ones
	targets := make([]string, len(cfg.Targets))
	for i, target := range cfg.Targets {
		targets[i] = evaluator.FormatURL(target)
	}

	batch := engine.NewBatchEvaluator(evaluator,
		engine.WithConcurrency(cfg.BatchSize),
		engine.WithBatchLogger(logger),
	)

	var mu sync.Mutex
	done := 0
	err := batch.Evaluate(ctx, targets, func(res engine.BatchResult) {
		mu.Lock()
		defer mu.Unlock()
		done++

		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "[%d/%d] Evaluation failed: %s: %v\n", done, len(targets), res.URL, res.Err)
			return
		}

		fmt.Printf("[%d/%d] Evaluation completed: %s (score: %d/100)\n", done, len(targets), res.URL, res.Result.Score)

		plans := evaluator.SuggestPlans(res.Result.Score)
		r := report.NewReport(res.Result, plans, nil)
		if err := writeReport(cfg, r); err != nil {
			logger.Error("report failed", "target", res.URL, "error", err)
		}

		if err := saveEvaluation(ctx, db, res.Result, logger); err != nil {
			logger.Error("failed to save evaluation", "target", res.URL, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch evaluation completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// getSiteConfig returns the site-specific configuration for a target URL.
// Falls back to defaults if no site-specific config exists.
func getSiteConfig(cfg *config.Config, target string) config.SiteConfig {
	if cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}

	host := target
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		host = u.Host
	} else {
		// Bare hostname or host/path without a scheme
		for _, prefix := range []string{"http://", "https://"} {
			host = strings.TrimPrefix(host, prefix)
		}
		if i := strings.IndexByte(host, '/'); i >= 0 {
			host = host[:i]
		}
	}

	return cfg.SiteConfigs.GetSiteConfig(host)
}

// newEvaluatorForTarget creates an evaluator with per-site fetch options.
func newEvaluatorForTarget(cfg *config.Config, siteConfig config.SiteConfig, logger *slog.Logger) *engine.Evaluator {
	userAgent := cfg.UserAgent
	if siteConfig.UserAgent != "" {
		userAgent = siteConfig.UserAgent
	}

	fetchOpts := []fetch.Option{
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(userAgent),
	}
	if cfg.MaxBodySize > 0 {
		fetchOpts = append(fetchOpts, fetch.WithMaxBodySize(cfg.MaxBodySize))
	}
	if siteConfig.Cookie != "" {
		fetchOpts = append(fetchOpts, fetch.WithCookie(siteConfig.Cookie))
	}
	if len(siteConfig.Headers) > 0 {
		fetchOpts = append(fetchOpts, fetch.WithHeaders(siteConfig.Headers))
	}

	client := fetch.New(fetchOpts...)
	return engine.New(client, engine.WithLogger(logger))
}

// outputReport renders the session state in the requested format.
func outputReport(cfg *config.Config, state *store.State) error {
	if state.Current == nil {
		return errors.New("no evaluation to report")
	}

	r := report.NewReport(state.Current, state.SuggestedPlans, state.Checklist)
	return writeReport(cfg, r)
}

// writeReport writes a report to the configured destination and format.
func writeReport(cfg *config.Config, r *report.Report) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.Write(r)
	return err
}

// saveEvaluation saves the evaluation result to the database if enabled.
// If db is nil, this function is a no-op.
func saveEvaluation(ctx context.Context, db *database.HistoryDB, result *model.EvaluationResult, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveEvaluation(ctx, result)
	if err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}

	logger.Info("evaluation saved to database", "target", result.URL, "id", id)
	return nil
}
