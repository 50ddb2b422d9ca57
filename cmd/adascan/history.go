package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ADACompany01/adascan/internal/config"
	"github.com/ADACompany01/adascan/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "List stored evaluation results",
		Long: `History lists evaluations saved in the local database.

Without arguments it lists every URL that has been evaluated.
With a URL argument it shows that URL's evaluation history,
newest first, with score and issue counts per run.

Examples:
  # List all evaluated URLs
  adascan history

  # Show evaluation history for a URL
  adascan history https://example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("db-dir", "", "Database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("no evaluation history found (run 'adascan evaluate' first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		urls, err := db.ListEvaluatedURLs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list evaluated URLs: %w", err)
		}
		if len(urls) == 0 {
			fmt.Fprintln(out, "No evaluations recorded.")
			return nil
		}
		fmt.Fprintf(out, "Evaluated URLs (%d):\n", len(urls))
		for _, u := range urls {
			fmt.Fprintf(out, "  %s\n", u)
		}
		return nil
	}

	url := args[0]
	history, err := db.GetHistoryWithMetadata(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(history) == 0 {
		fmt.Fprintf(out, "No evaluations recorded for %s\n", url)
		return nil
	}

	fmt.Fprintf(out, "Evaluation history for %s (%d runs):\n\n", url, len(history))
	fmt.Fprintf(out, "%-6s %-20s %-9s %s\n", "ID", "DATE", "SCORE", "ISSUES")
	fmt.Fprintln(out, strings.Repeat("-", 60))
	for _, m := range history {
		fmt.Fprintf(out, "%-6d %-20s %3d/100   %s\n",
			m.ID,
			m.Timestamp.Format("2006-01-02 15:04:05"),
			m.Score,
			formatImpactSummary(m.ImpactSummary),
		)
	}
	return nil
}

// formatImpactSummary renders issue counts by impact in a compact form.
func formatImpactSummary(summary map[string]int) string {
	total := 0
	for _, n := range summary {
		total += n
	}
	if total == 0 {
		return "none"
	}

	parts := make([]string, 0, 4)
	for _, impact := range []string{"critical", "serious", "moderate", "minor"} {
		if n := summary[impact]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, impact))
		}
	}
	return strings.Join(parts, ", ")
}
