package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ADACompany01/adascan/internal/config"
	"github.com/ADACompany01/adascan/internal/database"
	"github.com/ADACompany01/adascan/internal/model"
)

// Constants for score change direction.
const (
	scoreDirectionWorsened  = "worsened"
	scoreDirectionImproved  = "improved"
	scoreDirectionUnchanged = "unchanged"
)

// NewCompareCmd creates the compare command.
// This command compares evaluation results with historical data stored in the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [url]",
		Short: "Compare evaluation results with historical data",
		Long: `Compare displays differences between the current and previous evaluations.

This command retrieves historical evaluation data from the database and shows:
- New issues that appeared since the last evaluation
- Resolved issues that are no longer present
- The change in accessibility score

The comparison requires at least two evaluations in the database for the
specified URL. Use 'adascan evaluate' to evaluate pages and save results.

Examples:
  # Compare latest two evaluations for a page
  adascan compare https://example.com

  # Compare with a specific historical evaluation by ID
  adascan compare --with-id 5 https://example.com

  # Compare with the first evaluation since a date
  adascan compare --since "2026-01-01" https://example.com

  # Output comparison in JSON format
  adascan compare --json https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runCompareCmd,
	}

	// Comparison target flags
	cmd.Flags().Int64P("with-id", "i", 0,
		"Compare with a specific evaluation by ID (use 'adascan history <url>' to see IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first evaluation after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	url := args[0]

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	withID, err := cmd.Flags().GetInt64("with-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return runComparison(cmd.Context(), db, url, withID, sinceDate, jsonOutput, markdownOutput)
}

// runComparison performs the actual comparison between evaluation results.
func runComparison(ctx context.Context, db *database.HistoryDB, url string, withID int64, sinceDate string, jsonOutput, markdownOutput bool) error {
	history, err := db.GetEvaluationHistory(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to get evaluation history: %w", err)
	}

	if len(history) == 0 {
		return fmt.Errorf("no evaluation history found for %s", url)
	}

	if len(history) < 2 && withID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 evaluations are required for comparison (found %d)", len(history))
	}

	// Latest result is always the current one
	current := history[0]

	var previous *model.EvaluationResult
	switch {
	case withID > 0:
		previous, err = db.GetEvaluationByID(ctx, withID)
		if err != nil {
			return fmt.Errorf("failed to get evaluation with ID %d: %w", withID, err)
		}
		if previous == nil {
			return fmt.Errorf("evaluation with ID %d not found", withID)
		}
		// Validate that the ID belongs to the same page
		if previous.URL != url {
			return fmt.Errorf("evaluation ID %d belongs to %s, not %s", withID, previous.URL, url)
		}
	case sinceDate != "":
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// History is sorted newest first, so iterate in reverse to find
		// the oldest evaluation at or after the date.
		for i := len(history) - 1; i >= 0; i-- {
			r := history[i]
			if !r.EvaluatedAt.Before(parsedDate) {
				previous = r
				break
			}
		}
		if previous == nil {
			return fmt.Errorf("no evaluations found since %s", sinceDate)
		}
		if previous == current {
			return fmt.Errorf("only one evaluation found since %s; at least 2 evaluations are required for comparison", sinceDate)
		}
	default:
		previous = history[1]
	}

	comparison := compareResults(previous, current)

	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two evaluations.
type ComparisonResult struct {
	// URL is the evaluated page address.
	URL string `json:"url"`

	// Previous contains metadata about the previous evaluation.
	Previous EvaluationSummary `json:"previous"`

	// Current contains metadata about the current evaluation.
	Current EvaluationSummary `json:"current"`

	// NewIssues contains issues that are new in the current evaluation.
	NewIssues []model.Issue `json:"new_issues,omitempty"`

	// ResolvedIssues contains issues that were present before but are no
	// longer found.
	ResolvedIssues []model.Issue `json:"resolved_issues,omitempty"`

	// UnchangedCount is the number of issues present in both evaluations.
	UnchangedCount int `json:"unchanged_count"`

	// ScoreChange describes the change in accessibility between evaluations.
	ScoreChange ScoreChange `json:"score_change"`
}

// EvaluationSummary contains metadata about one evaluation for comparison display.
type EvaluationSummary struct {
	// EvaluatedAt is when the evaluation was performed.
	EvaluatedAt time.Time `json:"evaluated_at"`

	// Score is the accessibility score (0-100).
	Score int `json:"score"`

	// TotalIssues is the total number of issues found.
	TotalIssues int `json:"total_issues"`

	// CriticalCount is the number of critical issues.
	CriticalCount int `json:"critical_count"`

	// SeriousCount is the number of serious issues.
	SeriousCount int `json:"serious_count"`

	// ModerateCount is the number of moderate issues.
	ModerateCount int `json:"moderate_count"`

	// MinorCount is the number of minor issues.
	MinorCount int `json:"minor_count"`
}

// ScoreChange describes the change in accessibility between evaluations.
type ScoreChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// ScoreDelta is the change in the 0-100 score.
	ScoreDelta int `json:"score_delta"`

	// CriticalDelta is the change in critical issue count.
	CriticalDelta int `json:"critical_delta"`

	// SeriousDelta is the change in serious issue count.
	SeriousDelta int `json:"serious_delta"`

	// ModerateDelta is the change in moderate issue count.
	ModerateDelta int `json:"moderate_delta"`

	// MinorDelta is the change in minor issue count.
	MinorDelta int `json:"minor_delta"`
}

// compareResults compares two evaluation results and generates a comparison.
func compareResults(previous, current *model.EvaluationResult) *ComparisonResult {
	result := &ComparisonResult{
		URL:      current.URL,
		Previous: summarize(previous),
		Current:  summarize(current),
	}

	// Build issue maps for comparison
	previousIssues := make(map[string]model.Issue)
	for _, issue := range previous.Issues {
		previousIssues[issueKey(issue)] = issue
	}
	currentIssues := make(map[string]model.Issue)
	for _, issue := range current.Issues {
		currentIssues[issueKey(issue)] = issue
	}

	// New issues: in current but not in previous
	for key, issue := range currentIssues {
		if _, exists := previousIssues[key]; !exists {
			result.NewIssues = append(result.NewIssues, issue)
		}
	}

	// Resolved issues: in previous but not in current
	for key, issue := range previousIssues {
		if _, exists := currentIssues[key]; !exists {
			result.ResolvedIssues = append(result.ResolvedIssues, issue)
		} else {
			result.UnchangedCount++
		}
	}

	result.ScoreChange = calculateScoreChange(result.Previous, result.Current)

	return result
}

// summarize extracts display metadata from an evaluation result.
func summarize(r *model.EvaluationResult) EvaluationSummary {
	counts := r.CountByImpact()
	return EvaluationSummary{
		EvaluatedAt:   r.EvaluatedAt,
		Score:         r.Score,
		TotalIssues:   len(r.Issues),
		CriticalCount: counts[model.ImpactCritical],
		SeriousCount:  counts[model.ImpactSerious],
		ModerateCount: counts[model.ImpactModerate],
		MinorCount:    counts[model.ImpactMinor],
	}
}

// issueKey generates a stable key for an issue for comparison purposes.
// Issue IDs carry document-order ordinals that shift when unrelated markup
// changes, so identity is derived from what and where instead.
func issueKey(i model.Issue) string {
	return i.Criterion + "|" + i.Label + "|" + i.Location
}

// calculateScoreChange calculates the change between two evaluations.
func calculateScoreChange(previous, current EvaluationSummary) ScoreChange {
	change := ScoreChange{
		ScoreDelta:    current.Score - previous.Score,
		CriticalDelta: current.CriticalCount - previous.CriticalCount,
		SeriousDelta:  current.SeriousCount - previous.SeriousCount,
		ModerateDelta: current.ModerateCount - previous.ModerateCount,
		MinorDelta:    current.MinorCount - previous.MinorCount,
	}

	// The score already weighs issues by impact, so the direction follows it
	if change.ScoreDelta > 0 {
		change.Direction = scoreDirectionImproved
	} else if change.ScoreDelta < 0 {
		change.Direction = scoreDirectionWorsened
	} else {
		change.Direction = scoreDirectionUnchanged
	}

	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(result *ComparisonResult) error {
	fmt.Printf("# Evaluation Comparison: %s\n\n", result.URL)

	fmt.Println("## Summary")
	fmt.Printf("\n**Accessibility:** %s\n\n", formatScoreDirection(result.ScoreChange.Direction))

	fmt.Println("| Metric | Previous | Current | Change |")
	fmt.Println("|--------|----------|---------|--------|")
	fmt.Printf("| Date | %s | %s | - |\n",
		result.Previous.EvaluatedAt.Format("2006-01-02 15:04"),
		result.Current.EvaluatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("| Score | %d | %d | %s |\n",
		result.Previous.Score, result.Current.Score,
		formatDelta(result.ScoreChange.ScoreDelta))
	fmt.Printf("| Critical | %d | %d | %s |\n",
		result.Previous.CriticalCount, result.Current.CriticalCount,
		formatDelta(result.ScoreChange.CriticalDelta))
	fmt.Printf("| Serious | %d | %d | %s |\n",
		result.Previous.SeriousCount, result.Current.SeriousCount,
		formatDelta(result.ScoreChange.SeriousDelta))
	fmt.Printf("| Moderate | %d | %d | %s |\n",
		result.Previous.ModerateCount, result.Current.ModerateCount,
		formatDelta(result.ScoreChange.ModerateDelta))
	fmt.Printf("| Minor | %d | %d | %s |\n",
		result.Previous.MinorCount, result.Current.MinorCount,
		formatDelta(result.ScoreChange.MinorDelta))
	fmt.Printf("| **Total** | **%d** | **%d** | **%s** |\n",
		result.Previous.TotalIssues, result.Current.TotalIssues,
		formatDelta(result.Current.TotalIssues-result.Previous.TotalIssues))

	if len(result.NewIssues) > 0 {
		fmt.Printf("\n## New Issues (%d)\n\n", len(result.NewIssues))
		for _, issue := range result.NewIssues {
			fmt.Printf("- **[%s]** %s", issue.Impact, issue.Label)
			if issue.Criterion != "" {
				fmt.Printf(" (WCAG %s)", issue.Criterion)
			}
			fmt.Println()
			if issue.Location != "" {
				fmt.Printf("  - Location: `%s`\n", issue.Location)
			}
		}
	}

	if len(result.ResolvedIssues) > 0 {
		fmt.Printf("\n## Resolved Issues (%d)\n\n", len(result.ResolvedIssues))
		for _, issue := range result.ResolvedIssues {
			fmt.Printf("- ~~**[%s]** %s~~\n", issue.Impact, issue.Label)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\n---\n\n*%d issues unchanged*\n", result.UnchangedCount)
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Evaluation Comparison: %s\n", result.URL)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nAccessibility: %s\n", formatScoreDirection(result.ScoreChange.Direction))

	fmt.Printf("\nPrevious evaluation: %s (score: %d/100)\n",
		result.Previous.EvaluatedAt.Format("2006-01-02 15:04:05"), result.Previous.Score)
	fmt.Printf("Current evaluation:  %s (score: %d/100)\n",
		result.Current.EvaluatedAt.Format("2006-01-02 15:04:05"), result.Current.Score)

	fmt.Println("\nIssue Summary:")
	fmt.Printf("  %-10s  %-10s  %-10s  %-10s\n", "Impact", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Critical",
		result.Previous.CriticalCount, result.Current.CriticalCount,
		formatDelta(result.ScoreChange.CriticalDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Serious",
		result.Previous.SeriousCount, result.Current.SeriousCount,
		formatDelta(result.ScoreChange.SeriousDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Moderate",
		result.Previous.ModerateCount, result.Current.ModerateCount,
		formatDelta(result.ScoreChange.ModerateDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Minor",
		result.Previous.MinorCount, result.Current.MinorCount,
		formatDelta(result.ScoreChange.MinorDelta))
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Total",
		result.Previous.TotalIssues, result.Current.TotalIssues,
		formatDelta(result.Current.TotalIssues-result.Previous.TotalIssues))

	if len(result.NewIssues) > 0 {
		fmt.Printf("\nNew Issues (%d):\n", len(result.NewIssues))
		for _, issue := range result.NewIssues {
			fmt.Printf("  [+] [%s] %s\n", issue.Impact, issue.Label)
			if issue.Location != "" {
				fmt.Printf("      Location: %s\n", issue.Location)
			}
		}
	}

	if len(result.ResolvedIssues) > 0 {
		fmt.Printf("\nResolved Issues (%d):\n", len(result.ResolvedIssues))
		for _, issue := range result.ResolvedIssues {
			fmt.Printf("  [-] [%s] %s\n", issue.Impact, issue.Label)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d issues\n", result.UnchangedCount)
	}

	return nil
}

// formatScoreDirection formats the score change direction for display.
func formatScoreDirection(direction string) string {
	switch direction {
	case scoreDirectionImproved:
		return "IMPROVED (score increased)"
	case scoreDirectionWorsened:
		return "WORSENED (score decreased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with a sign prefix.
func formatDelta(delta int) string {
	if delta > 0 {
		return fmt.Sprintf("+%d", delta)
	}
	if delta < 0 {
		return fmt.Sprintf("%d", delta)
	}
	return "±0"
}
