package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ADACompany01/adascan/internal/model"
	"github.com/ADACompany01/adascan/internal/wcag"
)

// NewWCAGCmd creates the wcag command.
// This command browses the built-in WCAG success criterion catalog.
func NewWCAGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wcag [level|criterion-id]",
		Short: "Show WCAG success criteria known to the evaluator",
		Long: `WCAG lists the success criteria the evaluator checks against.

With a conformance level (A, AA, or AAA) it lists every criterion at or
below that level. With a criterion ID (e.g. 1.1.1) it shows the full
description and remediation guidance for that criterion.

Examples:
  # List criteria required for Level AA conformance
  adascan wcag AA

  # Show details for a single criterion
  adascan wcag 1.4.4

  # List criteria in JSON format
  adascan wcag --json A`,
		Args: cobra.ExactArgs(1),
		RunE: runWCAGCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output in JSON format")

	return cmd
}

// runWCAGCmd executes the wcag command.
func runWCAGCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	arg := args[0]
	out := cmd.OutOrStdout()

	// A criterion ID contains dots; a level does not
	if strings.Contains(arg, ".") {
		criterion, ok := wcag.Lookup(arg)
		if !ok {
			return fmt.Errorf("unknown success criterion: %s", arg)
		}

		if jsonOutput {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(criterion)
		}

		fmt.Fprintf(out, "WCAG %s: %s (Level %s)\n", criterion.ID, criterion.Name, criterion.Level)
		fmt.Fprintf(out, "Impact: %s\n\n", criterion.Impact)
		fmt.Fprintf(out, "%s\n\n", criterion.Description)
		fmt.Fprintf(out, "Recommendation: %s\n", criterion.Recommendation)
		return nil
	}

	level := model.Level(strings.ToUpper(arg))
	switch level {
	case model.LevelA, model.LevelAA, model.LevelAAA:
	default:
		return fmt.Errorf("invalid conformance level %q (valid: A, AA, AAA)", arg)
	}

	items := wcag.ItemsForLevel(level)

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(items)
	}

	fmt.Fprintf(out, "WCAG Level %s: %s\n", level, wcag.LevelDescription(level))
	fmt.Fprintf(out, "Criteria (%d):\n\n", len(items))
	for _, c := range items {
		fmt.Fprintf(out, "  %-8s %-35s Level %-4s %s\n", c.ID, c.Name, c.Level, c.Impact)
	}
	return nil
}
