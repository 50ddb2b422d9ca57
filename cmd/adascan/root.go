// Package main provides the entry point for the adascan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for adascan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adascan",
		Short: "Web accessibility evaluation tool",
		Long: `adascan evaluates web pages against WCAG success criteria.

It fetches a page, runs accessibility checks on the markup, scores the
result from 0 to 100, and suggests compliance plans (WCAG A, AA, AAA)
with remediation checklists. Evaluation history is stored locally so
runs can be compared over time.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewEvaluateCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewWCAGCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
