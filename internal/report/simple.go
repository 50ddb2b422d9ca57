package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ADACompany01/adascan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no issues are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writePlans(&sb, report)
	w.writeIssues(&sb, report)
	w.writeChecklist(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with evaluation information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                    ACCESSIBILITY EVALUATION REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("URL:            %s\n", report.Result.URL))
	if report.Result.Title != "" {
		sb.WriteString(fmt.Sprintf("Page Title:     %s\n", report.Result.Title))
	}
	sb.WriteString(fmt.Sprintf("Evaluated:      %s\n", report.Result.EvaluatedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Score:          %d/100 (%s)\n", report.Result.Score, scoreGrade(report.Result.Score)))

	sb.WriteString("\n")
}

// writeSummary writes the impact summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *Report) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("IMPACT SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	counts := report.Result.CountByImpact()
	sb.WriteString(fmt.Sprintf("  CRITICAL: %d\n", counts[model.ImpactCritical]))
	sb.WriteString(fmt.Sprintf("  SERIOUS:  %d\n", counts[model.ImpactSerious]))
	sb.WriteString(fmt.Sprintf("  MODERATE: %d\n", counts[model.ImpactModerate]))
	sb.WriteString(fmt.Sprintf("  MINOR:    %d\n", counts[model.ImpactMinor]))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  TOTAL:    %d issues\n", len(report.Result.Issues)))
	sb.WriteString("\n")
}

// writePlans writes the suggested compliance plans.
func (w *SimpleWriter) writePlans(sb *strings.Builder, report *Report) {
	if len(report.Plans) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUGGESTED PLANS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Plans) == 0 {
		sb.WriteString("  No plans suggested\n")
	} else {
		for _, plan := range report.Plans {
			marker := " "
			if plan.Reachable {
				marker = "+"
			}
			sb.WriteString(fmt.Sprintf("  [%s] WCAG Level %-4s %s\n", marker, plan.Level, plan.Description))
		}
	}
	sb.WriteString("\n")
}

// writeIssues writes all issues grouped by impact.
func (w *SimpleWriter) writeIssues(sb *strings.Builder, report *Report) {
	if !report.Result.HasIssues() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ISSUES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	// Write issues in order of impact (critical first)
	impacts := []model.Impact{
		model.ImpactCritical,
		model.ImpactSerious,
		model.ImpactModerate,
		model.ImpactMinor,
	}

	for _, impact := range impacts {
		issues := report.Result.IssuesByImpact(impact)
		if len(issues) == 0 && !w.showEmpty {
			continue
		}

		w.writeIssuesForImpact(sb, impact, issues)
	}
}

// writeIssuesForImpact writes issues of a specific impact level.
func (w *SimpleWriter) writeIssuesForImpact(sb *strings.Builder, impact model.Impact, issues []model.Issue) {
	indicator := w.getImpactIndicator(impact)
	sb.WriteString(fmt.Sprintf("[%s] %s\n", indicator, strings.ToUpper(impact.String())))

	if len(issues) == 0 {
		sb.WriteString("  No issues\n\n")
		return
	}

	for _, issue := range issues {
		sb.WriteString(fmt.Sprintf("  * %s\n", issue.Label))
		if issue.Criterion != "" {
			sb.WriteString(fmt.Sprintf("    Criterion: %s\n", issue.Criterion))
		}
		if issue.Location != "" {
			sb.WriteString(fmt.Sprintf("    Location: %s\n", issue.Location))
		}
		if w.verbose {
			sb.WriteString(fmt.Sprintf("    ID: %s\n", issue.ID))
		}
	}
	sb.WriteString("\n")
}

// getImpactIndicator returns a visual indicator for the impact level.
func (w *SimpleWriter) getImpactIndicator(impact model.Impact) string {
	switch impact {
	case model.ImpactCritical:
		return "!!!"
	case model.ImpactSerious:
		return "!!"
	case model.ImpactModerate:
		return "!"
	case model.ImpactMinor:
		return "-"
	default:
		return "?"
	}
}

// writeChecklist writes the selected remediation checklist.
func (w *SimpleWriter) writeChecklist(sb *strings.Builder, report *Report) {
	if len(report.Checklist) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("REMEDIATION CHECKLIST\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, item := range report.Checklist {
		priority := "unset"
		if item.Selected() {
			priority = fmt.Sprintf("%d/%d", item.Priority, model.PriorityMax)
		}
		sb.WriteString(fmt.Sprintf("  [ ] %s (priority: %s)\n", item.Label, priority))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by adascan\n")
	sb.WriteString("https://github.com/ADACompany01/adascan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
