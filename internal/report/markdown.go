package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/ADACompany01/adascan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writePlans(md, report)
	w.writeIssues(md, report)
	w.writeChecklist(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with evaluation information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *Report) {
	md.H1("Accessibility Evaluation Report")
	md.PlainText("")

	title := report.Result.Title
	if title == "" {
		title = "-"
	}

	// Basic info table
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + report.Result.URL + "`"},
			{"Page Title", title},
			{"Evaluated", report.Result.EvaluatedAt.Format("2006-01-02 15:04:05 MST")},
			{"Score", fmt.Sprintf("**%d/100** (%s)", report.Result.Score, scoreGrade(report.Result.Score))},
		},
	})
	md.PlainText("")
}

// writeSummary writes the impact summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *Report) {
	md.H2("Impact Summary")
	md.PlainText("")

	counts := report.Result.CountByImpact()
	critical := counts[model.ImpactCritical]
	serious := counts[model.ImpactSerious]
	moderate := counts[model.ImpactModerate]
	minor := counts[model.ImpactMinor]

	// Summary table
	md.Table(markdown.TableSet{
		Header: []string{"Impact", "Count"},
		Rows: [][]string{
			{"🔴 Critical", strconv.Itoa(critical)},
			{"🟠 Serious", strconv.Itoa(serious)},
			{"🟡 Moderate", strconv.Itoa(moderate)},
			{"🔵 Minor", strconv.Itoa(minor)},
			{"**Total**", "**" + strconv.Itoa(len(report.Result.Issues)) + "**"},
		},
	})
	md.PlainText("")

	// Add pie chart if there are issues
	if report.Result.HasIssues() {
		w.writePieChart(md, critical, serious, moderate, minor)
	}

	// Add alert based on impact
	w.writeAlert(md, report, critical, serious, moderate)
}

// writePieChart writes a mermaid pie chart for impact distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, critical, serious, moderate, minor int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Impact Distribution"),
		piechart.WithShowData(true),
	)

	if critical > 0 {
		chart.LabelAndIntValue("Critical", uint64(critical))
	}
	if serious > 0 {
		chart.LabelAndIntValue("Serious", uint64(serious))
	}
	if moderate > 0 {
		chart.LabelAndIntValue("Moderate", uint64(moderate))
	}
	if minor > 0 {
		chart.LabelAndIntValue("Minor", uint64(minor))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on impact counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *Report, critical, serious, moderate int) {
	switch {
	case critical > 0:
		md.Cautionf(
			"Critical accessibility barriers detected! %d critical issue(s) block some users entirely.",
			critical,
		)
	case serious > 0:
		md.Warningf(
			"Serious accessibility issues detected. %d serious issue(s) should be addressed.",
			serious,
		)
	case moderate > 0:
		md.Importantf(
			"Moderate accessibility issues found. %d issue(s) degrade the experience for some users.",
			moderate,
		)
	case report.Result.HasIssues():
		md.Note("Only minor accessibility issues detected.")
	default:
		md.Tip("No accessibility issues detected.")
	}
	md.PlainText("")
}

// writePlans writes the suggested compliance plans section.
func (w *MarkdownWriter) writePlans(md *markdown.Markdown, report *Report) {
	md.H2("Suggested Plans")
	md.PlainText("")

	if len(report.Plans) == 0 {
		md.PlainText("No compliance plans suggested.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Plans))
	for i, plan := range report.Plans {
		reachable := "No"
		if plan.Reachable {
			reachable = "Yes"
		}
		rows[i] = []string{"WCAG " + string(plan.Level), reachable, plan.Description}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Level", "Reachable", "Description"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeIssues writes all issues grouped by impact.
func (w *MarkdownWriter) writeIssues(md *markdown.Markdown, report *Report) {
	md.H2("Issues")
	md.PlainText("")

	if !report.Result.HasIssues() {
		md.PlainText("No accessibility issues detected.")
		md.PlainText("")
		return
	}

	impacts := []struct {
		level  model.Impact
		header string
	}{
		{model.ImpactCritical, "### 🔴 Critical"},
		{model.ImpactSerious, "### 🟠 Serious"},
		{model.ImpactModerate, "### 🟡 Moderate"},
		{model.ImpactMinor, "### 🔵 Minor"},
	}

	for _, imp := range impacts {
		issues := report.Result.IssuesByImpact(imp.level)
		if len(issues) == 0 {
			continue
		}

		md.PlainText(imp.header)
		md.PlainText("")
		w.writeIssuesTable(md, issues)
	}
}

// writeIssuesTable writes a table of issues with details.
func (w *MarkdownWriter) writeIssuesTable(md *markdown.Markdown, issues []model.Issue) {
	headers := []string{"Issue", "Criterion", "Location"}

	rows := make([][]string, len(issues))
	for i, issue := range issues {
		criterion := issue.Criterion
		if criterion == "" {
			criterion = "-"
		}
		location := issue.Location
		if location == "" {
			location = "-"
		}

		rows[i] = []string{
			sanitizeCell(issue.Label),
			criterion,
			"`" + sanitizeCell(truncateString(location, 40)) + "`",
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")
}

// writeChecklist writes the selected remediation checklist.
func (w *MarkdownWriter) writeChecklist(md *markdown.Markdown, report *Report) {
	if len(report.Checklist) == 0 {
		return
	}

	md.H2("Remediation Checklist")
	md.PlainText("")

	items := make([]string, len(report.Checklist))
	for i, item := range report.Checklist {
		if item.Selected() {
			items[i] = fmt.Sprintf("%s (priority %d/%d)", item.Label, item.Priority, model.PriorityMax)
		} else {
			items[i] = item.Label
		}
	}

	md.CheckBox(checkBoxSet(items))
	md.PlainText("")
}

// checkBoxSet converts labels to unchecked markdown checkbox entries.
func checkBoxSet(items []string) []markdown.CheckBoxSet {
	set := make([]markdown.CheckBoxSet, len(items))
	for i, item := range items {
		set[i] = markdown.CheckBoxSet{Checked: false, Text: item}
	}
	return set
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [adascan](https://github.com/ADACompany01/adascan)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// sanitizeCell escapes characters that would break a markdown table cell.
func sanitizeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
