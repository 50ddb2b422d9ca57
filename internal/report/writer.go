package report

import (
	"io"
	"sort"
	"time"

	"github.com/ADACompany01/adascan/internal/model"
)

// Report bundles everything a writer needs to render one evaluation:
// the result itself, the suggested compliance plans, and the checklist
// items chosen for remediation (empty when no plan was selected).
//
// Design decision: We wrap the evaluation result rather than extending
// it because plans and checklist are session-level data. Keeping them
// out of EvaluationResult lets the database store results unchanged.
type Report struct {
	// Result is the evaluation being reported.
	Result *model.EvaluationResult

	// Plans are the suggested compliance plans, strictest first.
	Plans []model.Plan

	// Checklist holds the remediation items, sorted by ID.
	Checklist []model.Issue

	// GeneratedAt is when the report was rendered.
	GeneratedAt time.Time
}

// NewReport creates a Report for the given result and plan suggestions.
// Checklist items are passed as a map (as the session holds them) and
// sorted by ID for stable output.
func NewReport(result *model.EvaluationResult, plans []model.Plan, checklist map[string]model.Issue) *Report {
	items := make([]model.Issue, 0, len(checklist))
	for _, item := range checklist {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return &Report{
		Result:      result,
		Plans:       plans,
		Checklist:   items,
		GeneratedAt: time.Now(),
	}
}

// Writer defines the interface for report output.
// Implementations write evaluation results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *Report) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// scoreGrade maps a score to a short verdict used by writers.
func scoreGrade(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 70:
		return "Good"
	case score >= 50:
		return "Needs Work"
	default:
		return "Poor"
	}
}
