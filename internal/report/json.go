package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/ADACompany01/adascan/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is included in the output when set.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// WithVersion embeds the application version in the JSON output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter:   newBaseWriter(output),
		indent:       false,
		indentPrefix: "",
		indentString: "",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// jsonReport is the wire shape of a rendered report.
//
// Design decision: We define an output-specific struct rather than
// marshalling Report directly because this allows adding metadata
// (version, grade, impact counts) without polluting the core data.
type jsonReport struct {
	// Version is the adascan version that generated this report.
	Version string `json:"version,omitempty"`

	// GeneratedAt is when the report was rendered.
	GeneratedAt time.Time `json:"generatedAt"`

	// Grade is the short verdict derived from the score.
	Grade string `json:"grade"`

	// ImpactSummary counts issues by impact level.
	ImpactSummary map[string]int `json:"impactSummary"`

	// Result is the full evaluation result.
	Result *model.EvaluationResult `json:"result"`

	// Plans are the suggested compliance plans.
	Plans []model.Plan `json:"plans,omitempty"`

	// Checklist holds the remediation items, if a plan was selected.
	Checklist []model.Issue `json:"checklist,omitempty"`
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *Report) (int, error) {
	counts := report.Result.CountByImpact()
	out := jsonReport{
		Version:     w.version,
		GeneratedAt: report.GeneratedAt,
		Grade:       scoreGrade(report.Result.Score),
		ImpactSummary: map[string]int{
			"critical": counts[model.ImpactCritical],
			"serious":  counts[model.ImpactSerious],
			"moderate": counts[model.ImpactModerate],
			"minor":    counts[model.ImpactMinor],
		},
		Result:    report.Result,
		Plans:     report.Plans,
		Checklist: report.Checklist,
	}

	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(out, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(out)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
