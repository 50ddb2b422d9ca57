package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/ADACompany01/adascan/internal/fetch"
	"github.com/ADACompany01/adascan/internal/model"
	"github.com/ADACompany01/adascan/internal/wcag"
)

// Score thresholds for plan suggestion.
//
// A page already scoring high has few severe issues left, so the stricter
// tiers are realistic targets; a low-scoring page should start at A.
const (
	// ScoreThresholdAAA is the minimum score at which AAA is suggested
	// as a reachable target.
	ScoreThresholdAAA = 90

	// ScoreThresholdAA is the minimum score at which AA is suggested
	// as a reachable target.
	ScoreThresholdAA = 70
)

// Fetcher retrieves a page for evaluation.
// *fetch.Client is the production implementation; tests substitute stubs.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// Evaluator runs accessibility evaluations and owns the session-support
// rules: plan suggestion, checklist construction, and priority arithmetic.
type Evaluator struct {
	// fetcher retrieves pages.
	fetcher Fetcher

	// checks is the ordered list of checks to run.
	checks []Check

	// logger is used for structured logging during evaluation.
	logger *slog.Logger
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithLogger sets a custom logger for the evaluator.
func WithLogger(logger *slog.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithChecks replaces the default check set.
func WithChecks(checks ...Check) EvaluatorOption {
	return func(e *Evaluator) {
		e.checks = checks
	}
}

// New creates an Evaluator that fetches pages with the given Fetcher and
// runs the default check set unless WithChecks overrides it.
func New(fetcher Fetcher, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		fetcher: fetcher,
		checks:  DefaultChecks(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// IsValidURL reports whether raw is a syntactically well-formed absolute
// http(s) URL with a host.
func (e *Evaluator) IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FormatURL normalizes a user-supplied address for evaluation: it adds an
// https scheme when none is present and strips a trailing slash from
// path-less URLs. The result is not guaranteed to be valid; callers still
// validate with IsValidURL.
func (e *Evaluator) FormatURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	if u, err := url.Parse(raw); err == nil && (u.Path == "" || u.Path == "/") && u.RawQuery == "" && u.Fragment == "" {
		u.Path = ""
		return u.String()
	}
	return raw
}

// EvaluateSite fetches and evaluates the page at the given URL.
// The URL must already be validated; EvaluateSite itself returns
// ErrInvalidURL wrapped if it is not, so callers that skip validation
// still fail safely.
func (e *Evaluator) EvaluateSite(ctx context.Context, rawURL string) (*model.EvaluationResult, error) {
	if !e.IsValidURL(rawURL) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	e.logger.Info("evaluating site", "url", rawURL)

	page, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("evaluation of %s failed: %w", rawURL, err)
	}

	if ct := page.ContentType; ct != "" &&
		!strings.Contains(ct, "text/html") && !strings.Contains(ct, "application/xhtml") {
		return nil, fmt.Errorf("%w: content type %q", ErrNotHTML, ct)
	}

	doc, err := ParseDocument(page.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", rawURL, err)
	}

	result := model.NewEvaluationResult(page.URL)
	result.Title = doc.Title
	result.ContentHash = page.Hash

	for _, check := range e.checks {
		issues := check.Run(doc)
		if len(issues) > 0 {
			e.logger.Debug("check found issues",
				"check", check.Name(),
				"count", len(issues),
			)
		}
		result.Issues = append(result.Issues, issues...)
	}

	result.Score = scoreIssues(result.Issues)

	e.logger.Info("evaluation complete",
		"url", result.URL,
		"score", result.Score,
		"issues", len(result.Issues),
	)

	return result, nil
}

// scoreIssues computes the page score: 100 minus impact-weighted
// deductions, floored at 0.
func scoreIssues(issues []model.Issue) int {
	score := 100
	for _, issue := range issues {
		score -= issue.Impact.ScoreDeduction()
	}
	if score < 0 {
		score = 0
	}
	return score
}

// SuggestPlans returns the compliance plans worth proposing for a page
// with the given score, strictest reachable tier first. Every tier is
// listed; unreachable tiers are marked so the UI can gray them out.
func (e *Evaluator) SuggestPlans(score int) []model.Plan {
	levels := []model.Level{model.LevelAAA, model.LevelAA, model.LevelA}

	plans := make([]model.Plan, 0, len(levels))
	for _, level := range levels {
		plans = append(plans, model.Plan{
			Level:       level,
			Description: wcag.LevelDescription(level),
			Reachable:   reachable(level, score),
		})
	}
	return plans
}

// reachable reports whether the tier is a realistic target at this score.
func reachable(level model.Level, score int) bool {
	switch level {
	case model.LevelAAA:
		return score >= ScoreThresholdAAA
	case model.LevelAA:
		return score >= ScoreThresholdAA
	case model.LevelA:
		return true
	}
	return false
}

// BuildChecklist constructs a checklist for the chosen plan from the given
// issues: only issues whose criterion the plan covers are included, keyed
// by issue ID with priorities reset to unselected. Issues without a
// criterion (custom ones re-submitted through this path) are always kept.
func (e *Evaluator) BuildChecklist(issues []model.Issue, plan model.Level) map[string]model.Issue {
	checklist := make(map[string]model.Issue)
	for _, issue := range issues {
		if issue.Criterion != "" {
			if c, ok := wcag.Lookup(issue.Criterion); ok && !plan.Covers(c.Level) {
				continue
			}
		}
		issue.Priority = model.PriorityUnselected
		checklist[issue.ID] = issue
	}
	return checklist
}

// AveragePriority returns the mean priority of the given items.
// An empty selection averages to 0.
func (e *Evaluator) AveragePriority(items []model.Issue) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, item := range items {
		sum += item.Priority
	}
	return float64(sum) / float64(len(items))
}
