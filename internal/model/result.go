package model

import "time"

// EvaluationResult is the outcome of analyzing one URL.
// It is immutable once produced by the engine: the store and report layers
// copy it but never modify it.
type EvaluationResult struct {
	// URL is the evaluated address after normalization.
	URL string `json:"url"`

	// Score is the accessibility score in the range 0-100.
	// 100 means no issues were found by the enabled checks.
	Score int `json:"score"`

	// Issues is the ordered list of findings, in document order.
	Issues []Issue `json:"issues"`

	// Title is the page title, if one was present.
	Title string `json:"title,omitempty"`

	// ContentHash is the SHA3-256 hex digest of the fetched body.
	// Used to detect whether a page changed between evaluations.
	ContentHash string `json:"content_hash,omitempty"`

	// EvaluatedAt is the timestamp when the evaluation was performed.
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// NewEvaluationResult creates a result for the given URL with the
// evaluation timestamp set to now.
func NewEvaluationResult(url string) *EvaluationResult {
	return &EvaluationResult{
		URL:         url,
		EvaluatedAt: time.Now(),
	}
}

// CountByImpact returns the number of issues at each impact level.
func (r *EvaluationResult) CountByImpact() map[Impact]int {
	counts := make(map[Impact]int)
	for _, issue := range r.Issues {
		counts[issue.Impact]++
	}
	return counts
}

// IssuesByImpact returns issues filtered by impact level, in document order.
func (r *EvaluationResult) IssuesByImpact(impact Impact) []Issue {
	var result []Issue
	for _, issue := range r.Issues {
		if issue.Impact == impact {
			result = append(result, issue)
		}
	}
	return result
}

// HasIssues reports whether the evaluation found any issue.
func (r *EvaluationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// Clone returns a copy of the result whose Issues slice does not alias
// the receiver's. Issue values themselves are immutable leaves.
func (r *EvaluationResult) Clone() *EvaluationResult {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Issues = append([]Issue(nil), r.Issues...)
	return &clone
}

// RequestData is the snapshot handed to the remediation-request flow once a
// session is complete: a selected plan, the items chosen to act on, and the
// URL they came from.
type RequestData struct {
	// Plan is the selected compliance tier.
	Plan Level `json:"plan"`

	// Items are the selected checklist entries (priority > 0).
	Items []Issue `json:"items"`

	// URL is the source URL of the evaluation the checklist was built from.
	URL string `json:"url"`
}
