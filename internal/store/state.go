package store

import (
	"github.com/ADACompany01/adascan/internal/model"
)

// State is one immutable snapshot of the evaluation session.
//
// Snapshots handed to observers or returned by Store.State never alias the
// store's internal collections: slices and maps are copied on every read.
// EvaluationResult and Issue values are treated as immutable leaves and may
// be structurally shared.
type State struct {
	// Current is the most recent successful evaluation, or nil.
	Current *model.EvaluationResult

	// SelectedPlan is the chosen compliance tier, or empty when none is
	// selected. A non-empty plan implies Checklist was built from the
	// issues of the evaluation current at selection time.
	SelectedPlan model.Level

	// SuggestedPlans are the plans proposed for Current's score,
	// strictest first. Empty when Current is nil.
	SuggestedPlans []model.Plan

	// Checklist maps issue IDs to checklist entries.
	Checklist map[string]model.Issue

	// Loading is true strictly between an evaluation start and its
	// success or error resolution.
	Loading bool

	// Err is the message of the last evaluation failure, empty when the
	// last evaluation start cleared it or none occurred.
	Err string

	// History holds all successful evaluations, most recent first.
	// It grows without bound and is never reset automatically.
	History []*model.EvaluationResult
}

// clone returns a snapshot whose collections do not alias the receiver's.
func (s State) clone() State {
	next := s
	next.SuggestedPlans = append([]model.Plan(nil), s.SuggestedPlans...)
	next.History = append([]*model.EvaluationResult(nil), s.History...)
	next.Checklist = cloneChecklist(s.Checklist)
	return next
}

// cloneChecklist copies a checklist map.
func cloneChecklist(checklist map[string]model.Issue) map[string]model.Issue {
	next := make(map[string]model.Issue, len(checklist))
	for id, issue := range checklist {
		next[id] = issue
	}
	return next
}

// newState returns the empty initial session state.
func newState() State {
	return State{
		Checklist: make(map[string]model.Issue),
	}
}
