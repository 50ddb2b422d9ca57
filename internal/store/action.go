package store

import (
	"github.com/ADACompany01/adascan/internal/model"
)

// action is the closed set of state transitions.
// One variant exists per mutating operation; the reducer matches
// exhaustively, so adding a variant without handling it is caught by the
// default panic in tests immediately.
type action interface {
	isAction()
}

// evaluationStarted begins an evaluation: loading on, previous error cleared.
type evaluationStarted struct{}

// evaluationSucceeded installs a new current evaluation and its suggested
// plans, and ends loading.
type evaluationSucceeded struct {
	result *model.EvaluationResult
	plans  []model.Plan
}

// evaluationFailed records an evaluation error and ends loading.
type evaluationFailed struct {
	message string
}

// historyAppended prepends a result to the evaluation history.
// Applied as a separate transition after evaluationSucceeded.
type historyAppended struct {
	result *model.EvaluationResult
}

// planSelected installs a compliance plan and its freshly built checklist.
type planSelected struct {
	plan      model.Level
	checklist map[string]model.Issue
}

// planCleared resets the selected plan and checklist.
type planCleared struct{}

// priorityUpdated changes the priority of an existing checklist entry.
type priorityUpdated struct {
	id       string
	priority int
}

// customItemAdded inserts a user-supplied checklist entry.
type customItemAdded struct {
	issue model.Issue
}

// evaluationCleared resets the current evaluation, plan, checklist, and
// suggestions together. History and the error message are untouched.
type evaluationCleared struct{}

func (evaluationStarted) isAction()   {}
func (evaluationSucceeded) isAction() {}
func (evaluationFailed) isAction()    {}
func (historyAppended) isAction()     {}
func (planSelected) isAction()        {}
func (planCleared) isAction()         {}
func (priorityUpdated) isAction()     {}
func (customItemAdded) isAction()     {}
func (evaluationCleared) isAction()   {}

// reduce produces the next state for an action. It never mutates prev's
// collections: any collection that changes is replaced.
func reduce(prev State, a action) State {
	next := prev

	switch a := a.(type) {
	case evaluationStarted:
		next.Loading = true
		next.Err = ""

	case evaluationSucceeded:
		next.Current = a.result
		next.SuggestedPlans = a.plans
		next.Loading = false
		next.Err = ""

	case evaluationFailed:
		next.Loading = false
		next.Err = a.message

	case historyAppended:
		history := make([]*model.EvaluationResult, 0, len(prev.History)+1)
		history = append(history, a.result)
		history = append(history, prev.History...)
		next.History = history

	case planSelected:
		next.SelectedPlan = a.plan
		next.Checklist = a.checklist

	case planCleared:
		next.SelectedPlan = ""
		next.Checklist = make(map[string]model.Issue)

	case priorityUpdated:
		checklist := cloneChecklist(prev.Checklist)
		item := checklist[a.id]
		item.Priority = a.priority
		checklist[a.id] = item
		next.Checklist = checklist

	case customItemAdded:
		checklist := cloneChecklist(prev.Checklist)
		checklist[a.issue.ID] = a.issue
		next.Checklist = checklist

	case evaluationCleared:
		next.Current = nil
		next.SelectedPlan = ""
		next.SuggestedPlans = nil
		next.Checklist = make(map[string]model.Issue)

	default:
		panic("store: unhandled action")
	}

	return next
}
