package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ADACompany01/adascan/internal/model"
)

// Model is the evaluation collaborator the store delegates domain rules to.
// *engine.Evaluator is the production implementation; tests substitute stubs.
type Model interface {
	// IsValidURL reports whether the target is a well-formed absolute URL.
	IsValidURL(url string) bool

	// EvaluateSite analyzes the page at the URL. May fail.
	EvaluateSite(ctx context.Context, url string) (*model.EvaluationResult, error)

	// SuggestPlans proposes compliance plans for a score.
	SuggestPlans(score int) []model.Plan

	// BuildChecklist constructs a checklist from issues for a chosen plan.
	BuildChecklist(issues []model.Issue, plan model.Level) map[string]model.Issue

	// AveragePriority returns the mean priority of the items (empty: 0).
	AveragePriority(items []model.Issue) float64
}

// Observer receives a state snapshot after every transition.
type Observer func(State)

// observerEntry pairs an observer with its registration ID.
// A slice keeps notification order deterministic (registration order).
type observerEntry struct {
	id int
	fn Observer
}

// Store serializes evaluation-session state transitions and notifies
// observers after each one.
//
// The store is safe for use from multiple goroutines, but it is designed
// for a single logical thread of control: overlapping EvaluateSite calls
// are resolved with a generation token, and everything else completes
// synchronously.
type Store struct {
	mu sync.Mutex

	// model is the injected evaluation collaborator.
	model Model

	// state is the current snapshot. Replaced wholesale on every action.
	state State

	// observers are notified in registration order after every transition.
	observers []observerEntry
	nextID    int

	// queue and notifying implement FIFO notification: transitions
	// triggered by an observer during a notification pass are deferred
	// until the pass completes, preventing unbounded recursion.
	queue     []State
	notifying bool

	// generation identifies the latest EvaluateSite call. Completions of
	// superseded calls do not mutate state (their results still return to
	// their callers).
	generation uint64

	// logger is used for structured logging of transitions.
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store with empty initial state.
func New(m Model, opts ...Option) *Store {
	s := &Store{
		model: m,
		state: newState(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Subscribe registers an observer that receives the full state after every
// subsequent transition (not immediately on subscribe). The returned
// function removes exactly that observer; calling it more than once is a
// no-op.
func (s *Store) Subscribe(observer Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, observerEntry{id: id, fn: observer})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, entry := range s.observers {
			if entry.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// State returns the current snapshot. The snapshot's collections do not
// alias the store's internal storage.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// dispatch applies an action and notifies observers with the new snapshot.
//
// If a notification handler triggers a new transition, that transition's
// snapshot is queued and delivered after the current pass, so observers
// see every snapshot in transition order without interleaving.
func (s *Store) dispatch(a action) {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	s.queue = append(s.queue, s.state.clone())

	if s.notifying {
		s.mu.Unlock()
		return
	}
	s.notifying = true

	for len(s.queue) > 0 {
		snapshot := s.queue[0]
		s.queue = s.queue[1:]

		entries := make([]observerEntry, len(s.observers))
		copy(entries, s.observers)

		s.mu.Unlock()
		for _, entry := range entries {
			entry.fn(snapshot)
		}
		s.mu.Lock()
	}

	s.notifying = false
	s.mu.Unlock()
}

// EvaluateSite evaluates the page at the given URL and installs the result
// as the current evaluation.
//
// The call drives three transitions: start (loading on, error cleared),
// success (result + suggested plans) or failure (error recorded), and on
// success a separate history append. Failures are both recorded in state
// and returned to the caller.
//
// If another EvaluateSite call starts before this one resolves, this
// call's completion is discarded from state; the result (or error) is
// still returned to the caller.
func (s *Store) EvaluateSite(ctx context.Context, url string) (*model.EvaluationResult, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	s.dispatch(evaluationStarted{})

	if !s.model.IsValidURL(url) {
		err := fmt.Errorf("%w: %q", ErrInvalidURL, url)
		s.resolve(gen, evaluationFailed{message: err.Error()})
		return nil, err
	}

	result, err := s.model.EvaluateSite(ctx, url)
	if err != nil {
		s.resolve(gen, evaluationFailed{message: err.Error()})
		return nil, err
	}

	if s.resolve(gen, evaluationSucceeded{result: result, plans: s.model.SuggestPlans(result.Score)}) {
		s.dispatch(historyAppended{result: result})
	} else {
		s.logger.Debug("discarding stale evaluation", "url", url)
	}

	return result, nil
}

// resolve dispatches the completion action only if gen is still the latest
// EvaluateSite generation. Reports whether the action was applied.
func (s *Store) resolve(gen uint64, a action) bool {
	s.mu.Lock()
	current := gen == s.generation
	s.mu.Unlock()

	if current {
		s.dispatch(a)
	}
	return current
}

// SelectPlan chooses a compliance tier and rebuilds the checklist from the
// current evaluation's issues. Selecting a plan with no current evaluation
// is permitted and yields an empty checklist.
func (s *Store) SelectPlan(plan model.Level) error {
	if !plan.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPlan, plan)
	}

	var issues []model.Issue
	s.mu.Lock()
	if s.state.Current != nil {
		issues = append([]model.Issue(nil), s.state.Current.Issues...)
	}
	s.mu.Unlock()

	checklist := s.model.BuildChecklist(issues, plan)
	s.dispatch(planSelected{plan: plan, checklist: checklist})
	return nil
}

// ClearPlan resets the selected plan and checklist. The current evaluation
// is untouched. Clearing twice is the same as clearing once.
func (s *Store) ClearPlan() {
	s.dispatch(planCleared{})
}

// UpdateItemPriority sets the priority of an existing checklist entry.
// Unknown IDs are an error: a priority update never creates an entry.
func (s *Store) UpdateItemPriority(id string, priority int) error {
	if !model.ValidPriority(priority) {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, priority)
	}

	s.mu.Lock()
	_, exists := s.state.Checklist[id]
	s.mu.Unlock()
	if !exists {
		return fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}

	s.dispatch(priorityUpdated{id: id, priority: priority})
	return nil
}

// AddCustomItem inserts a user-supplied checklist entry with the given
// label and priority and returns it. The entry's ID carries a UUID suffix,
// so rapid successive insertions never collide, and its label carries the
// custom-item marker prefix.
func (s *Store) AddCustomItem(label string, priority int) (model.Issue, error) {
	if label == "" {
		return model.Issue{}, ErrEmptyLabel
	}
	if !model.ValidPriority(priority) {
		return model.Issue{}, fmt.Errorf("%w: %d", ErrInvalidPriority, priority)
	}

	issue := model.Issue{
		ID:       "custom-" + uuid.NewString(),
		Label:    model.CustomLabelPrefix + label,
		Priority: priority,
		Kind:     model.KindCustom,
	}

	s.dispatch(customItemAdded{issue: issue})
	return issue, nil
}

// SelectedItems returns the checklist entries with priority above zero,
// sorted by ID. The returned slice is a snapshot, not a live view.
func (s *Store) SelectedItems() []model.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return selectedFrom(s.state.Checklist)
}

// selectedFrom extracts the selected entries of a checklist in ID order.
func selectedFrom(checklist map[string]model.Issue) []model.Issue {
	items := make([]model.Issue, 0, len(checklist))
	for _, issue := range checklist {
		if issue.Selected() {
			items = append(items, issue)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// ClearCurrentEvaluation resets the current evaluation, selected plan,
// checklist, and plan suggestions together. History and the last error
// message are untouched.
func (s *Store) ClearCurrentEvaluation() {
	s.dispatch(evaluationCleared{})
}

// CanProceedWithRequest reports whether the session is complete enough to
// submit a remediation request: a plan is selected, a current evaluation
// exists, and at least one checklist item is selected. Pure predicate.
func (s *Store) CanProceedWithRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SelectedPlan != "" &&
		s.state.Current != nil &&
		len(selectedFrom(s.state.Checklist)) > 0
}

// RequestData returns the remediation-request snapshot, or nil when
// CanProceedWithRequest is false.
func (s *Store) RequestData() *model.RequestData {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := selectedFrom(s.state.Checklist)
	if s.state.SelectedPlan == "" || s.state.Current == nil || len(items) == 0 {
		return nil
	}

	return &model.RequestData{
		Plan:  s.state.SelectedPlan,
		Items: items,
		URL:   s.state.Current.URL,
	}
}

// AveragePriority returns the mean priority of the selected items.
// The arithmetic (including the empty-selection result of 0) is owned by
// the evaluation model.
func (s *Store) AveragePriority() float64 {
	return s.model.AveragePriority(s.SelectedItems())
}
