package store

import "errors"

// Store operation errors.
//
// Design decision: We use package-level sentinel errors so callers can
// branch with errors.Is(). Validation failures are both recorded in the
// state (for observers rendering UI) and returned to the caller (for flow
// control); nothing is swallowed.
var (
	// ErrInvalidURL is returned by EvaluateSite for targets that are not
	// well-formed absolute URLs. Raised before any network activity.
	ErrInvalidURL = errors.New("invalid URL: must be an absolute http or https URL")

	// ErrInvalidPlan is returned by SelectPlan for levels outside A/AA/AAA.
	ErrInvalidPlan = errors.New("invalid plan: must be A, AA, or AAA")

	// ErrInvalidPriority is returned when a priority is outside 0-5.
	ErrInvalidPriority = errors.New("invalid priority: must be between 0 and 5")

	// ErrUnknownItem is returned by UpdateItemPriority when no checklist
	// entry exists with the given ID. The store never creates partial
	// entries from a priority update.
	ErrUnknownItem = errors.New("no checklist item with this id")

	// ErrEmptyLabel is returned by AddCustomItem for blank labels.
	ErrEmptyLabel = errors.New("custom item label must not be empty")
)
