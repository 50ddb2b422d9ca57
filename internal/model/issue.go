package model

// IssueKind distinguishes how a checklist entry came to exist.
type IssueKind string

const (
	// KindSystem marks issues produced by the evaluation engine.
	KindSystem IssueKind = "system"

	// KindCustom marks issues added manually by the user.
	KindCustom IssueKind = "custom"
)

// Priority bounds for checklist entries.
// Zero means the entry is known but not selected; 1-5 means selected with
// that urgency (5 is most urgent).
const (
	PriorityUnselected = 0
	PriorityMax        = 5
)

// CustomLabelPrefix marks user-supplied checklist entries in display labels.
const CustomLabelPrefix = "[custom] "

// Issue is a single accessibility finding.
//
// An Issue starts as an engine finding attached to an EvaluationResult and
// may later be promoted into a checklist entry, at which point Priority
// becomes meaningful. The ID is stable and unique within a checklist.
type Issue struct {
	// ID uniquely identifies the issue within a checklist.
	// Engine issues use "<check>-<ordinal>"; custom issues use a UUID suffix.
	ID string `json:"id"`

	// Label is the human-readable description shown in checklists.
	// Custom issues carry CustomLabelPrefix.
	Label string `json:"label"`

	// Priority is 0 when the entry is not selected, or 1-5 when selected.
	Priority int `json:"priority"`

	// Kind records whether the issue came from the engine or the user.
	Kind IssueKind `json:"kind"`

	// Criterion is the WCAG success criterion identifier (e.g., "1.1.1").
	// Empty for custom issues.
	Criterion string `json:"criterion,omitempty"`

	// Impact is the severity of the barrier this issue creates.
	Impact Impact `json:"impact"`

	// Location describes where the issue was found (element snippet or path).
	Location string `json:"location,omitempty"`
}

// Selected reports whether the issue has been chosen to act on.
// Only priorities above zero count as selected.
func (i Issue) Selected() bool {
	return i.Priority > PriorityUnselected
}

// ValidPriority reports whether p is within the allowed priority range.
func ValidPriority(p int) bool {
	return p >= PriorityUnselected && p <= PriorityMax
}
