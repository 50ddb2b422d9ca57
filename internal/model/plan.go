package model

// Level is a WCAG conformance level.
//
// Design decision: We use a string type rather than iota constants because
// the values appear verbatim in JSON reports, CLI flags, and the database,
// and "A"/"AA"/"AAA" are the universally recognized spellings.
type Level string

const (
	// LevelA is the minimum WCAG conformance level.
	LevelA Level = "A"

	// LevelAA is the conformance level most regulations require.
	LevelAA Level = "AA"

	// LevelAAA is the strictest WCAG conformance level.
	LevelAAA Level = "AAA"
)

// Valid reports whether the level is one of A, AA, or AAA.
func (l Level) Valid() bool {
	switch l {
	case LevelA, LevelAA, LevelAAA:
		return true
	}
	return false
}

// Covers reports whether a plan at this level includes criteria of the
// other level. AA covers A, and AAA covers everything.
func (l Level) Covers(other Level) bool {
	return l.rank() >= other.rank()
}

func (l Level) rank() int {
	switch l {
	case LevelA:
		return 1
	case LevelAA:
		return 2
	case LevelAAA:
		return 3
	}
	return 0
}

// Plan is a compliance tier suggestion produced by the evaluation engine.
// The store treats plans as opaque; only Level is inspected when a plan
// is selected.
type Plan struct {
	// Level is the WCAG conformance tier this plan targets.
	Level Level `json:"level"`

	// Description summarizes what conforming at this level means.
	Description string `json:"description"`

	// Reachable indicates whether the page's current score makes this
	// tier a realistic target.
	Reachable bool `json:"reachable"`
}
