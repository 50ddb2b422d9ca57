package model

// Impact represents how severely an accessibility issue affects users.
// This allows categorizing issues by the barrier they create and weighting
// them when computing a page score.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Impact int

const (
	// ImpactMinor indicates issues with limited effect on most users.
	// Examples: redundant link text, decorative images without empty alt.
	ImpactMinor Impact = iota

	// ImpactModerate indicates issues that make content harder to use.
	// Examples: skipped heading levels, tables without header cells.
	ImpactModerate

	// ImpactSerious indicates issues that block common assistive-technology
	// workflows. Examples: form controls without labels, missing page language.
	ImpactSerious

	// ImpactCritical indicates issues that make content unusable for some
	// users. Examples: images without text alternatives, zoom disabled.
	ImpactCritical
)

// String returns a human-readable representation of the impact level.
func (i Impact) String() string {
	switch i {
	case ImpactMinor:
		return "MINOR"
	case ImpactModerate:
		return "MODERATE"
	case ImpactSerious:
		return "SERIOUS"
	case ImpactCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ScoreDeduction returns the number of points an issue of this impact
// removes from a page's score. Scores start at 100 and never go below 0.
//
// The weights are deliberately coarse: scoring exists to rank pages and
// pick a realistic compliance plan, not to certify conformance.
func (i Impact) ScoreDeduction() int {
	switch i {
	case ImpactMinor:
		return 1
	case ImpactModerate:
		return 3
	case ImpactSerious:
		return 5
	case ImpactCritical:
		return 10
	default:
		return 0
	}
}
