package model

import (
	"testing"
	"time"
)

// TestImpactString tests the human-readable impact names.
func TestImpactString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		impact Impact
		want   string
	}{
		{ImpactMinor, "MINOR"},
		{ImpactModerate, "MODERATE"},
		{ImpactSerious, "SERIOUS"},
		{ImpactCritical, "CRITICAL"},
		{Impact(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.impact.String(); got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}

// TestImpactScoreDeduction tests that deductions grow with impact.
func TestImpactScoreDeduction(t *testing.T) {
	t.Parallel()

	impacts := []Impact{ImpactMinor, ImpactModerate, ImpactSerious, ImpactCritical}
	prev := 0
	for _, impact := range impacts {
		d := impact.ScoreDeduction()
		if d <= prev {
			t.Errorf("deduction for %s (%d) should exceed %d", impact, d, prev)
		}
		prev = d
	}

	if got := Impact(99).ScoreDeduction(); got != 0 {
		t.Errorf("unknown impact deduction: got %d, expected 0", got)
	}
}

// TestLevelValid tests conformance level validation.
func TestLevelValid(t *testing.T) {
	t.Parallel()

	for _, level := range []Level{LevelA, LevelAA, LevelAAA} {
		if !level.Valid() {
			t.Errorf("expected %q to be valid", level)
		}
	}
	for _, level := range []Level{"", "B", "aa", "AAAA"} {
		if level.Valid() {
			t.Errorf("expected %q to be invalid", level)
		}
	}
}

// TestLevelCovers tests the coverage relation between conformance levels.
func TestLevelCovers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		plan, criterion Level
		want            bool
	}{
		{LevelA, LevelA, true},
		{LevelA, LevelAA, false},
		{LevelA, LevelAAA, false},
		{LevelAA, LevelA, true},
		{LevelAA, LevelAA, true},
		{LevelAA, LevelAAA, false},
		{LevelAAA, LevelA, true},
		{LevelAAA, LevelAAA, true},
	}

	for _, tt := range tests {
		tt := tt
		if got := tt.plan.Covers(tt.criterion); got != tt.want {
			t.Errorf("%s.Covers(%s): got %v, expected %v", tt.plan, tt.criterion, got, tt.want)
		}
	}
}

// TestIssueSelected tests that only positive priorities count as selected.
func TestIssueSelected(t *testing.T) {
	t.Parallel()

	if (Issue{Priority: 0}).Selected() {
		t.Error("priority 0 should not be selected")
	}
	if !(Issue{Priority: 1}).Selected() {
		t.Error("priority 1 should be selected")
	}
}

// TestValidPriority tests the allowed priority range.
func TestValidPriority(t *testing.T) {
	t.Parallel()

	for p := PriorityUnselected; p <= PriorityMax; p++ {
		if !ValidPriority(p) {
			t.Errorf("expected priority %d to be valid", p)
		}
	}
	if ValidPriority(-1) || ValidPriority(PriorityMax+1) {
		t.Error("out-of-range priorities should be invalid")
	}
}

// TestNewEvaluationResult tests the EvaluationResult constructor.
func TestNewEvaluationResult(t *testing.T) {
	t.Parallel()

	result := NewEvaluationResult("https://example.com")

	t.Run("sets URL", func(t *testing.T) {
		t.Parallel()
		if result.URL != "https://example.com" {
			t.Errorf("got %q, expected %q", result.URL, "https://example.com")
		}
	})

	t.Run("sets evaluation timestamp", func(t *testing.T) {
		t.Parallel()
		if result.EvaluatedAt.IsZero() {
			t.Error("expected EvaluatedAt to be set")
		}
		if time.Since(result.EvaluatedAt) > time.Second {
			t.Error("EvaluatedAt is too old")
		}
	})
}

// TestEvaluationResultCountByImpact tests issue aggregation by impact.
func TestEvaluationResultCountByImpact(t *testing.T) {
	t.Parallel()

	result := &EvaluationResult{
		Issues: []Issue{
			{ID: "a", Impact: ImpactCritical},
			{ID: "b", Impact: ImpactCritical},
			{ID: "c", Impact: ImpactMinor},
		},
	}

	counts := result.CountByImpact()
	if counts[ImpactCritical] != 2 {
		t.Errorf("critical count: got %d, expected 2", counts[ImpactCritical])
	}
	if counts[ImpactMinor] != 1 {
		t.Errorf("minor count: got %d, expected 1", counts[ImpactMinor])
	}
	if counts[ImpactSerious] != 0 {
		t.Errorf("serious count: got %d, expected 0", counts[ImpactSerious])
	}
}

// TestEvaluationResultClone tests that clones do not alias issue storage.
func TestEvaluationResultClone(t *testing.T) {
	t.Parallel()

	original := &EvaluationResult{
		URL:    "https://example.com",
		Score:  80,
		Issues: []Issue{{ID: "a", Label: "issue a"}},
	}

	clone := original.Clone()
	clone.Issues[0].Label = "mutated"

	if original.Issues[0].Label != "issue a" {
		t.Error("mutating a clone must not affect the original")
	}

	t.Run("nil receiver", func(t *testing.T) {
		t.Parallel()
		var r *EvaluationResult
		if r.Clone() != nil {
			t.Error("expected nil clone for nil result")
		}
	})
}
