package main

import (
	"strings"
	"testing"
	"time"

	"github.com/ADACompany01/adascan/internal/model"
)

// previousResult builds an evaluation with two issues for comparison tests.
func previousResult() *model.EvaluationResult {
	return &model.EvaluationResult{
		URL:         "https://example.com",
		Score:       84,
		EvaluatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Issues: []model.Issue{
			{
				ID:        "image-alt-1",
				Label:     "Image missing alt attribute",
				Criterion: "1.1.1",
				Impact:    model.ImpactCritical,
				Location:  `<img src="hero.png">`,
			},
			{
				ID:        "heading-order-1",
				Label:     "Heading level skipped",
				Criterion: "1.3.1",
				Impact:    model.ImpactModerate,
				Location:  "<h4>Details</h4>",
			},
		},
	}
}

// currentResult builds a later evaluation where the critical issue is fixed
// and a new minor issue appeared.
func currentResult() *model.EvaluationResult {
	return &model.EvaluationResult{
		URL:         "https://example.com",
		Score:       93,
		EvaluatedAt: time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
		Issues: []model.Issue{
			{
				ID:        "heading-order-1",
				Label:     "Heading level skipped",
				Criterion: "1.3.1",
				Impact:    model.ImpactModerate,
				Location:  "<h4>Details</h4>",
			},
			{
				ID:        "link-text-1",
				Label:     "Link text is not descriptive",
				Criterion: "2.4.4",
				Impact:    model.ImpactMinor,
				Location:  `<a href="/more">click here</a>`,
			},
		},
	}
}

func TestCompareResults(t *testing.T) {
	t.Parallel()

	comparison := compareResults(previousResult(), currentResult())

	t.Run("identifies new issues", func(t *testing.T) {
		t.Parallel()
		if len(comparison.NewIssues) != 1 {
			t.Fatalf("expected 1 new issue, got %d", len(comparison.NewIssues))
		}
		if comparison.NewIssues[0].Criterion != "2.4.4" {
			t.Errorf("expected new issue for 2.4.4, got %q", comparison.NewIssues[0].Criterion)
		}
	})

	t.Run("identifies resolved issues", func(t *testing.T) {
		t.Parallel()
		if len(comparison.ResolvedIssues) != 1 {
			t.Fatalf("expected 1 resolved issue, got %d", len(comparison.ResolvedIssues))
		}
		if comparison.ResolvedIssues[0].Criterion != "1.1.1" {
			t.Errorf("expected resolved issue for 1.1.1, got %q", comparison.ResolvedIssues[0].Criterion)
		}
	})

	t.Run("counts unchanged issues", func(t *testing.T) {
		t.Parallel()
		if comparison.UnchangedCount != 1 {
			t.Errorf("expected 1 unchanged issue, got %d", comparison.UnchangedCount)
		}
	})

	t.Run("computes score change", func(t *testing.T) {
		t.Parallel()
		if comparison.ScoreChange.ScoreDelta != 9 {
			t.Errorf("expected score delta 9, got %d", comparison.ScoreChange.ScoreDelta)
		}
		if comparison.ScoreChange.Direction != scoreDirectionImproved {
			t.Errorf("expected direction %q, got %q", scoreDirectionImproved, comparison.ScoreChange.Direction)
		}
		if comparison.ScoreChange.CriticalDelta != -1 {
			t.Errorf("expected critical delta -1, got %d", comparison.ScoreChange.CriticalDelta)
		}
		if comparison.ScoreChange.MinorDelta != 1 {
			t.Errorf("expected minor delta 1, got %d", comparison.ScoreChange.MinorDelta)
		}
	})

	t.Run("summarizes both evaluations", func(t *testing.T) {
		t.Parallel()
		if comparison.Previous.TotalIssues != 2 {
			t.Errorf("expected 2 previous issues, got %d", comparison.Previous.TotalIssues)
		}
		if comparison.Previous.CriticalCount != 1 {
			t.Errorf("expected 1 previous critical, got %d", comparison.Previous.CriticalCount)
		}
		if comparison.Current.Score != 93 {
			t.Errorf("expected current score 93, got %d", comparison.Current.Score)
		}
	})

	t.Run("identical evaluations are unchanged", func(t *testing.T) {
		t.Parallel()
		same := compareResults(previousResult(), previousResult())
		if len(same.NewIssues) != 0 || len(same.ResolvedIssues) != 0 {
			t.Errorf("expected no differences, got %d new and %d resolved",
				len(same.NewIssues), len(same.ResolvedIssues))
		}
		if same.UnchangedCount != 2 {
			t.Errorf("expected 2 unchanged issues, got %d", same.UnchangedCount)
		}
		if same.ScoreChange.Direction != scoreDirectionUnchanged {
			t.Errorf("expected direction %q, got %q", scoreDirectionUnchanged, same.ScoreChange.Direction)
		}
	})

	t.Run("regression is worsened", func(t *testing.T) {
		t.Parallel()
		regressed := compareResults(currentResult(), previousResult())
		if regressed.ScoreChange.Direction != scoreDirectionWorsened {
			t.Errorf("expected direction %q, got %q", scoreDirectionWorsened, regressed.ScoreChange.Direction)
		}
	})
}

func TestIssueKey(t *testing.T) {
	t.Parallel()

	t.Run("key ignores ordinal ID", func(t *testing.T) {
		t.Parallel()
		a := model.Issue{ID: "image-alt-1", Criterion: "1.1.1", Label: "Image missing alt attribute", Location: "<img>"}
		b := model.Issue{ID: "image-alt-7", Criterion: "1.1.1", Label: "Image missing alt attribute", Location: "<img>"}
		if issueKey(a) != issueKey(b) {
			t.Error("expected identical keys for same issue with different ordinals")
		}
	})

	t.Run("key distinguishes location", func(t *testing.T) {
		t.Parallel()
		a := model.Issue{Criterion: "1.1.1", Label: "Image missing alt attribute", Location: "<img src=\"a.png\">"}
		b := model.Issue{Criterion: "1.1.1", Label: "Image missing alt attribute", Location: "<img src=\"b.png\">"}
		if issueKey(a) == issueKey(b) {
			t.Error("expected different keys for different locations")
		}
	})
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		delta int
		want  string
	}{
		{5, "+5"},
		{-3, "-3"},
		{0, "±0"},
		{1, "+1"},
		{-1, "-1"},
	}

	for _, tt := range tests {
		if got := formatDelta(tt.delta); got != tt.want {
			t.Errorf("formatDelta(%d): got %q, want %q", tt.delta, got, tt.want)
		}
	}
}

func TestFormatScoreDirection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		direction string
		contains  string
	}{
		{scoreDirectionImproved, "IMPROVED"},
		{scoreDirectionWorsened, "WORSENED"},
		{scoreDirectionUnchanged, "UNCHANGED"},
		{"bogus", "UNCHANGED"},
	}

	for _, tt := range tests {
		got := formatScoreDirection(tt.direction)
		if !strings.Contains(got, tt.contains) {
			t.Errorf("formatScoreDirection(%q): got %q, want substring %q", tt.direction, got, tt.contains)
		}
	}
}
