package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ADACompany01/adascan/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// sampleResult builds an evaluation result for storage tests.
func sampleResult(url string, score int) *model.EvaluationResult {
	return &model.EvaluationResult{
		URL:         url,
		Score:       score,
		Title:       "Example Page",
		ContentHash: "abc123",
		EvaluatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Issues: []model.Issue{
			{ID: "image-alt-1", Label: "Image missing alt text", Kind: model.KindSystem, Criterion: "1.1.1", Impact: model.ImpactCritical},
			{ID: "link-text-1", Label: "Generic link text", Kind: model.KindSystem, Criterion: "2.4.4", Impact: model.ImpactMinor},
		},
	}
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		dbPath := filepath.Join(dbDir, "adascan.db")
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "nonexistent-db")

		opts := Options{
			CreateIfNotExists: false,
			EnableWAL:         true,
		}

		_, err := Open(dbDir, opts)
		if err == nil {
			t.Fatal("expected error when CreateIfNotExists=false and database does not exist")
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected informative error, got %q", err.Error())
		}

		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("database directory should not have been created when CreateIfNotExists=false")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "existing-db")

		db1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		_ = db1.Close()

		db2, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open existing database: %v", err)
		}
		defer db2.Close()
	})
}

// TestSaveAndGetEvaluation tests the round trip through result_json.
func TestSaveAndGetEvaluation(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	id, err := db.SaveEvaluation(ctx, sampleResult("https://example.com", 89))
	if err != nil {
		t.Fatalf("failed to save evaluation: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero row ID")
	}

	t.Run("latest by URL", func(t *testing.T) {
		got, err := db.GetLatestEvaluation(ctx, "https://example.com")
		if err != nil {
			t.Fatalf("failed to get evaluation: %v", err)
		}
		if got == nil {
			t.Fatal("expected a stored evaluation")
		}
		if got.Score != 89 || got.Title != "Example Page" {
			t.Errorf("unexpected result: score=%d title=%q", got.Score, got.Title)
		}
		if len(got.Issues) != 2 {
			t.Errorf("got %d issues, expected 2", len(got.Issues))
		}
	})

	t.Run("by ID", func(t *testing.T) {
		got, err := db.GetEvaluationByID(ctx, id)
		if err != nil {
			t.Fatalf("failed to get evaluation by ID: %v", err)
		}
		if got == nil || got.URL != "https://example.com" {
			t.Errorf("unexpected result: %+v", got)
		}
	})

	t.Run("unknown URL returns nil", func(t *testing.T) {
		got, err := db.GetLatestEvaluation(ctx, "https://unknown.example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("unknown ID returns nil", func(t *testing.T) {
		got, err := db.GetEvaluationByID(ctx, 9999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})
}

// TestGetEvaluationHistory tests ordering across multiple runs.
func TestGetEvaluationHistory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, score := range []int{60, 75, 90} {
		if _, err := db.SaveEvaluation(ctx, sampleResult("https://example.com", score)); err != nil {
			t.Fatalf("failed to save evaluation: %v", err)
		}
	}
	if _, err := db.SaveEvaluation(ctx, sampleResult("https://other.example.com", 50)); err != nil {
		t.Fatalf("failed to save evaluation: %v", err)
	}

	history, err := db.GetEvaluationHistory(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("got %d entries, expected 3", len(history))
	}
	// Same-timestamp rows fall back to insertion order, newest first.
	if history[0].Score != 90 || history[2].Score != 60 {
		t.Errorf("unexpected ordering: %d, %d, %d", history[0].Score, history[1].Score, history[2].Score)
	}
}

// TestGetHistoryWithMetadata tests the summary-column path.
func TestGetHistoryWithMetadata(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.SaveEvaluation(ctx, sampleResult("https://example.com", 89)); err != nil {
		t.Fatalf("failed to save evaluation: %v", err)
	}

	metas, err := db.GetHistoryWithMetadata(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("failed to get metadata: %v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("got %d entries, expected 1", len(metas))
	}

	meta := metas[0]
	if meta.Score != 89 || meta.Title != "Example Page" || meta.ContentHash != "abc123" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Timestamp.IsZero() {
		t.Error("expected a parsed timestamp")
	}
	if meta.ImpactSummary["critical"] != 1 || meta.ImpactSummary["minor"] != 1 {
		t.Errorf("unexpected impact summary: %v", meta.ImpactSummary)
	}
}

// TestListEvaluatedURLs tests deduplication and ordering.
func TestListEvaluatedURLs(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, url := range []string{"https://b.example.com", "https://a.example.com", "https://b.example.com"} {
		if _, err := db.SaveEvaluation(ctx, sampleResult(url, 80)); err != nil {
			t.Fatalf("failed to save evaluation: %v", err)
		}
	}

	urls, err := db.ListEvaluatedURLs(ctx)
	if err != nil {
		t.Fatalf("failed to list URLs: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("got %d URLs, expected 2", len(urls))
	}
	if urls[0] != "https://a.example.com" || urls[1] != "https://b.example.com" {
		t.Errorf("unexpected ordering: %v", urls)
	}
}

// TestHasRecentEvaluation tests the freshness window.
func TestHasRecentEvaluation(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.SaveEvaluation(ctx, sampleResult("https://example.com", 80)); err != nil {
		t.Fatalf("failed to save evaluation: %v", err)
	}

	recent, err := db.HasRecentEvaluation(ctx, "https://example.com", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !recent {
		t.Error("expected a fresh evaluation within the hour")
	}

	recent, err = db.HasRecentEvaluation(ctx, "https://never.example.com", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recent {
		t.Error("expected no evaluation for an unseen URL")
	}
}

// TestContentUnchanged tests hash comparison against the latest run.
func TestContentUnchanged(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.SaveEvaluation(ctx, sampleResult("https://example.com", 80)); err != nil {
		t.Fatalf("failed to save evaluation: %v", err)
	}

	tests := []struct {
		name string
		url  string
		hash string
		want bool
	}{
		{name: "matching hash", url: "https://example.com", hash: "abc123", want: true},
		{name: "different hash", url: "https://example.com", hash: "def456", want: false},
		{name: "unknown URL", url: "https://never.example.com", hash: "abc123", want: false},
		{name: "empty hash", url: "https://example.com", hash: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ContentUnchanged(ctx, tt.url, tt.hash)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, expected %v", got, tt.want)
			}
		})
	}
}

// TestParseTimestamp tests the SQLite format fallbacks.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{name: "sqlite default", input: "2026-08-01 12:00:00", zero: false},
		{name: "iso8601 with Z", input: "2026-08-01T12:00:00Z", zero: false},
		{name: "rfc3339", input: "2026-08-01T12:00:00+09:00", zero: false},
		{name: "garbage", input: "not a timestamp", zero: true},
		{name: "empty", input: "", zero: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) = %v, zero expectation %v", tt.input, got, tt.zero)
			}
		})
	}
}
