package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ADACompany01/adascan/internal/model"
)

// HistoryDB provides SQLite-based storage for evaluation results.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all evaluated sites
// rather than one file per site. This keeps cross-site queries (listing
// sites, comparing runs) simple and makes backup a single-file copy.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "adascan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses URI-style modes: rw requires the file to
	// exist, rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection avoids
	// SQLITE_BUSY errors under concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Evaluations store complete evaluation results as JSON plus the
	-- columns needed to list and compare runs without unmarshalling.
	CREATE TABLE IF NOT EXISTS evaluations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		title TEXT,
		score INTEGER NOT NULL,
		content_hash TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		result_json TEXT NOT NULL,
		impact_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_url ON evaluations(url);
	CREATE INDEX IF NOT EXISTS idx_evaluations_timestamp ON evaluations(timestamp);
	CREATE INDEX IF NOT EXISTS idx_evaluations_hash ON evaluations(content_hash);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveEvaluation stores a completed evaluation result.
// The full result is serialized to JSON; score, title, and content hash
// are duplicated into columns for metadata queries.
func (hdb *HistoryDB) SaveEvaluation(ctx context.Context, result *model.EvaluationResult) (int64, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize evaluation: %w", err)
	}

	counts := result.CountByImpact()
	summary := map[string]int{
		"critical": counts[model.ImpactCritical],
		"serious":  counts[model.ImpactSerious],
		"moderate": counts[model.ImpactModerate],
		"minor":    counts[model.ImpactMinor],
	}
	summaryJSON, _ := json.Marshal(summary) //nolint:errcheck,errchkjson // summary is a simple map; Marshal won't fail

	query := `
	INSERT INTO evaluations (url, title, score, content_hash, result_json, impact_summary)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := hdb.db.ExecContext(ctx, query,
		result.URL,
		result.Title,
		result.Score,
		result.ContentHash,
		string(resultJSON),
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save evaluation: %w", err)
	}

	return res.LastInsertId()
}

// GetLatestEvaluation retrieves the most recent evaluation for a URL.
// Returns nil without error when the URL has never been evaluated.
func (hdb *HistoryDB) GetLatestEvaluation(ctx context.Context, url string) (*model.EvaluationResult, error) {
	query := `
	SELECT result_json FROM evaluations
	WHERE url = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var resultJSON string
	err := hdb.db.QueryRowContext(ctx, query, url).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}

	var result model.EvaluationResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation: %w", err)
	}

	return &result, nil
}

// GetEvaluationByID retrieves an evaluation by its database ID.
// Returns nil without error when no row matches.
func (hdb *HistoryDB) GetEvaluationByID(ctx context.Context, id int64) (*model.EvaluationResult, error) {
	query := `
	SELECT result_json FROM evaluations
	WHERE id = ?
	`

	var resultJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}

	var result model.EvaluationResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation: %w", err)
	}

	return &result, nil
}

// ListEvaluatedURLs returns all URLs with at least one stored evaluation.
func (hdb *HistoryDB) ListEvaluatedURLs(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT url FROM evaluations
	ORDER BY url
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan URL: %w", err)
		}
		urls = append(urls, url)
	}

	return urls, rows.Err()
}

// GetEvaluationHistory retrieves all evaluations for a URL, most recent first.
func (hdb *HistoryDB) GetEvaluationHistory(ctx context.Context, url string) ([]*model.EvaluationResult, error) {
	query := `
	SELECT result_json FROM evaluations
	WHERE url = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation history: %w", err)
	}
	defer rows.Close()

	var results []*model.EvaluationResult
	for rows.Next() {
		var resultJSON string
		if err := rows.Scan(&resultJSON); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}

		var result model.EvaluationResult
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			continue // Skip malformed rows
		}
		results = append(results, &result)
	}

	return results, rows.Err()
}

// EvaluationMetadata contains summary information about a stored evaluation.
// This is used for displaying history without loading the full result.
type EvaluationMetadata struct {
	// ID is the unique identifier of the evaluation in the database.
	ID int64

	// URL is the evaluated site address.
	URL string

	// Title is the page title captured during evaluation.
	Title string

	// Score is the accessibility score between 0 and 100.
	Score int

	// ContentHash identifies the fetched content, allowing unchanged
	// pages to be recognized across runs.
	ContentHash string

	// Timestamp is when the evaluation was performed.
	Timestamp time.Time

	// ImpactSummary contains counts of issues by impact level.
	ImpactSummary map[string]int
}

// GetHistoryWithMetadata retrieves evaluation metadata for a URL, most
// recent first. This is more efficient than GetEvaluationHistory when only
// the summary columns are needed.
func (hdb *HistoryDB) GetHistoryWithMetadata(ctx context.Context, url string) ([]EvaluationMetadata, error) {
	query := `
	SELECT id, url, title, score, content_hash, timestamp, impact_summary
	FROM evaluations
	WHERE url = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation history: %w", err)
	}
	defer rows.Close()

	var results []EvaluationMetadata
	for rows.Next() {
		var meta EvaluationMetadata
		var title sql.NullString
		var hash sql.NullString
		var timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.URL, &title, &meta.Score, &hash, &timestamp, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Title = title.String
		meta.ContentHash = hash.String
		meta.Timestamp = parseTimestamp(timestamp)

		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &meta.ImpactSummary); err != nil {
				meta.ImpactSummary = make(map[string]int)
			}
		} else {
			meta.ImpactSummary = make(map[string]int)
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// HasRecentEvaluation checks if a URL was evaluated within the specified duration.
func (hdb *HistoryDB) HasRecentEvaluation(ctx context.Context, url string, duration time.Duration) (bool, error) {
	query := `
	SELECT COUNT(*) FROM evaluations
	WHERE url = ? AND timestamp > datetime('now', ?)
	`

	// SQLite datetime modifier format
	modifier := fmt.Sprintf("-%d seconds", int(duration.Seconds()))

	var count int
	err := hdb.db.QueryRowContext(ctx, query, url, modifier).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check recent evaluation: %w", err)
	}

	return count > 0, nil
}

// ContentUnchanged reports whether the most recent stored evaluation for
// the URL carries the same content hash. A hash match means the page body
// has not changed since the last run.
func (hdb *HistoryDB) ContentUnchanged(ctx context.Context, url, hash string) (bool, error) {
	if hash == "" {
		return false, nil
	}

	query := `
	SELECT content_hash FROM evaluations
	WHERE url = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var stored sql.NullString
	err := hdb.db.QueryRowContext(ctx, query, url).Scan(&stored)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check content hash: %w", err)
	}

	return stored.Valid && stored.String == hash, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
