// Package database provides SQLite-based storage for evaluation history.
//
// This package implements the HistoryDB, which stores:
//   - Complete evaluation results for later retrieval
//   - Summary metadata (score, title, impact counts) in queryable columns
//   - Content hashes so unchanged pages can be recognized across runs
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
