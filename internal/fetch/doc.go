// Package fetch retrieves pages for accessibility evaluation.
//
// It wraps net/http with bounded body reads, redirect limits, and content
// hashing so that the engine receives a complete, size-limited document
// along with enough metadata to detect page changes between evaluations.
package fetch
