// Package engine implements the accessibility evaluation engine.
//
// The engine fetches a page, parses it into a Document, runs a set of
// accessibility checks against the parsed tree, and produces a scored
// EvaluationResult. It also owns the session-support rules the store
// delegates to: URL validation and formatting, plan suggestion from a
// score, checklist construction for a chosen plan, and selected-item
// priority arithmetic.
//
// Design decision: Checks are small, independent implementations of the
// Check interface coordinated by the Evaluator. This mirrors how new
// checks are added in practice: one file-local type, one catalog entry,
// one registration.
package engine
