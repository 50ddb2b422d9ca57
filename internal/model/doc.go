// Package model defines the core data structures used throughout adascan.
//
// This package contains the following main types:
//   - EvaluationResult: The outcome of evaluating one URL
//   - Issue: A single accessibility finding, promotable into a checklist entry
//   - Plan: A WCAG compliance tier suggestion (A, AA, AAA)
//   - RequestData: The snapshot handed to the remediation-request flow
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (engine, store, report, database) need these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
