// Package store holds the state of one accessibility evaluation session.
//
// The Store is the single source of truth for the session: the current
// evaluation, the selected compliance plan, the remediation checklist, and
// the evaluation history. State changes only through a closed set of
// actions applied by a reducer, and every transition produces a fresh
// immutable snapshot that is pushed synchronously to all subscribed
// observers in FIFO order.
//
// Design decision: The store is an explicit object constructed once at
// application start and injected into its consumers, not a package-level
// singleton. This keeps tests isolated (fresh store per test) and makes
// the store's collaborators visible at the construction site.
package store
