package engine

import "errors"

// Evaluation errors.
//
// Design decision: We use package-level sentinel errors so that callers
// (the store, the CLI) can distinguish validation failures from network
// failures with errors.Is() while still getting readable messages.
var (
	// ErrInvalidURL is returned when the target is not a well-formed
	// absolute http(s) URL. Raised before any network activity.
	ErrInvalidURL = errors.New("invalid URL: must be an absolute http or https URL")

	// ErrNotHTML is returned when the fetched resource is not an HTML
	// document and therefore cannot be evaluated.
	ErrNotHTML = errors.New("resource is not an HTML document")
)
