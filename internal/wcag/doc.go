// Package wcag provides the catalog of WCAG 2.1 success criteria that
// adascan's checks are mapped to.
//
// The catalog is the single source of truth for criterion metadata:
// conformance level, impact of a violation, and remediation guidance.
// Checks reference criteria by identifier (e.g., "1.1.1") so that risk
// assessment can be updated without touching check implementations.
package wcag
