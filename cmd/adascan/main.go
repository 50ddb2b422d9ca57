// Package main provides the entry point for the adascan CLI.
//
// adascan is a web accessibility evaluation tool. It fetches pages,
// checks them against WCAG success criteria, scores the result, and
// suggests compliance plans with remediation checklists.
//
// Usage:
//
//	adascan evaluate <url>
//	adascan evaluate --plan AA <url>
//
// See --help for all available options.
package main

// main is the entry point for adascan.
func main() {
	Execute()
}
