// Package errors provides coded, categorized errors for the lesson server
// and CLI.
//
// Every error code maps to a registered template:
//   - L001-L009 state (unknown variable, invalid value, bad schema)
//   - L010-L019 content (duplicate IDs, unknown widgets)
//   - L020-L029 protocol (malformed frames and events)
//   - L030-L039 session persistence
//   - L040-L049 configuration
//   - L050-L059 publishing
//
// Usage:
//
//	err := errors.New("L001").WithDetailf("%q", name)
//	if errors.Is(err, errors.New("L001")) { ... }
//
// Format renders the error for a terminal; colors are disabled by the CLI
// when stdout is not a TTY.
package errors
