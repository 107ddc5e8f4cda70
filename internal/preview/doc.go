// Package preview renders the lesson in a terminal.
package preview
