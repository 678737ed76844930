//go:build !debug

// Package debug holds the error value for violated display list and render
// invariants, and assertions that only exist in builds with the debug tag.
//
// Checks that are expensive to evaluate belong in an `if debug.Enabled`
// block, so release builds drop them entirely.
package debug

// Enabled reports whether assertions are compiled in.
const Enabled = false

// Assert panics with message if b is false. Without the debug build tag it
// does nothing.
func Assert(b bool, message string) {}
