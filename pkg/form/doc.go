// Package form holds the state of one form instance. State values are
// immutable: every change returns a new *State with a higher Version, so a
// host can hand the current state to a renderer without copying it. The
// Controller owns the current state for one form, serialises replacements and
// notifies subscribed listeners after each one.
package form
