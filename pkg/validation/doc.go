// Package validation checks a set of raw form values against a
// model.FormDefinition. Validate is pure: it never mutates its inputs, never
// panics on malformed values and reports every problem as a message keyed by
// field name. Messages are produced from stable codes (CodeRequired,
// CodeOutOfRange, ...) through a Translator so hosts can localise them.
package validation
