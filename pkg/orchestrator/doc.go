// Package orchestrator wires the loader → parser → definition builder →
// decorator pipeline that turns an OpenAPI document into form definitions,
// providing dependency injection friendly helpers for consumers that prefer
// a single entry point.
package orchestrator
