package openapi

import "context"

// Parser extracts named object schemas from a document. Component schemas are
// keyed by their component name; request bodies are keyed by operation id so
// a form can be derived from either.
type Parser interface {
	Schemas(ctx context.Context, doc Document) (map[string]Schema, error)
}

// ParserOptions exposes parser toggles.
type ParserOptions struct {
	// ResolveReferences validates the document and resolves $ref pointers
	// before extraction.
	ResolveReferences bool

	// IncludeRequestBodies adds operation request bodies (keyed by
	// operationId) next to component schemas.
	IncludeRequestBodies bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithReferenceResolution toggles eager reference resolution.
func WithReferenceResolution(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = enabled
	}
}

// WithRequestBodies toggles extraction of operation request bodies.
func WithRequestBodies(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.IncludeRequestBodies = enabled
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		ResolveReferences:    true,
		IncludeRequestBodies: true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
