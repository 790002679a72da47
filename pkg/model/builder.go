package model

import (
	"github.com/goliatone/go-formflow/internal/model"
	pkgopenapi "github.com/goliatone/go-formflow/pkg/openapi"
)

// Builder converts OpenAPI object schemas into form definitions.
type Builder interface {
	Build(id string, schema pkgopenapi.Schema) (FormDefinition, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler         func(string) string
	includeReadOnly bool
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithReadOnlyFields keeps readOnly properties instead of skipping them.
func WithReadOnlyFields() BuilderOption {
	return func(opts *builderOptions) {
		opts.includeReadOnly = true
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	internalOpts := model.Options{IncludeReadOnly: cfg.includeReadOnly}
	if cfg.labeler != nil {
		internalOpts.Labeler = cfg.labeler
	}

	return model.New(internalOpts)
}
