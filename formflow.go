// Package formflow is the top-level entry point: it builds form definitions
// from OpenAPI documents and wires them to a submission coordinator.
package formflow

import (
	"context"

	internalLoader "github.com/goliatone/go-formflow/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formflow/internal/openapi/parser"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/model"
	pkgopenapi "github.com/goliatone/go-formflow/pkg/openapi"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/submit"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// NewOrchestrator exposes the orchestrator constructor from the module root.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// DefinitionFromDocument builds one form definition from a pre-loaded
// document.
func DefinitionFromDocument(ctx context.Context, doc pkgopenapi.Document, schema, formID string, options ...orchestrator.Option) (model.FormDefinition, error) {
	return orchestrator.New(options...).Definition(ctx, orchestrator.Request{
		Document: &doc,
		Schema:   schema,
		FormID:   formID,
	})
}

// NewForm pairs a controller seeded with initial values and a coordinator
// that submits through op.
func NewForm(def model.FormDefinition, initial map[string]any, op submit.Operation, options ...submit.Option) (*form.Controller, *submit.Coordinator) {
	ctrl := form.NewController(def, initial)
	return ctrl, submit.New(ctrl, op, options...)
}
