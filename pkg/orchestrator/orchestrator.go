package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	internalLoader "github.com/goliatone/go-formflow/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formflow/internal/openapi/parser"
	"github.com/goliatone/go-formflow/pkg/model"
	pkgopenapi "github.com/goliatone/go-formflow/pkg/openapi"
	"github.com/goliatone/go-formflow/pkg/uischema"
	"github.com/goliatone/go-formflow/pkg/widgets"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithDefinitionBuilder injects a custom definition builder.
func WithDefinitionBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithWidgetRegistry overrides the registry used to fill in Field.Widget.
// Pass nil to leave widgets unresolved.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(o *Orchestrator) {
		o.widgets = registry
		o.widgetsSpecified = true
	}
}

// WithSchemaTransformer registers a Transformer that can mutate definitions
// after building but before overlay decorators run.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators that run against every generated
// definition after the overlay.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithUISchemaFS supplies an fs.FS holding overlay documents.
func WithUISchemaFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.uiSchemaFS = fsys
	}
}

// Orchestrator coordinates the pipeline from OpenAPI document to form
// definition. Missing dependencies fall back to the built-in
// implementations.
type Orchestrator struct {
	loader           pkgopenapi.Loader
	parser           pkgopenapi.Parser
	builder          model.Builder
	widgets          *widgets.Registry
	widgetsSpecified bool
	transformer      Transformer
	decorators       []model.Decorator
	uiSchemaFS       fs.FS
	overlays         *uischema.Store
	initialiseErr    error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to build one form definition.
type Request struct {
	// Source identifies where the OpenAPI document lives. Optional when
	// Document is supplied.
	Source pkgopenapi.Source

	// Document allows callers to bypass the loader.
	Document *pkgopenapi.Document

	// Schema selects the component schema or request body (operation id).
	Schema string

	// FormID names the resulting definition and selects its overlay.
	// Defaults to Schema.
	FormID string
}

// Definition executes the loader → parser → builder → decorator sequence for
// one schema.
func (o *Orchestrator) Definition(ctx context.Context, req Request) (model.FormDefinition, error) {
	if ctx == nil {
		return model.FormDefinition{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.FormDefinition{}, err
	}
	if err := o.initialiseErr; err != nil {
		return model.FormDefinition{}, err
	}
	if req.Schema == "" {
		return model.FormDefinition{}, errors.New("orchestrator: schema name is required")
	}

	schemas, err := o.schemas(ctx, req)
	if err != nil {
		return model.FormDefinition{}, err
	}
	schema, ok := schemas[req.Schema]
	if !ok {
		return model.FormDefinition{}, fmt.Errorf("orchestrator: schema %q not found", req.Schema)
	}

	formID := req.FormID
	if formID == "" {
		formID = req.Schema
	}
	return o.build(ctx, formID, schema)
}

// SchemaNames lists the schemas the document exposes, sorted.
func (o *Orchestrator) SchemaNames(ctx context.Context, req Request) ([]string, error) {
	schemas, err := o.schemas(ctx, req)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (o *Orchestrator) schemas(ctx context.Context, req Request) (map[string]pkgopenapi.Schema, error) {
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	schemas, err := o.parser.Schemas(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse schemas: %w", err)
	}
	return schemas, nil
}

func (o *Orchestrator) build(ctx context.Context, formID string, schema pkgopenapi.Schema) (model.FormDefinition, error) {
	def, err := o.builder.Build(formID, schema)
	if err != nil {
		return model.FormDefinition{}, fmt.Errorf("orchestrator: build definition: %w", err)
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &def); err != nil {
			return model.FormDefinition{}, fmt.Errorf("orchestrator: transform definition: %w", err)
		}
	}

	decorators := make([]model.Decorator, 0, len(o.decorators)+2)
	if o.overlays != nil {
		decorators = append(decorators, o.overlays.Decorator(formID))
	}
	decorators = append(decorators, o.decorators...)
	if o.widgets != nil {
		decorators = append(decorators, o.widgets)
	}
	def, err = model.Decorate(def, decorators...)
	if err != nil {
		return model.FormDefinition{}, fmt.Errorf("orchestrator: decorate definition: %w", err)
	}
	return def, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (pkgopenapi.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return pkgopenapi.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.widgets == nil && !o.widgetsSpecified {
		o.widgets = widgets.NewRegistry()
	}
	if o.uiSchemaFS != nil {
		store, err := uischema.LoadFS(o.uiSchemaFS)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load ui schema: %w", err)
			return
		}
		if !store.Empty() {
			o.overlays = store
		}
	}
}
