package storefront

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formflow/pkg/model"
	pkgopenapi "github.com/goliatone/go-formflow/pkg/openapi"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
)

const (
	// ProductFormID identifies the product create/edit form.
	ProductFormID = "products"
	// SignUpFormID identifies the customer sign-up form.
	SignUpFormID = "signup"

	productSchema = "Product"
	signUpSchema  = "signup"
	documentPath  = "assets/openapi.yaml"
)

//go:embed assets/openapi.yaml assets/ui/*.yaml
var assets embed.FS

// Document returns the embedded OpenAPI document.
func Document() pkgopenapi.Document {
	raw, err := assets.ReadFile(documentPath)
	if err != nil {
		panic(err)
	}
	return pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFS(documentPath), raw)
}

// UISchemaFS returns the embedded overlay documents.
func UISchemaFS() fs.FS {
	sub, err := fs.Sub(assets, "assets/ui")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewOrchestrator returns an orchestrator preloaded with the storefront
// overlay. Extra options are applied after the defaults.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	opts := append([]orchestrator.Option{orchestrator.WithUISchemaFS(UISchemaFS())}, options...)
	return orchestrator.New(opts...)
}

// ProductDefinition builds the product form.
func ProductDefinition(ctx context.Context, options ...orchestrator.Option) (model.FormDefinition, error) {
	return definition(ctx, productSchema, ProductFormID, options...)
}

// SignUpDefinition builds the sign-up form.
func SignUpDefinition(ctx context.Context, options ...orchestrator.Option) (model.FormDefinition, error) {
	return definition(ctx, signUpSchema, SignUpFormID, options...)
}

// Definitions builds every storefront form keyed by form id.
func Definitions(ctx context.Context, options ...orchestrator.Option) (map[string]model.FormDefinition, error) {
	product, err := ProductDefinition(ctx, options...)
	if err != nil {
		return nil, err
	}
	signUp, err := SignUpDefinition(ctx, options...)
	if err != nil {
		return nil, err
	}
	return map[string]model.FormDefinition{
		ProductFormID: product,
		SignUpFormID:  signUp,
	}, nil
}

func definition(ctx context.Context, schema, formID string, options ...orchestrator.Option) (model.FormDefinition, error) {
	doc := Document()
	def, err := NewOrchestrator(options...).Definition(ctx, orchestrator.Request{
		Document: &doc,
		Schema:   schema,
		FormID:   formID,
	})
	if err != nil {
		return model.FormDefinition{}, fmt.Errorf("storefront: %s form: %w", formID, err)
	}
	return def, nil
}

// Redirect returns the post-submit target configured for def.
func Redirect(def model.FormDefinition) string {
	return def.Metadata["redirect"]
}
