package parser

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-formflow/pkg/openapi"
)

const productDocument = `
openapi: 3.0.3
info:
  title: Storefront
  version: 1.0.0
paths:
  /auth/signup:
    post:
      operationId: signup
      summary: Create an account
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [email, password]
              properties:
                email:
                  type: string
                  format: email
                password:
                  type: string
                  format: password
                  minLength: 8
      responses:
        "200":
          description: ok
components:
  schemas:
    Product:
      type: object
      required: [name, price]
      x-formflow-order: [name, price, badge]
      properties:
        id:
          type: integer
          readOnly: true
        name:
          type: string
          maxLength: 120
        price:
          type: number
          minimum: 0
        badge:
          type: string
          nullable: true
          enum: [new_product, best_sale, featured]
        featuredImageId:
          type: integer
          x-relationships:
            type: belongsTo
            target: media
`

func TestSchemas_ComponentsAndRequestBodies(t *testing.T) {
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFS("storefront.yaml"), []byte(productDocument))
	p := New(pkgopenapi.NewParserOptions())

	schemas, err := p.Schemas(context.Background(), doc)
	if err != nil {
		t.Fatalf("schemas: %v", err)
	}

	product, ok := schemas["Product"]
	if !ok {
		t.Fatalf("Product schema missing: %v", keys(schemas))
	}
	if diff := cmp.Diff([]string{"name", "price"}, product.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if !product.Properties["id"].ReadOnly {
		t.Fatalf("expected id to be read only")
	}
	price := product.Properties["price"]
	if price.Minimum == nil || *price.Minimum != 0 {
		t.Fatalf("price minimum not converted: %#v", price.Minimum)
	}
	if max := product.Properties["name"].MaxLength; max == nil || *max != 120 {
		t.Fatalf("name maxLength not converted: %#v", max)
	}
	if got := product.Properties["badge"].Enum; len(got) != 3 {
		t.Fatalf("badge enum not converted: %#v", got)
	}
	rel, ok := product.Properties["featuredImageId"].Extensions["x-relationships"].(map[string]any)
	if !ok || rel["target"] != "media" {
		t.Fatalf("relationship extension not normalised: %#v", product.Properties["featuredImageId"].Extensions)
	}
	if _, ok := product.Extensions["x-formflow-order"]; !ok {
		t.Fatalf("order extension dropped: %#v", product.Extensions)
	}

	signup, ok := schemas["signup"]
	if !ok {
		t.Fatalf("signup request body missing: %v", keys(schemas))
	}
	if signup.Properties["email"].Format != "email" {
		t.Fatalf("email format lost: %#v", signup.Properties["email"])
	}
	if signup.Description != "Create an account" {
		t.Fatalf("summary not used as description: %q", signup.Description)
	}
}

func TestSchemas_WithoutRequestBodies(t *testing.T) {
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFS("storefront.yaml"), []byte(productDocument))
	p := New(pkgopenapi.NewParserOptions(pkgopenapi.WithRequestBodies(false)))

	schemas, err := p.Schemas(context.Background(), doc)
	if err != nil {
		t.Fatalf("schemas: %v", err)
	}
	if _, ok := schemas["signup"]; ok {
		t.Fatalf("request bodies should be excluded")
	}
}

func TestConvertSchemaHandlesRecursiveReferences(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "Cycle", "version": "1.0.0" },
  "paths": {},
  "components": {
    "schemas": {
      "Category": {
        "type": "object",
        "properties": {
          "parent": { "$ref": "#/components/schemas/Category" }
        }
      }
    }
  }
}`

	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData([]byte(document))
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}

	converted := convertSchema(spec.Components.Schemas["Category"])
	parent, ok := converted.Properties["parent"]
	if !ok {
		t.Fatalf("expected parent property")
	}
	if parent.Ref == "" {
		t.Fatalf("expected parent to retain its reference when the cycle is cut")
	}
}

func TestSchemas_EmptyDocument(t *testing.T) {
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFS("empty.json"), []byte(`{"openapi":"3.0.0","info":{"title":"x","version":"1"},"paths":{}}`))
	p := New(pkgopenapi.NewParserOptions())
	if _, err := p.Schemas(context.Background(), doc); err == nil {
		t.Fatalf("expected error for document without schemas")
	}
}

func keys(m map[string]pkgopenapi.Schema) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
