package uischema_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/uischema"
)

const productsYAML = `
orderPresets:
  catalog: [name, slug, price]
forms:
  products:
    title: Product
    redirect: /products
    orderPreset: catalog
    metadata:
      section: catalog
    fields:
      name:
        label: Product name
        placeholder: Classic mug
      tags[]:
        widget: tag-list
        options: [kitchen, gift]
      slug:
        pattern: "^[a-z0-9-]+$"
        metadata:
          help: lowercase and dashes
      featured:
        default: false
        required: false
`

const signupJSON = `{
  "forms": {
    "signup": {
      "order": ["email", "password"],
      "fields": {
        "password": {"widget": "password", "uiOnly": false}
      }
    }
  }
}`

func productsDefinition() model.FormDefinition {
	return model.MustDefinition("products",
		model.Field{Name: "featured", Kind: model.FieldKindBoolean, Required: true},
		model.Field{Name: "price", Kind: model.FieldKindNumber},
		model.Field{Name: "slug", Validations: []model.ValidationRule{
			{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": ".*"}},
		}},
		model.Field{Name: "tags", Kind: model.FieldKindList},
		model.Field{Name: "name"},
	)
}

func TestLoadFS_YAMLAndJSON(t *testing.T) {
	store, err := uischema.LoadFS(fstest.MapFS{
		"forms/products.yaml": {Data: []byte(productsYAML)},
		"forms/signup.json":   {Data: []byte(signupJSON)},
		"forms/README.md":     {Data: []byte("ignored")},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"products", "signup"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	products, ok := store.Form("products")
	if !ok {
		t.Fatalf("products overlay missing")
	}
	if products.Source != "forms/products.yaml" || products.Redirect != "/products" {
		t.Fatalf("unexpected overlay: %#v", products)
	}
	if diff := cmp.Diff([]string{"name", "slug", "price"}, products.Order); diff != "" {
		t.Fatalf("preset order mismatch (-want +got):\n%s", diff)
	}
	if _, ok := products.Fields["tags"]; !ok {
		t.Fatalf("tags[] should normalise to tags: %#v", products.Fields)
	}
}

func TestDecorator_AppliesOverlay(t *testing.T) {
	store, err := uischema.LoadFS(fstest.MapFS{"products.yml": {Data: []byte(productsYAML)}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	def, err := model.Decorate(productsDefinition(), store.Decorator("products"))
	if err != nil {
		t.Fatalf("decorate: %v", err)
	}

	if diff := cmp.Diff([]string{"name", "slug", "price", "featured", "tags"}, def.Names()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if def.Title != "Product" || def.Metadata["redirect"] != "/products" || def.Metadata["section"] != "catalog" {
		t.Fatalf("form settings not applied: %#v", def)
	}

	name, _ := def.Field("name")
	if name.Label != "Product name" || name.Placeholder != "Classic mug" {
		t.Fatalf("name overlay not applied: %#v", name)
	}
	tags, _ := def.Field("tags")
	if tags.Widget != "tag-list" || len(tags.Options) != 2 {
		t.Fatalf("tags overlay not applied: %#v", tags)
	}
	slug, _ := def.Field("slug")
	if rule, _ := slug.Rule(model.ValidationRulePattern); rule.Params["pattern"] != "^[a-z0-9-]+$" || len(slug.Validations) != 1 {
		t.Fatalf("pattern not replaced: %#v", slug.Validations)
	}
	if slug.Metadata["help"] != "lowercase and dashes" {
		t.Fatalf("metadata not merged: %#v", slug.Metadata)
	}
	featured, _ := def.Field("featured")
	if featured.Required || featured.Default != false {
		t.Fatalf("featured overlay not applied: %#v", featured)
	}

	unchanged, err := model.Decorate(productsDefinition(), store.Decorator("missing"))
	if err != nil || unchanged.Names()[0] != "featured" {
		t.Fatalf("forms without overlay must be untouched: %v", err)
	}
}

func TestDecorator_UnknownFieldFails(t *testing.T) {
	store, err := uischema.LoadFS(fstest.MapFS{"signup.json": {Data: []byte(signupJSON)}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := model.MustDefinition("signup", model.Field{Name: "email"})
	_, err = model.Decorate(def, store.Decorator("signup"))
	if err == nil || !strings.Contains(err.Error(), `unknown field "password"`) {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"empty file": {"a.yaml": {Data: []byte("  ")}},
		"invalid":    {"a.json": {Data: []byte("forms: [")}},
		"duplicate form": {
			"a.json": {Data: []byte(signupJSON)},
			"b.json": {Data: []byte(signupJSON)},
		},
		"unknown preset": {"a.yaml": {Data: []byte("forms:\n  x:\n    orderPreset: nope\n")}},
		"duplicate field": {"a.yaml": {Data: []byte("forms:\n  x:\n    fields:\n      tags: {}\n      tags[]: {}\n")}},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := uischema.LoadFS(fsys); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFS_NilFS(t *testing.T) {
	store, err := uischema.LoadFS(nil)
	if err != nil || !store.Empty() {
		t.Fatalf("expected empty store, got %v %v", store, err)
	}
}
