package storefront

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/widgets"
)

func TestProductDefinition(t *testing.T) {
	def, err := ProductDefinition(context.Background())
	if err != nil {
		t.Fatalf("product definition: %v", err)
	}

	wantOrder := []string{
		"name", "slug", "description", "featured", "badge",
		"rating", "tags", "price", "featuredImageId", "featuredImage",
	}
	if diff := cmp.Diff(wantOrder, def.Names()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	type shape struct {
		Kind     model.FieldKind
		Required bool
		Widget   string
	}
	want := map[string]shape{
		"name":            {model.FieldKindText, true, widgets.WidgetText},
		"slug":            {model.FieldKindText, true, widgets.WidgetText},
		"description":     {model.FieldKindText, true, widgets.WidgetTextarea},
		"featured":        {model.FieldKindBoolean, false, widgets.WidgetCheckbox},
		"badge":           {model.FieldKindEnum, false, widgets.WidgetSelect},
		"rating":          {model.FieldKindNumber, true, widgets.WidgetNumber},
		"tags":            {model.FieldKindList, false, widgets.WidgetTagList},
		"price":           {model.FieldKindNumber, true, widgets.WidgetNumber},
		"featuredImageId": {model.FieldKindReference, true, widgets.WidgetReferencePicker},
		"featuredImage":   {model.FieldKindReference, false, "image-preview"},
	}
	got := make(map[string]shape, len(def.Fields))
	for _, field := range def.Fields {
		got[field.Name] = shape{field.Kind, field.Required, field.Widget}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("field shapes mismatch (-want +got):\n%s", diff)
	}

	slug, _ := def.Field("slug")
	rule, ok := slug.Rule(model.ValidationRulePattern)
	if !ok || rule.Params["pattern"] != "^[a-z0-9]+(?:-[a-z0-9]+)*$" {
		t.Fatalf("expected slug pattern rule, got %+v", slug.Validations)
	}
	preview, _ := def.Field("featuredImage")
	if !preview.UIOnly {
		t.Fatalf("expected featuredImage to be UI only")
	}
	ref, _ := def.Field("featuredImageId")
	if ref.Label != "Featured image" || ref.Metadata[widgets.PreviewMetadataKey] != "featuredImage" {
		t.Fatalf("unexpected featuredImageId decoration: %+v", ref)
	}
	badge, _ := def.Field("badge")
	if diff := cmp.Diff([]any{BadgeNewProduct, BadgeBestSale, BadgeFeatured}, badge.Options); diff != "" {
		t.Fatalf("badge options mismatch (-want +got):\n%s", diff)
	}
	if got := Redirect(def); got != "/products" {
		t.Fatalf("expected redirect /products, got %q", got)
	}
}

func TestSignUpDefinition(t *testing.T) {
	def, err := SignUpDefinition(context.Background())
	if err != nil {
		t.Fatalf("signup definition: %v", err)
	}
	if diff := cmp.Diff([]string{"email", "password"}, def.Names()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	password, _ := def.Field("password")
	if password.Widget != widgets.WidgetPassword || !password.Required {
		t.Fatalf("unexpected password field: %+v", password)
	}
	if got := Redirect(def); got != "/" {
		t.Fatalf("expected redirect /, got %q", got)
	}
}

func TestDefinitions(t *testing.T) {
	defs, err := Definitions(context.Background())
	if err != nil {
		t.Fatalf("definitions: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected two forms, got %d", len(defs))
	}
	for id, def := range defs {
		if def.ID != id {
			t.Fatalf("form %q carries id %q", id, def.ID)
		}
	}
}

func TestProductDefinition_ValidatesEmptyForm(t *testing.T) {
	def, err := ProductDefinition(context.Background())
	if err != nil {
		t.Fatalf("product definition: %v", err)
	}
	state := form.Initialize(def, nil).ValidateAll()

	want := []string{"description", "featuredImageId", "name", "price", "rating", "slug"}
	if diff := cmp.Diff(want, state.Errors().Fields()); diff != "" {
		t.Fatalf("invalid fields mismatch (-want +got):\n%s", diff)
	}
}
