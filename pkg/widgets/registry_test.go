package widgets

import (
	"testing"

	"github.com/goliatone/go-formflow/pkg/model"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	field := model.Field{Kind: model.FieldKindBoolean, Widget: "custom-toggle"}

	if got, ok := reg.Resolve(field); !ok || got != "custom-toggle" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}

	field = model.Field{Kind: model.FieldKindBoolean, Metadata: map[string]string{"widget": "switch"}}
	if got, _ := reg.Resolve(field); got != "switch" {
		t.Fatalf("expected metadata widget, got %q", got)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		field  model.Field
		expect string
	}{
		{name: "boolean checkbox", field: model.Field{Kind: model.FieldKindBoolean}, expect: WidgetCheckbox},
		{name: "list tag-list", field: model.Field{Kind: model.FieldKindList, Options: []any{"a"}}, expect: WidgetTagList},
		{name: "reference picker", field: model.Field{Kind: model.FieldKindReference}, expect: WidgetReferencePicker},
		{name: "enum select", field: model.Field{Kind: model.FieldKindEnum, Options: []any{"a"}}, expect: WidgetSelect},
		{name: "integer number", field: model.Field{Kind: model.FieldKindInteger}, expect: WidgetNumber},
		{name: "password format", field: model.Field{Kind: model.FieldKindText, Format: model.FormatPassword}, expect: WidgetPassword},
		{name: "textarea format", field: model.Field{Kind: model.FieldKindText, Format: "TEXTAREA"}, expect: WidgetTextarea},
		{name: "text fallback", field: model.Field{Kind: model.FieldKindText, Format: model.FormatEmail}, expect: WidgetText},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := reg.Resolve(tc.field)
			if !ok || got != tc.expect {
				t.Fatalf("expected %q, got %q (ok=%v)", tc.expect, got, ok)
			}
		})
	}
}

func TestRegister_PriorityAndOrder(t *testing.T) {
	reg := &Registry{}
	reg.Register("first", 10, func(model.Field) bool { return true })
	reg.Register("second", 10, func(model.Field) bool { return true })
	reg.Register("slug", 20, func(f model.Field) bool { return f.Format == model.FormatSlug })

	if got, _ := reg.Resolve(model.Field{}); got != "first" {
		t.Fatalf("tie should keep registration order, got %q", got)
	}
	if got, _ := reg.Resolve(model.Field{Format: model.FormatSlug}); got != "slug" {
		t.Fatalf("higher priority should win, got %q", got)
	}
	if _, ok := (&Registry{}).Resolve(model.Field{}); ok {
		t.Fatalf("empty registry must not resolve")
	}
}

func TestDecorate_SetsMissingWidgets(t *testing.T) {
	def := model.MustDefinition("products",
		model.Field{Name: "featured", Kind: model.FieldKindBoolean},
		model.Field{Name: "image", Kind: model.FieldKindReference, Widget: "media-library"},
	)
	if err := NewRegistry().Decorate(&def); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if def.Fields[0].Widget != WidgetCheckbox || def.Fields[1].Widget != "media-library" {
		t.Fatalf("unexpected widgets: %q %q", def.Fields[0].Widget, def.Fields[1].Widget)
	}
}
