package submit_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/submit"
)

func TestProject_CoercesAndDropsUIOnlyFields(t *testing.T) {
	def := model.MustDefinition("products",
		model.Field{Name: "name", Required: true},
		model.Field{Name: "description", Format: model.FormatTextarea, Metadata: map[string]string{"sanitize": "ugc"}},
		model.Field{Name: "summary", Metadata: map[string]string{"sanitize": "strict"}},
		model.Field{Name: "featured", Kind: model.FieldKindBoolean},
		model.Field{Name: "badge", Kind: model.FieldKindEnum, Options: []any{"new_product"}},
		model.Field{Name: "rating", Kind: model.FieldKindNumber},
		model.Field{Name: "stock", Kind: model.FieldKindInteger},
		model.Field{Name: "tags", Kind: model.FieldKindList},
		model.Field{Name: "price", Kind: model.FieldKindNumber, Required: true},
		model.Field{Name: "featuredImageId", Kind: model.FieldKindReference, Required: true},
		model.Field{Name: "featuredImage", Kind: model.FieldKindReference, UIOnly: true},
		model.Field{Name: "subtitle"},
	)

	payload := submit.Project(def, map[string]any{
		"name":            "Mug",
		"description":     `<p>Nice <script>alert(1)</script>mug</p>`,
		"summary":         "<b>bold</b> claim",
		"featured":        "on",
		"badge":           "",
		"rating":          json.Number("4.5"),
		"stock":           "3",
		"tags":            "kitchen, gift",
		"price":           "12.50",
		"featuredImageId": "42",
		"featuredImage":   "https://cdn.example/mug.png",
		"subtitle":        "  ",
	})

	want := submit.Payload{
		"name":            "Mug",
		"description":     "<p>Nice mug</p>",
		"summary":         "bold claim",
		"featured":        true,
		"rating":          4.5,
		"stock":           int64(3),
		"tags":            []any{"kitchen", "gift"},
		"price":           12.5,
		"featuredImageId": int64(42),
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_KeepsFalseBooleans(t *testing.T) {
	def := model.MustDefinition("flags", model.Field{Name: "featured", Kind: model.FieldKindBoolean})
	payload := submit.Project(def, map[string]any{"featured": false})
	if diff := cmp.Diff(submit.Payload{"featured": false}, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}
