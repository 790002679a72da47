package validation_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

func rule(kind string, params map[string]string) model.ValidationRule {
	return model.ValidationRule{Kind: kind, Params: params}
}

func productDefinition() model.FormDefinition {
	return model.MustDefinition("products",
		model.Field{Name: "title", Kind: model.FieldKindText, Required: true},
		model.Field{
			Name: "price", Kind: model.FieldKindNumber,
			Validations: []model.ValidationRule{rule(model.ValidationRuleMin, map[string]string{"value": "0"})},
		},
	)
}

func TestValidate_ExampleFromRequirements(t *testing.T) {
	got := validation.Validate(productDefinition(), map[string]any{"title": "", "price": -5})
	want := validation.Errors{
		"title": {"required"},
		"price": {"out of range"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_ValidValuesProduceEmptyMapping(t *testing.T) {
	got := validation.Validate(productDefinition(), map[string]any{"title": "Mug", "price": "12.50"})
	if !got.Valid() || len(got) != 0 {
		t.Fatalf("expected no errors, got %#v", got)
	}
}

func TestValidate_OptionalAbsentFieldsAreSkipped(t *testing.T) {
	def := model.MustDefinition("optional",
		model.Field{Name: "rating", Kind: model.FieldKindNumber, Validations: []model.ValidationRule{
			rule(model.ValidationRuleMin, map[string]string{"value": "1"}),
		}},
		model.Field{Name: "nickname", Kind: model.FieldKindText, Validations: []model.ValidationRule{
			rule(model.ValidationRuleMinLength, map[string]string{"value": "3"}),
		}},
	)
	got := validation.Validate(def, map[string]any{"nickname": "   "})
	if len(got) != 0 {
		t.Fatalf("expected optional empty values to pass, got %#v", got)
	}
}

func TestValidate_KindAndConstraintMessages(t *testing.T) {
	def := model.MustDefinition("everything",
		model.Field{Name: "qty", Kind: model.FieldKindInteger},
		model.Field{Name: "rating", Kind: model.FieldKindNumber, Validations: []model.ValidationRule{
			rule(model.ValidationRuleMin, map[string]string{"value": "0"}),
			rule(model.ValidationRuleMax, map[string]string{"value": "5", "exclusive": "true"}),
		}},
		model.Field{Name: "slug", Validations: []model.ValidationRule{
			rule(model.ValidationRulePattern, map[string]string{"pattern": `^[a-z0-9]+(?:-[a-z0-9]+)*$`}),
		}},
		model.Field{Name: "code", Validations: []model.ValidationRule{
			rule(model.ValidationRulePattern, map[string]string{"pattern": `([a-z`}),
		}},
		model.Field{Name: "password", Format: model.FormatPassword, Validations: []model.ValidationRule{
			rule(model.ValidationRuleMinLength, map[string]string{"value": "8"}),
			rule(model.ValidationRuleMaxLength, map[string]string{"value": "10"}),
		}},
		model.Field{Name: "email", Format: model.FormatEmail},
		model.Field{Name: "badge", Kind: model.FieldKindEnum, Options: []any{"new_product", "best_sale"}},
		model.Field{Name: "featured", Kind: model.FieldKindBoolean},
		model.Field{Name: "tags", Kind: model.FieldKindList, Options: []any{"a", "b"}, Validations: []model.ValidationRule{
			rule(model.ValidationRuleMaxLength, map[string]string{"value": "1"}),
		}},
		model.Field{Name: "image", Kind: model.FieldKindReference},
	)

	got := validation.Validate(def, map[string]any{
		"qty":      "1.5",
		"rating":   5,
		"slug":     "Not A Slug",
		"code":     "abc",
		"password": "short",
		"email":    "nobody",
		"badge":    "clearance",
		"featured": "maybe",
		"tags":     "a, c",
		"image":    -1,
	})
	want := validation.Errors{
		"qty":      {"not an integer"},
		"rating":   {"out of range"},
		"slug":     {"does not match required pattern"},
		"code":     {"invalid pattern"},
		"password": {"too short"},
		"email":    {"invalid email address"},
		"badge":    {"not an allowed value"},
		"featured": {"not a boolean"},
		"tags":     {"too many items", "not an allowed value"},
		"image":    {"invalid reference"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_AcceptedRepresentations(t *testing.T) {
	def := model.MustDefinition("reprs",
		model.Field{Name: "price", Kind: model.FieldKindNumber, Required: true},
		model.Field{Name: "qty", Kind: model.FieldKindInteger, Required: true},
		model.Field{Name: "featured", Kind: model.FieldKindBoolean, Required: true},
		model.Field{Name: "tags", Kind: model.FieldKindList, Required: true},
		model.Field{Name: "image", Kind: model.FieldKindReference, Required: true},
		model.Field{Name: "title", Required: true, Validations: []model.ValidationRule{
			rule(model.ValidationRuleMaxLength, map[string]string{"value": "3"}),
		}},
	)
	got := validation.Validate(def, map[string]any{
		"price":    json.Number("9.99"),
		"qty":      float64(3),
		"featured": "on",
		"tags":     []string{"x"},
		"image":    "img_42",
		"title":    "ñam",
	})
	if len(got) != 0 {
		t.Fatalf("expected representations to be accepted, got %#v", got)
	}
}

func TestValidate_WrongTypesNeverPanic(t *testing.T) {
	def := model.MustDefinition("weird",
		model.Field{Name: "title"},
		model.Field{Name: "price", Kind: model.FieldKindNumber},
		model.Field{Name: "tags", Kind: model.FieldKindList},
		model.Field{Name: "homepage", Required: true},
		model.Field{Name: "website"},
	)
	got := validation.Validate(def, map[string]any{
		"title":    map[string]any{"nested": true},
		"price":    []int{1},
		"tags":     42,
		"homepage": (*url.URL)(nil),
		"website":  (*url.URL)(nil),
	})
	want := validation.Errors{
		"title":    {"not a text value"},
		"price":    {"not a number"},
		"tags":     {"not an allowed value"},
		"homepage": {"required"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_StringerValuesAreText(t *testing.T) {
	def := model.MustDefinition("links",
		model.Field{Name: "homepage", Required: true, Validations: []model.ValidationRule{
			rule(model.ValidationRuleMaxLength, map[string]string{"value": "10"}),
		}},
	)
	got := validation.Validate(def, map[string]any{
		"homepage": &url.URL{Scheme: "https", Host: "example.com"},
	})
	want := validation.Errors{"homepage": {"too long"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_EnumWithoutOptionsAcceptsAnyValue(t *testing.T) {
	def := model.MustDefinition("open",
		model.Field{Name: "status", Kind: model.FieldKindEnum, Required: true},
	)
	if got := validation.Validate(def, map[string]any{"status": "draft"}); len(got) != 0 {
		t.Fatalf("expected enum without options to accept value, got %#v", got)
	}
	got := validation.Validate(def, map[string]any{"status": ""})
	want := validation.Errors{"status": {"required"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_IsPureAndDeterministic(t *testing.T) {
	def := productDefinition()
	values := map[string]any{"title": "", "price": "-1"}
	first := validation.Validate(def, values)
	second := validation.Validate(def, values)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("validate not deterministic (-first +second):\n%s", diff)
	}
	if values["price"] != "-1" || len(values) != 2 {
		t.Fatalf("values mutated: %#v", values)
	}
}

func TestValidate_TranslatorAndOnly(t *testing.T) {
	translator := validation.TranslatorFunc(func(code string, params map[string]any) string {
		return params["label"].(string) + ": " + code
	})
	def := model.MustDefinition("signup",
		model.Field{Name: "email", Label: "Email", Required: true},
		model.Field{Name: "password", Label: "Password", Required: true},
	)
	got := validation.Validate(def, map[string]any{}, validation.WithTranslator(translator), validation.Only("email"))
	want := validation.Errors{"email": {"Email: required"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorsHelpers(t *testing.T) {
	errs := validation.Errors{"b": {"required"}, "a": {"too short", "invalid pattern"}, "c": nil}
	if errs.Valid() {
		t.Fatalf("expected invalid")
	}
	if diff := cmp.Diff([]string{"a", "b"}, errs.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if errs.First("a") != "too short" || errs.Has("c") {
		t.Fatalf("unexpected helper results")
	}
	clone := errs.Clone()
	clone["a"][0] = "changed"
	if errs["a"][0] != "too short" {
		t.Fatalf("clone shares slices")
	}
}
