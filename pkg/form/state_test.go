package form_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

func productDefinition() model.FormDefinition {
	return model.MustDefinition("products",
		model.Field{Name: "title", Kind: model.FieldKindText, Required: true},
		model.Field{Name: "price", Kind: model.FieldKindNumber, Required: true, Validations: []model.ValidationRule{
			{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "0"}},
		}},
		model.Field{Name: "featured", Kind: model.FieldKindBoolean},
		model.Field{Name: "badge", Kind: model.FieldKindEnum, Default: "new_product", Options: []any{"new_product", "best_sale"}},
		model.Field{Name: "tags", Kind: model.FieldKindList},
	)
}

func TestInitialize_SeedsEveryField(t *testing.T) {
	state := form.Initialize(productDefinition(), map[string]any{"title": "Mug", "unknown": 1})

	want := map[string]any{
		"title":    "Mug",
		"price":    nil,
		"featured": false,
		"badge":    "new_product",
		"tags":     []any{},
	}
	if diff := cmp.Diff(want, state.Snapshot()); diff != "" {
		t.Fatalf("initial values mismatch (-want +got):\n%s", diff)
	}
	if state.Pending() || state.Result() != form.Idle() || state.IsDirty() || state.Version() != 0 {
		t.Fatalf("unexpected initial flags: %#v", state)
	}
}

func TestInitialize_ValidDefaultsValidateClean(t *testing.T) {
	def := model.MustDefinition("defaults",
		model.Field{Name: "title", Kind: model.FieldKindText, Required: true, Default: "Mug", Validations: []model.ValidationRule{
			{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "20"}},
		}},
		model.Field{Name: "price", Kind: model.FieldKindNumber, Required: true, Default: 12.5, Validations: []model.ValidationRule{
			{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "0"}},
		}},
		model.Field{Name: "qty", Kind: model.FieldKindInteger, Required: true, Default: 3},
		model.Field{Name: "featured", Kind: model.FieldKindBoolean, Required: true, Default: true},
		model.Field{Name: "badge", Kind: model.FieldKindEnum, Required: true, Default: "best_sale", Options: []any{"new_product", "best_sale"}},
		model.Field{Name: "tags", Kind: model.FieldKindList, Required: true, Default: []any{"a"}},
		model.Field{Name: "image", Kind: model.FieldKindReference, Required: true, Default: "img_1"},
		model.Field{Name: "notes"},
	)

	state := form.Initialize(def, nil).ValidateAll()
	if errs := state.Errors(); len(errs) != 0 {
		t.Fatalf("expected defaults to validate clean, got %#v", errs)
	}
	if !state.Valid() {
		t.Fatalf("state should be valid")
	}
}

func TestSetField_ReturnsNewStateAndLeavesReceiver(t *testing.T) {
	def := productDefinition()
	initial := form.Initialize(def, nil).WithErrors(map[string][]string{"title": {"required"}}, nil)

	next, err := initial.SetField("title", "Mug")
	if err != nil {
		t.Fatalf("set field: %v", err)
	}
	if got, _ := next.Value("title"); got != "Mug" {
		t.Fatalf("title = %v", got)
	}
	if next.FieldErrors("title") != nil || !next.Dirty("title") || next.Dirty("price") {
		t.Fatalf("set field should clear errors and mark only title dirty")
	}
	if got, _ := initial.Value("title"); got != "" {
		t.Fatalf("receiver mutated: %v", got)
	}
	if initial.FieldErrors("title") == nil {
		t.Fatalf("receiver errors mutated")
	}
	if next.Version() <= initial.Version() {
		t.Fatalf("version did not increase")
	}
}

func TestSetField_UnknownField(t *testing.T) {
	state := form.Initialize(productDefinition(), nil)
	next, err := state.SetField("colour", "red")
	if next != nil {
		t.Fatalf("expected nil state")
	}
	var unknown *form.UnknownFieldError
	if !errors.As(err, &unknown) || unknown.Field != "colour" {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
	if !errors.Is(err, form.ErrUnknownField) || !form.IsUnknownField(err) {
		t.Fatalf("expected ErrUnknownField match")
	}
}

func TestValidateAll_AttachesErrors(t *testing.T) {
	state := form.Initialize(productDefinition(), map[string]any{"price": -5})
	validated := state.ValidateAll()

	if validated.Valid() {
		t.Fatalf("expected invalid state")
	}
	want := validation.Errors{"title": {"required"}, "price": {"out of range"}}
	if diff := cmp.Diff(want, validated.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	fixed, _ := validated.SetField("title", "Mug")
	fixed, _ = fixed.SetField("price", "4.5")
	if !fixed.ValidateAll().Valid() {
		t.Fatalf("expected valid state, got %#v", fixed.ValidateAll().Errors())
	}
}

func TestValidateField_OnlyTouchesOneField(t *testing.T) {
	state := form.Initialize(productDefinition(), map[string]any{"price": -1}).
		WithErrors(map[string][]string{"title": {"server says no"}}, nil)

	next, err := state.ValidateField("price")
	if err != nil {
		t.Fatalf("validate field: %v", err)
	}
	want := validation.Errors{"title": {"server says no"}, "price": {"out of range"}}
	if diff := cmp.Diff(want, next.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestWithErrors_FormLevelAndSnapshotIsolation(t *testing.T) {
	state := form.Initialize(productDefinition(), map[string]any{"tags": []any{"a"}})
	next := state.WithErrors(map[string][]string{"slug": {"duplicate slug"}}, []string{" Try again ", "Try again"})

	if diff := cmp.Diff([]string{"Try again"}, next.FormErrors()); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}

	snapshot := next.Snapshot()
	snapshot["tags"].([]any)[0] = "changed"
	if got, _ := next.Value("tags"); got.([]any)[0] != "a" {
		t.Fatalf("snapshot shares list storage")
	}
	if next.ValidateAll().FormErrors() != nil {
		t.Fatalf("validate all should drop stale form errors")
	}
}

func TestPendingAndResult(t *testing.T) {
	state := form.Initialize(productDefinition(), nil)
	pending := state.WithPending(true)
	done := pending.WithPending(false).WithResult(form.Failure("boom"))

	if state.Pending() || !pending.Pending() || done.Pending() {
		t.Fatalf("pending flags wrong")
	}
	if !done.Result().IsFailure() || done.Result().Message != "boom" {
		t.Fatalf("result = %#v", done.Result())
	}
	if !form.Success("/products").IsSuccess() {
		t.Fatalf("success helper broken")
	}
}
