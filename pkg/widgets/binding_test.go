package widgets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/widgets"
)

func productController() *form.Controller {
	def := model.MustDefinition("products",
		model.Field{Name: "name", Label: "Name", Required: true, Placeholder: "Product name"},
		model.Field{Name: "price", Kind: model.FieldKindNumber, Required: true},
		model.Field{Name: "stock", Kind: model.FieldKindInteger},
		model.Field{Name: "featured", Kind: model.FieldKindBoolean},
		model.Field{Name: "badge", Kind: model.FieldKindEnum, Options: []any{"new_product", "best_sale"},
			Metadata: map[string]string{"option.best_sale": "Best seller"}},
		model.Field{Name: "tags", Kind: model.FieldKindList},
		model.Field{Name: "featuredImageId", Kind: model.FieldKindReference, Required: true,
			Metadata: map[string]string{widgets.PreviewMetadataKey: "featuredImage"}},
		model.Field{Name: "featuredImage", Kind: model.FieldKindText, UIOnly: true, Widget: "image-preview"},
	)
	return form.NewController(def, nil)
}

func bind(t *testing.T, ctrl *form.Controller, name string, opts ...widgets.BindOption) widgets.Binding {
	t.Helper()
	b, err := widgets.Bind(ctrl, name, opts...)
	if err != nil {
		t.Fatalf("bind %s: %v", name, err)
	}
	return b
}

func TestBind_UnknownField(t *testing.T) {
	_, err := widgets.Bind(productController(), "colour")
	if !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestBindAll_ResolvesWidgetTypes(t *testing.T) {
	bindings, err := widgets.BindAll(productController())
	if err != nil {
		t.Fatalf("bind all: %v", err)
	}
	got := make([]string, len(bindings))
	for i, b := range bindings {
		got[i] = b.Widget()
	}
	want := []string{"text", "number", "number", "checkbox", "select", "tag-list", "reference-picker", "image-preview"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("widgets mismatch (-want +got):\n%s", diff)
	}
	if _, ok := bindings[3].(*widgets.Checkbox); !ok {
		t.Fatalf("featured should bind a *Checkbox, got %T", bindings[3])
	}
	if _, ok := bindings[7].(*widgets.TextInput); !ok {
		t.Fatalf("unknown widget names fall back to *TextInput, got %T", bindings[7])
	}
}

func TestTextInput_ViewAndChange(t *testing.T) {
	ctrl := productController()
	name := bind(t, ctrl, "name")

	state := ctrl.ValidateAll()
	view := name.View(state)
	if view.Label != "Name" || view.Placeholder != "Product name" || !view.Required {
		t.Fatalf("unexpected view: %#v", view)
	}
	if diff := cmp.Diff([]string{"required"}, view.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	state, err := name.Change("Mug")
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	view = name.View(state)
	if view.Value != "Mug" || view.Errors != nil || !view.Dirty {
		t.Fatalf("unexpected view after change: %#v", view)
	}
}

func TestNumberInput_Change(t *testing.T) {
	ctrl := productController()
	price := bind(t, ctrl, "price")
	stock := bind(t, ctrl, "stock")

	state, _ := price.Change(" 12.5 ")
	if got, _ := state.Value("price"); got != 12.5 {
		t.Fatalf("price = %#v", got)
	}
	state, _ = price.Change("abc")
	if got, _ := state.Value("price"); got != "abc" {
		t.Fatalf("non-numeric input should be kept, got %#v", got)
	}
	if msgs := ctrl.ValidateAll().FieldErrors("price"); len(msgs) != 1 || msgs[0] != "not a number" {
		t.Fatalf("price errors = %v", msgs)
	}
	state, _ = price.Change("")
	if got, _ := state.Value("price"); got != nil {
		t.Fatalf("blank input should clear, got %#v", got)
	}
	state, _ = stock.Change("7")
	if got, _ := state.Value("stock"); got != int64(7) {
		t.Fatalf("stock = %#v", got)
	}
}

func TestCheckbox_Toggle(t *testing.T) {
	ctrl := productController()
	featured := bind(t, ctrl, "featured").(*widgets.Checkbox)

	state, err := featured.Toggle()
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got, _ := state.Value("featured"); got != true {
		t.Fatalf("featured = %#v", got)
	}
	state, _ = featured.Change("off")
	if featured.View(state).Display != "false" {
		t.Fatalf("display = %q", featured.View(state).Display)
	}
}

func TestSelect_ChoicesAndChoose(t *testing.T) {
	ctrl := productController()
	badge := bind(t, ctrl, "badge").(*widgets.Select)

	state, err := badge.Choose(1)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	want := []widgets.Choice{
		{Value: "new_product", Label: "New product"},
		{Value: "best_sale", Label: "Best seller", Selected: true},
	}
	if diff := cmp.Diff(want, badge.View(state).Choices); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
	if _, err := badge.Choose(5); err == nil {
		t.Fatalf("expected out of range error")
	}
	state, _ = badge.Change("")
	if got, _ := state.Value("badge"); got != "" {
		t.Fatalf("badge = %#v", got)
	}
}

func TestTagList_AddRemoveDedup(t *testing.T) {
	ctrl := productController()
	tagList := bind(t, ctrl, "tags").(*widgets.TagList)

	state, _ := tagList.Change("kitchen, gift, kitchen, ")
	if diff := cmp.Diff([]any{"kitchen", "gift"}, mustValue(t, state, "tags")); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	version := state.Version()
	state, _ = tagList.Add("gift")
	if state.Version() != version {
		t.Fatalf("adding a duplicate must not replace the state")
	}
	state, _ = tagList.Add(" sale ")
	state, _ = tagList.Remove("kitchen")
	if diff := cmp.Diff([]any{"gift", "sale"}, mustValue(t, state, "tags")); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if got := tagList.View(state).Display; got != "gift, sale" {
		t.Fatalf("display = %q", got)
	}
}

func TestReferencePicker_PickWritesPreview(t *testing.T) {
	ctrl := productController()
	source := widgets.StaticReferences(
		widgets.ReferenceOption{ID: 42, Label: "Mug photo", Preview: "https://cdn.example/42.png"},
	)
	picker := bind(t, ctrl, "featuredImageId", widgets.WithReferenceSource(source)).(*widgets.ReferencePicker)

	options, err := picker.Options(context.Background())
	if err != nil || len(options) != 1 {
		t.Fatalf("options: %v %v", options, err)
	}

	calls := 0
	ctrl.Subscribe(func(*form.State) { calls++ })
	state, err := picker.Pick(options[0])
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if calls != 1 {
		t.Fatalf("pick should replace the state once, got %d", calls)
	}
	if got := mustValue(t, state, "featuredImageId"); got != int64(42) {
		t.Fatalf("id = %#v", got)
	}
	if got := mustValue(t, state, "featuredImage"); got != "https://cdn.example/42.png" {
		t.Fatalf("preview = %#v", got)
	}

	state, _ = picker.Change("")
	if got := mustValue(t, state, "featuredImageId"); got != nil {
		t.Fatalf("blank should clear, got %#v", got)
	}
}

func TestReferencePicker_SourceError(t *testing.T) {
	ctrl := productController()
	failing := widgets.ReferenceSourceFunc(func(context.Context, model.Field) ([]widgets.ReferenceOption, error) {
		return nil, errors.New("offline")
	})
	picker := bind(t, ctrl, "featuredImageId", widgets.WithReferenceSource(failing)).(*widgets.ReferencePicker)
	if _, err := picker.Options(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func mustValue(t *testing.T, state *form.State, name string) any {
	t.Helper()
	value, ok := state.Value(name)
	if !ok {
		t.Fatalf("missing value %s", name)
	}
	return value
}
