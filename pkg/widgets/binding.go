package widgets

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/model"
)

// Choice is one selectable option in a View.
type Choice struct {
	Value    any    `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
	Preview  string `json:"preview,omitempty"`
}

// View is what a host needs to draw one field.
type View struct {
	Name        string   `json:"name"`
	Widget      string   `json:"widget"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder,omitempty"`
	Description string   `json:"description,omitempty"`
	Value       any      `json:"value"`
	Display     string   `json:"display"`
	Required    bool     `json:"required"`
	Errors      []string `json:"errors,omitempty"`
	Choices     []Choice `json:"choices,omitempty"`
	Dirty       bool     `json:"dirty,omitempty"`
	Disabled    bool     `json:"disabled,omitempty"`
}

// Binding connects one field to a controller. View derives everything from
// the supplied state; Change converts raw UI input and writes it through the
// controller.
type Binding interface {
	Field() model.Field
	Widget() string
	View(state *form.State) View
	Change(raw any) (*form.State, error)
}

// BindOption configures Bind.
type BindOption func(*bindConfig)

type bindConfig struct {
	registry *Registry
	source   ReferenceSource
}

// WithRegistry resolves widgets through reg instead of the default registry.
func WithRegistry(reg *Registry) BindOption {
	return func(cfg *bindConfig) {
		if reg != nil {
			cfg.registry = reg
		}
	}
}

// WithReferenceSource supplies the options of reference pickers.
func WithReferenceSource(source ReferenceSource) BindOption {
	return func(cfg *bindConfig) {
		cfg.source = source
	}
}

// Bind returns the binding for the named field of ctrl's definition.
func Bind(ctrl *form.Controller, name string, options ...BindOption) (Binding, error) {
	def := ctrl.Definition()
	field, ok := def.Field(name)
	if !ok {
		return nil, &form.UnknownFieldError{Form: def.ID, Field: name}
	}
	cfg := bindConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.registry == nil {
		cfg.registry = defaultRegistry
	}

	widget, _ := cfg.registry.Resolve(field)
	b := base{ctrl: ctrl, field: field, widget: widget}
	switch widget {
	case WidgetCheckbox:
		return &Checkbox{base: b}, nil
	case WidgetTagList:
		return &TagList{base: b}, nil
	case WidgetReferencePicker:
		return &ReferencePicker{base: b, source: cfg.source}, nil
	case WidgetSelect:
		return &Select{base: b}, nil
	case WidgetNumber:
		return &NumberInput{base: b}, nil
	default:
		return &TextInput{base: b}, nil
	}
}

// BindAll binds every field of the controller's definition in order.
func BindAll(ctrl *form.Controller, options ...BindOption) ([]Binding, error) {
	def := ctrl.Definition()
	out := make([]Binding, 0, len(def.Fields))
	for _, field := range def.Fields {
		binding, err := Bind(ctrl, field.Name, options...)
		if err != nil {
			return nil, err
		}
		out = append(out, binding)
	}
	return out, nil
}

var defaultRegistry = NewRegistry()

type base struct {
	ctrl   *form.Controller
	field  model.Field
	widget string
}

func (b base) Field() model.Field { return b.field }
func (b base) Widget() string     { return b.widget }

func (b base) view(state *form.State) View {
	value, _ := state.Value(b.field.Name)
	return View{
		Name:        b.field.Name,
		Widget:      b.widget,
		Label:       b.field.DisplayLabel(),
		Placeholder: b.field.Placeholder,
		Description: b.field.Description,
		Value:       value,
		Display:     display(value),
		Required:    b.field.Required,
		Errors:      state.FieldErrors(b.field.Name),
		Dirty:       state.Dirty(b.field.Name),
		Disabled:    state.Pending(),
	}
}

func (b base) set(value any) (*form.State, error) {
	return b.ctrl.SetField(b.field.Name, value)
}

func display(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = display(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// ReferenceOption is one entity a ReferencePicker can point at.
type ReferenceOption struct {
	ID      any
	Label   string
	Preview string
}

// ReferenceSource lists the entities available to a reference field.
type ReferenceSource interface {
	References(ctx context.Context, field model.Field) ([]ReferenceOption, error)
}

// ReferenceSourceFunc adapts a function into a ReferenceSource.
type ReferenceSourceFunc func(ctx context.Context, field model.Field) ([]ReferenceOption, error)

// References calls the underlying function.
func (fn ReferenceSourceFunc) References(ctx context.Context, field model.Field) ([]ReferenceOption, error) {
	return fn(ctx, field)
}

// StaticReferences serves a fixed option list.
func StaticReferences(options ...ReferenceOption) ReferenceSource {
	return ReferenceSourceFunc(func(context.Context, model.Field) ([]ReferenceOption, error) {
		return append([]ReferenceOption(nil), options...), nil
	})
}
