package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetText            = "text"
	WidgetTextarea        = "textarea"
	WidgetPassword        = "password"
	WidgetNumber          = "number"
	WidgetCheckbox        = "checkbox"
	WidgetSelect          = "select"
	WidgetTagList         = "tag-list"
	WidgetReferencePicker = "reference-picker"
)

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit hints or registered
// matchers. Higher priority wins; ties fall back to registration order. An
// empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence. Callers should avoid duplicate names; the
// latest registration wins during resolution.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit Field.Widget (or
// Metadata["widget"]) is honoured before matcher evaluation.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if explicit := explicitWidget(field); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate implements model.Decorator, storing the resolved widget on every
// field that does not already name one.
func (r *Registry) Decorate(def *model.FormDefinition) error {
	if r == nil || def == nil {
		return nil
	}
	for idx, field := range def.Fields {
		if field.Widget != "" {
			continue
		}
		if widget, ok := r.Resolve(field); ok {
			def.Fields[idx].Widget = widget
		}
	}
	return nil
}

func explicitWidget(field model.Field) string {
	if widget := strings.TrimSpace(field.Widget); widget != "" {
		return widget
	}
	if field.Metadata != nil {
		if widget := strings.TrimSpace(field.Metadata["widget"]); widget != "" {
			return widget
		}
	}
	return ""
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetCheckbox, 90, func(field model.Field) bool {
		return field.Kind == model.FieldKindBoolean
	})

	r.Register(WidgetTagList, 80, func(field model.Field) bool {
		return field.Kind == model.FieldKindList
	})

	r.Register(WidgetReferencePicker, 75, func(field model.Field) bool {
		return field.Kind == model.FieldKindReference
	})

	r.Register(WidgetSelect, 70, func(field model.Field) bool {
		return field.Kind == model.FieldKindEnum
	})

	r.Register(WidgetNumber, 60, func(field model.Field) bool {
		return field.Kind == model.FieldKindNumber || field.Kind == model.FieldKindInteger
	})

	r.Register(WidgetPassword, 50, func(field model.Field) bool {
		return strings.EqualFold(field.Format, model.FormatPassword)
	})

	r.Register(WidgetTextarea, 40, func(field model.Field) bool {
		return strings.EqualFold(field.Format, model.FormatTextarea)
	})

	r.Register(WidgetText, 0, func(model.Field) bool {
		return true
	})
}
