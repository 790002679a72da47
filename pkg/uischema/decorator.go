package uischema

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Decorator returns a model.Decorator applying the overlay registered for
// formID. Forms without an overlay are left unchanged.
func (s *Store) Decorator(formID string) model.Decorator {
	return model.DecoratorFunc(func(def *model.FormDefinition) error {
		form, ok := s.Form(formID)
		if !ok {
			return nil
		}
		return form.Apply(def)
	})
}

// Apply writes the overlay onto def. Overlay entries naming fields that def
// does not declare are an error, so typos surface at startup.
func (f Form) Apply(def *model.FormDefinition) error {
	if def == nil {
		return nil
	}
	if f.Title != "" {
		def.Title = f.Title
	}
	if len(f.Metadata) > 0 || f.Redirect != "" {
		if def.Metadata == nil {
			def.Metadata = make(map[string]string, len(f.Metadata)+1)
		}
		for k, v := range f.Metadata {
			def.Metadata[k] = v
		}
		if f.Redirect != "" {
			def.Metadata["redirect"] = f.Redirect
		}
	}

	for name, cfg := range f.Fields {
		idx := fieldIndex(def, name)
		if idx < 0 {
			return fmt.Errorf("uischema: form %q (file %s) configures unknown field %q", f.ID, f.Source, name)
		}
		applyField(&def.Fields[idx], cfg)
	}

	if len(f.Order) > 0 {
		ordered, err := reorder(def.Fields, f.Order)
		if err != nil {
			return fmt.Errorf("uischema: form %q (file %s): %w", f.ID, f.Source, err)
		}
		def.Fields = ordered
	}
	return nil
}

func applyField(field *model.Field, cfg FieldConfig) {
	if cfg.Label != "" {
		field.Label = cfg.Label
	}
	if cfg.Placeholder != "" {
		field.Placeholder = cfg.Placeholder
	}
	if cfg.Description != "" {
		field.Description = cfg.Description
	}
	if cfg.Widget != "" {
		field.Widget = strings.TrimSpace(cfg.Widget)
	}
	if cfg.Format != "" {
		field.Format = cfg.Format
	}
	if cfg.Required != nil {
		field.Required = *cfg.Required
	}
	if cfg.UIOnly != nil {
		field.UIOnly = *cfg.UIOnly
	}
	if cfg.Default != nil {
		field.Default = cfg.Default
	}
	if len(cfg.Options) > 0 {
		field.Options = append([]any(nil), cfg.Options...)
	}
	if cfg.Pattern != "" {
		replaced := false
		for i, rule := range field.Validations {
			if rule.Kind == model.ValidationRulePattern {
				field.Validations[i] = model.ValidationRule{Kind: rule.Kind, Params: map[string]string{"pattern": cfg.Pattern}}
				replaced = true
			}
		}
		if !replaced {
			field.Validations = append(field.Validations, model.ValidationRule{
				Kind:   model.ValidationRulePattern,
				Params: map[string]string{"pattern": cfg.Pattern},
			})
		}
	}
	if len(cfg.Metadata) > 0 {
		if field.Metadata == nil {
			field.Metadata = make(map[string]string, len(cfg.Metadata))
		}
		for k, v := range cfg.Metadata {
			field.Metadata[k] = v
		}
	}
}

func fieldIndex(def *model.FormDefinition, name string) int {
	for idx, field := range def.Fields {
		if field.Name == name {
			return idx
		}
	}
	return -1
}

// reorder places the named fields first, in the given order, followed by the
// remaining fields in their original order.
func reorder(fields []model.Field, order []string) ([]model.Field, error) {
	byName := make(map[string]int, len(fields))
	for idx, field := range fields {
		byName[field.Name] = idx
	}
	out := make([]model.Field, 0, len(fields))
	used := make(map[string]struct{}, len(order))
	for _, name := range order {
		idx, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("order references unknown field %q", name)
		}
		if _, dup := used[name]; dup {
			continue
		}
		used[name] = struct{}{}
		out = append(out, fields[idx])
	}
	for _, field := range fields {
		if _, ok := used[field.Name]; !ok {
			out = append(out, field)
		}
	}
	return out, nil
}
