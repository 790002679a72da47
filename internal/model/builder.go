package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	pkgopenapi "github.com/goliatone/go-formflow/pkg/openapi"
)

const (
	extensionNamespace       = "x-formflow"
	orderExtensionKey        = "x-formflow-order"
	relationshipExtensionKey = "x-relationships"
)

// Builder converts OpenAPI object schemas into form definitions.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	opts.IncludeReadOnly = options.IncludeReadOnly
	return &Builder{opts: opts}
}

// Build transforms an object schema into a FormDefinition. Properties are
// ordered by x-formflow-order first, the remainder alphabetically. Read-only
// properties (generated ids, timestamps) are skipped unless IncludeReadOnly is
// set.
func (b *Builder) Build(id string, schema pkgopenapi.Schema) (FormDefinition, error) {
	if strings.TrimSpace(id) == "" {
		return FormDefinition{}, fmt.Errorf("model builder: form id is required")
	}
	if schema.Type != "" && schema.Type != "object" {
		return FormDefinition{}, fmt.Errorf("model builder: form %q: expected object schema, got %q", id, schema.Type)
	}
	if len(schema.Properties) == 0 {
		return FormDefinition{}, fmt.Errorf("model builder: form %q: schema has no properties", id)
	}

	requiredSet := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		requiredSet[name] = struct{}{}
	}

	var fields []Field
	for _, name := range orderedProperties(schema) {
		prop := schema.Properties[name]
		if prop.ReadOnly && !b.opts.IncludeReadOnly {
			continue
		}
		_, required := requiredSet[name]
		field, err := b.fieldFromSchema(name, prop, required && !prop.Nullable)
		if err != nil {
			return FormDefinition{}, fmt.Errorf("model builder: form %q: %w", id, err)
		}
		fields = append(fields, field)
	}

	def, err := NewDefinition(id, fields...)
	if err != nil {
		return FormDefinition{}, err
	}
	def.Title = schema.Title
	if schema.Description != "" {
		def.Metadata = map[string]string{"description": schema.Description}
	}
	return def, nil
}

func (b *Builder) fieldFromSchema(name string, schema pkgopenapi.Schema, required bool) (Field, error) {
	field := Field{
		Name:        name,
		Format:      schema.Format,
		Label:       b.opts.Labeler(name),
		Description: schema.Description,
		Required:    required,
		Default:     schema.Default,
	}

	switch schema.Type {
	case "integer":
		field.Kind = FieldKindInteger
	case "number":
		field.Kind = FieldKindNumber
	case "boolean":
		field.Kind = FieldKindBoolean
	case "array":
		field.Kind = FieldKindList
		if schema.Items != nil && len(schema.Items.Enum) > 0 {
			field.Options = append([]any(nil), schema.Items.Enum...)
		}
	case "object":
		return Field{}, fmt.Errorf("field %q: nested objects are not supported", name)
	default:
		field.Kind = FieldKindText
	}
	if len(schema.Enum) > 0 && field.Kind != FieldKindList {
		field.Kind = FieldKindEnum
		field.Options = compactEnum(schema.Enum)
	}
	if _, ok := schema.Extensions[relationshipExtensionKey]; ok {
		field.Kind = FieldKindReference
		field.Metadata = mergeMetadata(field.Metadata, relationshipMetadata(schema.Extensions[relationshipExtensionKey]))
	}

	applyValidations(&field, schema)
	if err := applyExtensions(&field, schema.Extensions); err != nil {
		return Field{}, fmt.Errorf("field %q: %w", name, err)
	}
	return field, nil
}

func applyValidations(field *Field, schema pkgopenapi.Schema) {
	if schema.Minimum != nil {
		params := map[string]string{"value": formatFloat(*schema.Minimum)}
		if schema.ExclusiveMinimum {
			params["exclusive"] = "true"
		}
		field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleMin, Params: params})
	}
	if schema.Maximum != nil {
		params := map[string]string{"value": formatFloat(*schema.Maximum)}
		if schema.ExclusiveMaximum {
			params["exclusive"] = "true"
		}
		field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleMax, Params: params})
	}
	if schema.MinLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.Itoa(*schema.MinLength)},
		})
	}
	if schema.MaxLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.Itoa(*schema.MaxLength)},
		})
	}
	if schema.Pattern != "" {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRulePattern,
			Params: map[string]string{"pattern": schema.Pattern},
		})
	}
}

// applyExtensions reads the x-formflow namespace. Known keys steer the field
// (kind, widget, label, placeholder, uiOnly); everything else lands in
// Metadata as strings.
func applyExtensions(field *Field, ext map[string]any) error {
	values := make(map[string]any)
	if nested, ok := ext[extensionNamespace].(map[string]any); ok {
		for key, value := range nested {
			values[key] = value
		}
	}
	for key, value := range ext {
		if strings.HasPrefix(key, extensionNamespace+"-") && key != orderExtensionKey {
			values[strings.TrimPrefix(key, extensionNamespace+"-")] = value
		}
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := values[key]
		str, _ := CanonicalizeExtensionValue(value)
		switch key {
		case "kind":
			kind := FieldKind(strings.ToLower(str))
			if !knownKind(kind) {
				return fmt.Errorf("%w: %q", ErrUnknownKind, str)
			}
			field.Kind = kind
		case "widget":
			field.Widget = str
		case "label":
			field.Label = str
		case "placeholder":
			field.Placeholder = str
		case "uiOnly":
			field.UIOnly = str == "true"
		default:
			if str != "" {
				field.Metadata = mergeMetadata(field.Metadata, map[string]string{key: str})
			}
		}
	}
	return nil
}

func orderedProperties(schema pkgopenapi.Schema) []string {
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	preferred := stringList(schema.Extensions[orderExtensionKey])
	if len(preferred) == 0 {
		return names
	}

	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range preferred {
		if _, ok := schema.Properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, name := range names {
		if _, ok := seen[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func relationshipMetadata(value any) map[string]string {
	raw, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for key, val := range raw {
		if str, ok := CanonicalizeExtensionValue(val); ok && str != "" {
			out["relationship."+key] = str
		}
	}
	return out
}

func compactEnum(values []any) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		out = append(out, value)
	}
	return out
}

func stringList(value any) []string {
	switch typed := value.(type) {
	case []string:
		return typed
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if str, ok := item.(string); ok && str != "" {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

func mergeMetadata(target, updates map[string]string) map[string]string {
	if len(updates) == 0 {
		return target
	}
	if target == nil {
		target = make(map[string]string, len(updates))
	}
	for key, value := range updates {
		target[key] = value
	}
	return target
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
