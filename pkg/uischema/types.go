package uischema

import "strings"

// Store keeps the parsed form overlays. It is safe for concurrent readers
// when treated as immutable after construction.
type Store struct {
	forms map[string]Form
}

// Form describes the overlay for one form id.
type Form struct {
	ID          string                 `json:"-" yaml:"-"`
	Source      string                 `json:"-" yaml:"-"`
	Title       string                 `json:"title,omitempty" yaml:"title,omitempty"`
	Redirect    string                 `json:"redirect,omitempty" yaml:"redirect,omitempty"`
	Order       []string               `json:"order,omitempty" yaml:"order,omitempty"`
	OrderPreset string                 `json:"orderPreset,omitempty" yaml:"orderPreset,omitempty"`
	Metadata    map[string]string      `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Fields      map[string]FieldConfig `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// FieldConfig customises one field. Pointer members distinguish "not set"
// from an explicit false.
type FieldConfig struct {
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Widget      string            `json:"widget,omitempty" yaml:"widget,omitempty"`
	Format      string            `json:"format,omitempty" yaml:"format,omitempty"`
	Required    *bool             `json:"required,omitempty" yaml:"required,omitempty"`
	UIOnly      *bool             `json:"uiOnly,omitempty" yaml:"uiOnly,omitempty"`
	Default     any               `json:"default,omitempty" yaml:"default,omitempty"`
	Options     []any             `json:"options,omitempty" yaml:"options,omitempty"`
	Pattern     string            `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NormalizeFieldName trims a field key and strips list markers ("tags[]").
func NormalizeFieldName(name string) string {
	trimmed := strings.TrimSpace(name)
	trimmed = strings.TrimSuffix(trimmed, "[]")
	return strings.Trim(trimmed, ".")
}
