package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyFieldName is returned when a field is declared without a name.
	ErrEmptyFieldName = errors.New("model: field name is required")
	// ErrDuplicateField is returned when two fields share a name.
	ErrDuplicateField = errors.New("model: duplicate field name")
	// ErrUnknownKind is returned for kinds outside the supported set.
	ErrUnknownKind = errors.New("model: unknown field kind")
)

// NewDefinition builds a FormDefinition, enforcing unique non-empty names.
// Fields without a kind default to text.
func NewDefinition(id string, fields ...Field) (FormDefinition, error) {
	def := FormDefinition{
		ID:     strings.TrimSpace(id),
		Fields: make([]Field, 0, len(fields)),
	}
	for _, field := range fields {
		field = field.Clone()
		field.Name = strings.TrimSpace(field.Name)
		if field.Kind == "" {
			field.Kind = FieldKindText
		}
		def.Fields = append(def.Fields, field)
	}
	if err := ValidateDefinition(def); err != nil {
		return FormDefinition{}, err
	}
	return def, nil
}

// MustDefinition panics when NewDefinition fails. Useful for package-level
// form declarations and tests.
func MustDefinition(id string, fields ...Field) FormDefinition {
	def, err := NewDefinition(id, fields...)
	if err != nil {
		panic(err)
	}
	return def
}

// ValidateDefinition checks the structural invariants of a definition.
func ValidateDefinition(def FormDefinition) error {
	seen := make(map[string]struct{}, len(def.Fields))
	for idx, field := range def.Fields {
		if field.Name == "" {
			return fmt.Errorf("%w (index %d)", ErrEmptyFieldName, idx)
		}
		if _, exists := seen[field.Name]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateField, field.Name)
		}
		seen[field.Name] = struct{}{}
		if !knownKind(field.Kind) {
			return fmt.Errorf("%w: %q (field %s)", ErrUnknownKind, field.Kind, field.Name)
		}
	}
	return nil
}

func knownKind(kind FieldKind) bool {
	switch kind {
	case FieldKindText, FieldKindNumber, FieldKindInteger, FieldKindBoolean,
		FieldKindEnum, FieldKindList, FieldKindReference:
		return true
	default:
		return false
	}
}
