package model

import internalmodel "github.com/goliatone/go-formflow/internal/model"

// FieldKind re-exports the internal FieldKind enumeration.
type FieldKind = internalmodel.FieldKind

const (
	FieldKindText      = internalmodel.FieldKindText
	FieldKindNumber    = internalmodel.FieldKindNumber
	FieldKindInteger   = internalmodel.FieldKindInteger
	FieldKindBoolean   = internalmodel.FieldKindBoolean
	FieldKindEnum      = internalmodel.FieldKindEnum
	FieldKindList      = internalmodel.FieldKindList
	FieldKindReference = internalmodel.FieldKindReference
)

const (
	ValidationRuleMin       = internalmodel.ValidationRuleMin
	ValidationRuleMax       = internalmodel.ValidationRuleMax
	ValidationRuleMinLength = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern   = internalmodel.ValidationRulePattern
)

const (
	FormatEmail    = internalmodel.FormatEmail
	FormatPassword = internalmodel.FormatPassword
	FormatTextarea = internalmodel.FormatTextarea
	FormatSlug     = internalmodel.FormatSlug
)

type ValidationRule = internalmodel.ValidationRule
type Field = internalmodel.Field
type FormDefinition = internalmodel.FormDefinition

var (
	ErrEmptyFieldName = internalmodel.ErrEmptyFieldName
	ErrDuplicateField = internalmodel.ErrDuplicateField
	ErrUnknownKind    = internalmodel.ErrUnknownKind
)

// NewDefinition builds a definition, rejecting empty or duplicate names.
func NewDefinition(id string, fields ...Field) (FormDefinition, error) {
	return internalmodel.NewDefinition(id, fields...)
}

// MustDefinition panics when the definition is invalid.
func MustDefinition(id string, fields ...Field) FormDefinition {
	return internalmodel.MustDefinition(id, fields...)
}

// ValidateDefinition checks structural invariants of an existing definition.
func ValidateDefinition(def FormDefinition) error {
	return internalmodel.ValidateDefinition(def)
}

// DefaultLabeler is the label generator used when no override is supplied.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}
