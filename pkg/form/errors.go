package form

import (
	"errors"
	"fmt"
)

// ErrUnknownField is matched by errors.Is for writes to undeclared fields.
var ErrUnknownField = errors.New("form: unknown field")

// UnknownFieldError names the field that is not part of the definition.
type UnknownFieldError struct {
	Form  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	if e.Form == "" {
		return fmt.Sprintf("form: unknown field %q", e.Field)
	}
	return fmt.Sprintf("form: unknown field %q in form %q", e.Field, e.Form)
}

// Is reports ErrUnknownField equivalence.
func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}

// IsUnknownField reports whether err wraps an UnknownFieldError.
func IsUnknownField(err error) bool {
	return errors.Is(err, ErrUnknownField)
}
