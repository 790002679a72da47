package model

// Decorator enriches a form definition after the schema-derived structure
// has been built (labels, widgets, ordering overlays).
type Decorator interface {
	Decorate(*FormDefinition) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormDefinition) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(def *FormDefinition) error {
	return fn(def)
}

// Decorate applies decorators in order, stopping at the first error. The
// result is re-checked so decorators cannot break naming invariants.
func Decorate(def FormDefinition, decorators ...Decorator) (FormDefinition, error) {
	out := def.Clone()
	for _, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&out); err != nil {
			return FormDefinition{}, err
		}
	}
	if err := ValidateDefinition(out); err != nil {
		return FormDefinition{}, err
	}
	return out, nil
}
