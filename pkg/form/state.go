package form

import (
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// State is an immutable snapshot of one form instance: values and errors
// keyed by field name, dirty flags, the pending flag and the last submission
// result. Methods never modify the receiver.
type State struct {
	def        model.FormDefinition
	values     map[string]any
	errors     validation.Errors
	formErrors []string
	dirty      map[string]bool
	pending    bool
	result     Result
	version    uint64
}

// Initialize builds the first state for def. Every declared field gets an
// entry: the initial value when present, else the field default, else the
// zero value of its kind. Keys of initial that are not declared are ignored.
func Initialize(def model.FormDefinition, initial map[string]any) *State {
	state := &State{
		def:    def,
		values: make(map[string]any, len(def.Fields)),
		errors: validation.Errors{},
		dirty:  make(map[string]bool),
		result: Idle(),
	}
	for _, field := range def.Fields {
		if value, ok := initial[field.Name]; ok {
			state.values[field.Name] = deepCopy(value)
			continue
		}
		if field.Default != nil {
			state.values[field.Name] = deepCopy(field.Default)
			continue
		}
		state.values[field.Name] = zeroValue(field.Kind)
	}
	return state
}

func zeroValue(kind model.FieldKind) any {
	switch kind {
	case model.FieldKindNumber, model.FieldKindInteger, model.FieldKindReference:
		return nil
	case model.FieldKindBoolean:
		return false
	case model.FieldKindList:
		return []any{}
	default:
		return ""
	}
}

// Definition returns the definition the state was built from.
func (s *State) Definition() model.FormDefinition { return s.def }

// Value returns the current value of name.
func (s *State) Value(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	value, ok := s.values[name]
	return deepCopy(value), ok
}

// Snapshot returns a deep copy of all values, safe to hand to a submission.
func (s *State) Snapshot() map[string]any {
	if s == nil {
		return nil
	}
	return cloneValues(s.values)
}

// Errors returns a copy of the per-field messages.
func (s *State) Errors() validation.Errors {
	if s == nil {
		return nil
	}
	return s.errors.Clone()
}

// FieldErrors returns the messages recorded for name.
func (s *State) FieldErrors(name string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.errors[name]...)
}

// FormErrors returns messages not tied to a field.
func (s *State) FormErrors() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.formErrors...)
}

// Valid reports whether no field carries an error.
func (s *State) Valid() bool { return s == nil || s.errors.Valid() }

// Pending reports whether a submission is in flight.
func (s *State) Pending() bool { return s != nil && s.pending }

// Result returns the last submission result.
func (s *State) Result() Result {
	if s == nil {
		return Idle()
	}
	return s.result
}

// Version increases by one on every replacement.
func (s *State) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// Dirty reports whether name was changed since initialisation.
func (s *State) Dirty(name string) bool { return s != nil && s.dirty[name] }

// IsDirty reports whether any field was changed.
func (s *State) IsDirty() bool { return s != nil && len(s.dirty) > 0 }

// SetField returns a new state with name set to value, its errors cleared and
// the field marked dirty. Unknown names yield an *UnknownFieldError.
func (s *State) SetField(name string, value any) (*State, error) {
	if !s.def.Has(name) {
		return nil, &UnknownFieldError{Form: s.def.ID, Field: name}
	}
	next := s.next()
	next.values[name] = deepCopy(value)
	delete(next.errors, name)
	next.dirty[name] = true
	return next, nil
}

// ValidateAll returns a new state carrying the validator's mapping for the
// current values. Form-level errors from a previous submission are dropped.
func (s *State) ValidateAll(opts ...validation.Option) *State {
	next := s.next()
	next.errors = validation.Validate(s.def, s.values, opts...)
	next.formErrors = nil
	return next
}

// ValidateField re-validates a single field, leaving the others untouched.
func (s *State) ValidateField(name string, opts ...validation.Option) (*State, error) {
	if !s.def.Has(name) {
		return nil, &UnknownFieldError{Form: s.def.ID, Field: name}
	}
	next := s.next()
	opts = append(append([]validation.Option(nil), opts...), validation.Only(name))
	delete(next.errors, name)
	for field, messages := range validation.Validate(s.def, s.values, opts...) {
		next.errors[field] = messages
	}
	return next, nil
}

// WithErrors attaches externally produced errors, such as a backend
// rejection. Field messages replace those already recorded for the field.
func (s *State) WithErrors(fields map[string][]string, formErrors []string) *State {
	next := s.next()
	for name, messages := range fields {
		if len(messages) == 0 {
			continue
		}
		next.errors[name] = append([]string(nil), messages...)
	}
	next.formErrors = MergeFormErrors(next.formErrors, formErrors...)
	return next
}

// WithPending returns a new state with the pending flag set.
func (s *State) WithPending(pending bool) *State {
	next := s.next()
	next.pending = pending
	return next
}

// WithResult returns a new state carrying result.
func (s *State) WithResult(result Result) *State {
	next := s.next()
	next.result = result
	return next
}

func (s *State) next() *State {
	dirty := make(map[string]bool, len(s.dirty))
	for name, flag := range s.dirty {
		dirty[name] = flag
	}
	errs := s.errors.Clone()
	if errs == nil {
		errs = validation.Errors{}
	}
	return &State{
		def:        s.def,
		values:     cloneValues(s.values),
		errors:     errs,
		formErrors: append([]string(nil), s.formErrors...),
		dirty:      dirty,
		pending:    s.pending,
		result:     s.result,
		version:    s.version + 1,
	}
}
