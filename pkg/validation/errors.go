package validation

import "sort"

// Errors maps field names to the messages produced for them. An empty (or
// nil) Errors value means the values are valid.
type Errors map[string][]string

// Valid reports whether no field carries a message.
func (e Errors) Valid() bool {
	for _, messages := range e {
		if len(messages) > 0 {
			return false
		}
	}
	return true
}

// Has reports whether name has at least one message.
func (e Errors) Has(name string) bool {
	return len(e[name]) > 0
}

// First returns the first message recorded for name.
func (e Errors) First(name string) string {
	if messages := e[name]; len(messages) > 0 {
		return messages[0]
	}
	return ""
}

// Fields returns the names carrying messages, sorted.
func (e Errors) Fields() []string {
	names := make([]string, 0, len(e))
	for name, messages := range e {
		if len(messages) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy.
func (e Errors) Clone() Errors {
	if e == nil {
		return nil
	}
	out := make(Errors, len(e))
	for name, messages := range e {
		out[name] = append([]string(nil), messages...)
	}
	return out
}

func (e Errors) add(name, message string) {
	e[name] = append(e[name], message)
}
