package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/submit"
)

// ErrFormNotFound is returned by Registry.Get for unknown ids.
var ErrFormNotFound = errors.New("httpapi: form not found")

// OperationFactory returns the operation for one submit request. It can
// read query parameters (a redirect target, an id to update) from r.
type OperationFactory func(r *http.Request) (submit.Operation, error)

// Entry is a form served by the API.
type Entry struct {
	Definition model.FormDefinition
	Operation  OperationFactory
	// Initial seeds GET /forms/{id} from the request. Optional.
	Initial func(r *http.Request) map[string]any
}

// ID returns the definition id.
func (e Entry) ID() string { return e.Definition.ID }

// Registry stores served forms by id.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{forms: make(map[string]Entry)}
}

// Register adds entry. Duplicate ids return an error.
func (r *Registry) Register(entry Entry) error {
	id := entry.ID()
	if id == "" {
		return fmt.Errorf("httpapi: form id is required")
	}
	if entry.Operation == nil {
		return fmt.Errorf("httpapi: form %q has no operation", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.forms[id]; exists {
		return fmt.Errorf("httpapi: form %q already registered", id)
	}
	r.forms[id] = entry
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(entry Entry) {
	if err := r.Register(entry); err != nil {
		panic(err)
	}
}

// Get retrieves a form by id.
func (r *Registry) Get(id string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.forms[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrFormNotFound, id)
	}
	return entry, nil
}

// List returns the sorted form ids.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.forms))
	for id := range r.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether a form is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.forms[id]
	return ok
}
