package form

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Listener receives every state installed by a Controller.
type Listener func(*State)

// Option configures a Controller.
type Option func(*Controller)

// WithValidationOptions forwards options to every validation the
// controller runs (translator, field subsets).
func WithValidationOptions(opts ...validation.Option) Option {
	return func(c *Controller) {
		c.validationOpts = append(c.validationOpts, opts...)
	}
}

// WithLogger sets the logrus entry used for debug output.
func WithLogger(entry *logrus.Entry) Option {
	return func(c *Controller) {
		if entry != nil {
			c.log = entry
		}
	}
}

// Controller owns the current State of one form instance. It is safe for
// concurrent use; listeners run outside the lock and may call back into the
// controller. Under concurrent writers listeners can observe states out of
// order, compare Version when that matters.
type Controller struct {
	mu        sync.RWMutex
	state     *State
	listeners map[uint64]Listener
	nextID    uint64

	validationOpts []validation.Option
	log            *logrus.Entry
}

// NewController initialises a state for def and wraps it.
func NewController(def model.FormDefinition, initial map[string]any, options ...Option) *Controller {
	c := &Controller{
		state:     Initialize(def, initial),
		listeners: make(map[uint64]Listener),
		log:       logging.Discard(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	c.log = c.log.WithField("form", def.ID)
	return c
}

// State returns the current state.
func (c *Controller) State() *State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Definition returns the form definition.
func (c *Controller) Definition() model.FormDefinition {
	return c.State().Definition()
}

// ValidationOptions returns the options the controller validates with.
func (c *Controller) ValidationOptions() []validation.Option {
	return append([]validation.Option(nil), c.validationOpts...)
}

// SetField writes one value. Unknown fields leave the state untouched and
// return an *UnknownFieldError.
func (c *Controller) SetField(name string, value any) (*State, error) {
	next, err := c.Update(func(s *State) (*State, error) {
		return s.SetField(name, value)
	})
	if err != nil {
		c.log.WithError(err).WithField("field", name).Debug("set field rejected")
	}
	return next, err
}

// ValidateAll validates every field and installs the result.
func (c *Controller) ValidateAll() *State {
	next, _ := c.Update(func(s *State) (*State, error) {
		return s.ValidateAll(c.validationOpts...), nil
	})
	return next
}

// ValidateField validates a single field, typically on blur.
func (c *Controller) ValidateField(name string) (*State, error) {
	return c.Update(func(s *State) (*State, error) {
		return s.ValidateField(name, c.validationOpts...)
	})
}

// Update applies fn to the current state under the write lock and installs
// its result. A nil state or an error leaves the current state in place.
func (c *Controller) Update(fn func(*State) (*State, error)) (*State, error) {
	c.mu.Lock()
	next, err := fn(c.state)
	if err != nil {
		current := c.state
		c.mu.Unlock()
		return current, err
	}
	if next == nil || next == c.state {
		current := c.state
		c.mu.Unlock()
		return current, nil
	}
	c.state = next
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	for _, listener := range listeners {
		listener(next)
	}
	return next, nil
}

// Reset re-initialises the form with new initial values. The version keeps
// increasing so listeners can still order states. A submission in flight
// stays pending until it finishes.
func (c *Controller) Reset(initial map[string]any) *State {
	next, _ := c.Update(func(s *State) (*State, error) {
		fresh := Initialize(s.def, initial)
		fresh.version = s.version + 1
		fresh.pending = s.pending
		return fresh, nil
	})
	return next
}

// Subscribe registers listener and returns a function that removes it.
func (c *Controller) Subscribe(listener Listener) (unsubscribe func()) {
	if listener == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = listener
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

func (c *Controller) snapshotListeners() []Listener {
	if len(c.listeners) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.listeners[id])
	}
	return out
}
