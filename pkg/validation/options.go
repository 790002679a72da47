package validation

// Option customises a Validate call.
type Option func(*options)

type options struct {
	translator Translator
	only       map[string]struct{}
}

// WithTranslator swaps the translator used to render messages. A nil
// translator keeps the default.
func WithTranslator(translator Translator) Option {
	return func(o *options) {
		if translator != nil {
			o.translator = translator
		}
	}
}

// Only restricts validation to the named fields. Used for per-field checks
// while the user is still typing.
func Only(names ...string) Option {
	return func(o *options) {
		if len(names) == 0 {
			return
		}
		if o.only == nil {
			o.only = make(map[string]struct{}, len(names))
		}
		for _, name := range names {
			o.only[name] = struct{}{}
		}
	}
}

func newOptions(opts []Option) options {
	cfg := options{translator: DefaultTranslator()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (o options) includes(name string) bool {
	if o.only == nil {
		return true
	}
	_, ok := o.only[name]
	return ok
}
