// Package i18n localises validation messages and submission notices with
// go-i18n. English and Spanish catalogs are embedded; more can be loaded
// from an fs.FS.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/goliatone/go-formflow/pkg/validation"
)

// Message ids outside the validation set.
const (
	MessageSubmissionFailed  = "SubmissionFailed"
	MessageNotificationTitle = "NotificationTitle"
)

var codeMessages = map[string]string{
	validation.CodeRequired:        "ValidationRequired",
	validation.CodeOutOfRange:      "ValidationOutOfRange",
	validation.CodeTooShort:        "ValidationTooShort",
	validation.CodeTooLong:         "ValidationTooLong",
	validation.CodeTooFewItems:     "ValidationTooFewItems",
	validation.CodeTooManyItems:    "ValidationTooManyItems",
	validation.CodePatternMismatch: "ValidationPatternMismatch",
	validation.CodeInvalidPattern:  "ValidationInvalidPattern",
	validation.CodeNotNumber:       "ValidationNotNumber",
	validation.CodeNotInteger:      "ValidationNotInteger",
	validation.CodeNotBoolean:      "ValidationNotBoolean",
	validation.CodeNotText:         "ValidationNotText",
	validation.CodeNotAllowed:      "ValidationNotAllowed",
	validation.CodeInvalidEmail:    "ValidationInvalidEmail",
	validation.CodeInvalidRef:      "ValidationInvalidRef",
}

//go:embed locales/*.toml
var embedded embed.FS

// Option customises New.
type Option func(*config)

type config struct {
	fallback language.Tag
	extra    []fs.FS
}

// WithDefaultLanguage sets the language used when none of the requested ones
// match. English by default.
func WithDefaultLanguage(tag language.Tag) Option {
	return func(c *config) {
		c.fallback = tag
	}
}

// WithMessagesFS loads every *.toml file at the root of fsys after the
// embedded catalogs, overriding their messages.
func WithMessagesFS(fsys fs.FS) Option {
	return func(c *config) {
		if fsys != nil {
			c.extra = append(c.extra, fsys)
		}
	}
}

// Bundle holds the loaded catalogs.
type Bundle struct {
	bundle *goi18n.Bundle
}

// New loads the embedded catalogs plus any supplied through options.
func New(options ...Option) (*Bundle, error) {
	cfg := config{fallback: language.English}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	bundle := goi18n.NewBundle(cfg.fallback)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return nil, err
	}
	for _, fsys := range append([]fs.FS{sub}, cfg.extra...) {
		if err := loadFS(bundle, fsys); err != nil {
			return nil, err
		}
	}
	return &Bundle{bundle: bundle}, nil
}

func loadFS(bundle *goi18n.Bundle, fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.toml")
	if err != nil {
		return fmt.Errorf("i18n: list catalogs: %w", err)
	}
	for _, name := range names {
		if _, err := bundle.LoadMessageFileFS(fsys, name); err != nil {
			return fmt.Errorf("i18n: load %s: %w", path.Base(name), err)
		}
	}
	return nil
}

// Languages lists the languages with at least one catalog.
func (b *Bundle) Languages() []language.Tag {
	return b.bundle.LanguageTags()
}

// Translator returns a translator for the first supported language among
// langs. Entries may be tags ("es") or Accept-Language header values.
func (b *Bundle) Translator(langs ...string) *Translator {
	return &Translator{localizer: goi18n.NewLocalizer(b.bundle, langs...)}
}

// Translator renders messages for one language preference list. It
// implements validation.Translator.
type Translator struct {
	localizer *goi18n.Localizer
}

var _ validation.Translator = (*Translator)(nil)

// Translate renders a validation code. Unknown codes are returned as is.
func (t *Translator) Translate(code string, params map[string]any) string {
	id, ok := codeMessages[code]
	if !ok {
		return code
	}
	return t.message(id, params, code)
}

// Message renders id with data, returning id when no catalog defines it.
func (t *Translator) Message(id string, data map[string]any) string {
	return t.message(id, data, id)
}

// FailureMessage is the localised generic submission failure text.
func (t *Translator) FailureMessage() string {
	return t.Message(MessageSubmissionFailed, nil)
}

// NotificationTitle is the localised title of failure notifications.
func (t *Translator) NotificationTitle() string {
	return t.Message(MessageNotificationTitle, nil)
}

func (t *Translator) message(id string, data map[string]any, fallback string) string {
	if t == nil || t.localizer == nil {
		return fallback
	}
	text, err := t.localizer.Localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		var notFound *goi18n.MessageNotFoundErr
		if text == "" || !errors.As(err, &notFound) {
			return fallback
		}
	}
	return text
}
