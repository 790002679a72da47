package validation

// Message codes emitted by Validate. The default translator returns the code
// itself, so these double as the English messages.
const (
	CodeRequired        = "required"
	CodeOutOfRange      = "out of range"
	CodeTooShort        = "too short"
	CodeTooLong         = "too long"
	CodeTooFewItems     = "too few items"
	CodeTooManyItems    = "too many items"
	CodePatternMismatch = "does not match required pattern"
	CodeInvalidPattern  = "invalid pattern"
	CodeNotNumber       = "not a number"
	CodeNotInteger      = "not an integer"
	CodeNotBoolean      = "not a boolean"
	CodeNotText         = "not a text value"
	CodeNotAllowed      = "not an allowed value"
	CodeInvalidEmail    = "invalid email address"
	CodeInvalidRef      = "invalid reference"
)

// Translator converts a message code into user-facing text. Params carry the
// field name under "field" plus rule values such as "min", "max" or "limit".
type Translator interface {
	Translate(code string, params map[string]any) string
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(code string, params map[string]any) string

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(code string, params map[string]any) string {
	return fn(code, params)
}

type codeTranslator struct{}

func (codeTranslator) Translate(code string, _ map[string]any) string {
	return code
}

// DefaultTranslator returns messages equal to their codes.
func DefaultTranslator() Translator {
	return codeTranslator{}
}
