package tui

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formflow/pkg/widgets"
)

// Theme captures the prefixes printed before messages. Keep minimal to avoid
// coupling host logic to ANSI specifics.
type Theme struct {
	InfoPrefix    string
	ErrorPrefix   string
	SuccessPrefix string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{InfoPrefix: "", ErrorPrefix: "✗ ", SuccessPrefix: "✓ "}

// Option configures the host.
type Option func(*Host)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(h *Host) {
		if driver != nil {
			h.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(h *Host) {
		h.theme = theme
	}
}

// WithBindOptions forwards options to widget binding, typically a reference
// source for reference pickers.
func WithBindOptions(options ...widgets.BindOption) Option {
	return func(h *Host) {
		h.bind = append(h.bind, options...)
	}
}

// WithMaxAttempts bounds how often one field is re-prompted while invalid.
// Zero means unbounded.
func WithMaxAttempts(n int) Option {
	return func(h *Host) {
		if n >= 0 {
			h.maxAttempts = n
		}
	}
}

// WithLogger sets the logger entry.
func WithLogger(entry *logrus.Entry) Option {
	return func(h *Host) {
		if entry != nil {
			h.log = entry
		}
	}
}
