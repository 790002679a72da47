package submit

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRedirect sets the navigation target used when the operation outcome
// does not provide one.
func WithRedirect(target string) Option {
	return func(c *Coordinator) {
		c.redirect = strings.TrimSpace(target)
	}
}

// WithNotifier sets the notifier used for failure toasts.
func WithNotifier(notifier Notifier) Option {
	return func(c *Coordinator) {
		c.notifier = notifier
	}
}

// WithNavigator sets the navigator called after a success.
func WithNavigator(navigator Navigator) Option {
	return func(c *Coordinator) {
		c.navigator = navigator
	}
}

// WithObserver registers lifecycle hooks.
func WithObserver(observer Observer) Option {
	return func(c *Coordinator) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// WithLogger sets the logrus entry for lifecycle logging.
func WithLogger(entry *logrus.Entry) Option {
	return func(c *Coordinator) {
		if entry != nil {
			c.log = entry
		}
	}
}

// WithFailureMessage overrides DefaultFailureMessage, e.g. with a localised
// string.
func WithFailureMessage(message string) Option {
	return func(c *Coordinator) {
		if strings.TrimSpace(message) != "" {
			c.fallback = message
		}
	}
}

// WithNotificationTitle overrides the "Error" title of failure toasts.
func WithNotificationTitle(title string) Option {
	return func(c *Coordinator) {
		if strings.TrimSpace(title) != "" {
			c.title = title
		}
	}
}

// WithClock replaces time.Now, used by tests measuring durations.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator replaces the submission id generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.newID = fn
		}
	}
}
