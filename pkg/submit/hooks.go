package submit

import (
	"context"
	"time"

	"github.com/goliatone/go-formflow/pkg/form"
)

// Notification is a toast-style message for the host to display.
type Notification struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      form.Status `json:"status"`
}

// Notifier displays notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

// Notify calls the underlying function.
func (fn NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return fn(ctx, n)
}

// Navigator moves the host to another view after a successful submission.
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// NavigatorFunc adapts a function into a Navigator.
type NavigatorFunc func(ctx context.Context, target string) error

// Navigate calls the underlying function.
func (fn NavigatorFunc) Navigate(ctx context.Context, target string) error {
	return fn(ctx, target)
}

// Observer receives submission lifecycle events, typically for metrics.
type Observer interface {
	SubmissionStarted(formID string)
	SubmissionFinished(formID string, status form.Status, elapsed time.Duration)
	ValidationFailed(formID string)
}

type noopObserver struct{}

func (noopObserver) SubmissionStarted(string) {}
func (noopObserver) SubmissionFinished(string, form.Status, time.Duration) {}
func (noopObserver) ValidationFailed(string) {}
