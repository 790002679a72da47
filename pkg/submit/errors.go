package submit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/validation"
)

// DefaultFailureMessage is shown when a failed operation carries no message.
const DefaultFailureMessage = "Something went wrong, please try again."

var (
	// ErrSubmissionPending is returned when Submit is called while another
	// submission of the same form is in flight.
	ErrSubmissionPending = errors.New("submit: submission already pending")
	// ErrValidation is matched by *ValidationError.
	ErrValidation = errors.New("submit: validation failed")
)

// ValidationError reports that the form failed validation; no external call
// was made.
type ValidationError struct {
	Form   string
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("submit: form %q has invalid fields: %s", e.Form, strings.Join(e.Fields.Fields(), ", "))
}

// Is reports ErrValidation equivalence.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Error is the error type operations return to describe a backend
// rejection. Message is user facing; Fields carries backend error paths
// (mapped onto form fields with form.MapErrorPayload).
type Error struct {
	Message string
	Code    string
	Status  int
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("submit: ")
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Code != "":
		b.WriteString(e.Code)
	default:
		b.WriteString("operation failed")
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the message shown to the user.
func (e *Error) UserMessage() string {
	return e.Message
}

// IsPending reports whether err is ErrSubmissionPending.
func IsPending(err error) bool {
	return errors.Is(err, ErrSubmissionPending)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// FailureMessage derives the user-facing text for a failed operation:
// a *Error message, then any UserMessage() in the chain, then err.Error(),
// then fallback.
func FailureMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var subErr *Error
	if errors.As(err, &subErr) {
		if msg := strings.TrimSpace(subErr.Message); msg != "" {
			return msg
		}
		if subErr.Err == nil {
			return fallback
		}
		return FailureMessage(subErr.Err, fallback)
	}
	var user interface{ UserMessage() string }
	if errors.As(err, &user) {
		if msg := strings.TrimSpace(user.UserMessage()); msg != "" {
			return msg
		}
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

func fieldErrors(err error) map[string][]string {
	var subErr *Error
	if errors.As(err, &subErr) {
		return subErr.Fields
	}
	return nil
}
