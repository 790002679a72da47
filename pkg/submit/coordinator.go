package submit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/form"
)

// DefaultNotificationTitle is the title of failure notifications.
const DefaultNotificationTitle = "Error"

// Coordinator runs submissions for one form controller.
type Coordinator struct {
	ctrl *form.Controller
	op   Operation

	pending atomic.Bool

	redirect  string
	notifier  Notifier
	navigator Navigator
	observer  Observer
	log       *logrus.Entry
	fallback  string
	title     string
	now       func() time.Time
	newID     func() string
}

// New returns a Coordinator submitting ctrl's values through op.
func New(ctrl *form.Controller, op Operation, options ...Option) *Coordinator {
	c := &Coordinator{
		ctrl:     ctrl,
		op:       op,
		observer: noopObserver{},
		log:      logging.Discard(),
		fallback: DefaultFailureMessage,
		title:    DefaultNotificationTitle,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	c.log = logging.Component(c.log, "submit").WithField("form", ctrl.Definition().ID)
	return c
}

// Controller returns the wrapped controller.
func (c *Coordinator) Controller() *form.Controller { return c.ctrl }

// Pending reports whether a submission is in flight.
func (c *Coordinator) Pending() bool { return c.pending.Load() }

// Submit validates the form and, when valid, performs the operation.
//
// A second call while a submission is in flight returns ErrSubmissionPending
// without touching the state. Invalid values return a *ValidationError and
// leave the result untouched. Otherwise the operation runs with the payload
// captured when pending was set; its outcome is recorded as a Success or
// Failure result and the returned error is nil.
func (c *Coordinator) Submit(ctx context.Context) (form.Result, error) {
	formID := c.ctrl.Definition().ID
	if !c.pending.CompareAndSwap(false, true) {
		c.log.Debug("submission already pending")
		return c.ctrl.State().Result(), ErrSubmissionPending
	}

	var (
		payload Payload
		blocked bool
	)
	state, _ := c.ctrl.Update(func(s *form.State) (*form.State, error) {
		validated := s.ValidateAll(c.ctrl.ValidationOptions()...)
		if !validated.Valid() {
			blocked = true
			return validated, nil
		}
		next := validated.WithPending(true)
		payload = Project(next.Definition(), next.Snapshot())
		return next, nil
	})
	if blocked {
		c.pending.Store(false)
		c.observer.ValidationFailed(formID)
		c.log.WithField("fields", state.Errors().Fields()).Debug("submission blocked by validation")
		return state.Result(), &ValidationError{Form: formID, Fields: state.Errors()}
	}

	id := c.newID()
	log := c.log.WithField("submission", id)
	ctx = WithSubmissionID(ctx, id)

	started := c.now()
	c.observer.SubmissionStarted(formID)
	log.Info("submission started")

	outcome, err := c.execute(ctx, payload)
	elapsed := c.now().Sub(started)

	if err != nil {
		return c.fail(ctx, log, err, elapsed), nil
	}
	return c.succeed(ctx, log, outcome, elapsed), nil
}

func (c *Coordinator) execute(ctx context.Context, payload Payload) (outcome Outcome, err error) {
	if c.op == nil {
		return Outcome{}, fmt.Errorf("submit: no operation configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submit: operation panicked: %v", r)
		}
	}()
	return c.op.Execute(ctx, payload)
}

func (c *Coordinator) succeed(ctx context.Context, log *logrus.Entry, outcome Outcome, elapsed time.Duration) form.Result {
	target := outcome.NavigateTo
	if target == "" {
		target = c.redirect
	}
	result := form.Success(target)
	c.finish(func(s *form.State) *form.State {
		return s.WithResult(result)
	})
	c.observer.SubmissionFinished(c.ctrl.Definition().ID, result.Status, elapsed)
	log.WithFields(logrus.Fields{"elapsed": elapsed, "navigate_to": target}).Info("submission succeeded")

	if target != "" && c.navigator != nil {
		if err := c.navigator.Navigate(ctx, target); err != nil {
			log.WithError(err).Warn("navigation failed")
		}
	}
	return result
}

func (c *Coordinator) fail(ctx context.Context, log *logrus.Entry, err error, elapsed time.Duration) form.Result {
	message := FailureMessage(err, c.fallback)
	result := form.Failure(message)
	c.finish(func(s *form.State) *form.State {
		next := s.WithResult(result)
		if fields := fieldErrors(err); len(fields) > 0 {
			mapping := form.MapErrorPayload(s.Definition(), fields)
			next = next.WithErrors(mapping.Fields, mapping.Form)
		}
		return next
	})
	c.observer.SubmissionFinished(c.ctrl.Definition().ID, result.Status, elapsed)
	log.WithError(err).WithField("elapsed", elapsed).Warn("submission failed")

	if c.notifier != nil {
		n := Notification{Title: c.title, Description: message, Status: form.StatusFailure}
		if nerr := c.notifier.Notify(ctx, n); nerr != nil {
			log.WithError(nerr).Warn("notification failed")
		}
	}
	return result
}

// finish installs the final state and releases the pending flag inside the
// same controller update, so a listener reacting to pending=false can submit
// again immediately.
func (c *Coordinator) finish(apply func(*form.State) *form.State) {
	_, _ = c.ctrl.Update(func(s *form.State) (*form.State, error) {
		next := apply(s.WithPending(false))
		c.pending.Store(false)
		return next, nil
	})
}
