// Package tui is a terminal host for forms. Every field is prompted through
// its widget binding, invalid answers are re-prompted with their messages,
// and submission failures are shown as toasts with an offer to retry.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/submit"
	"github.com/goliatone/go-formflow/pkg/widgets"
)

const noneOption = "(none)"

// Host drives forms from a terminal.
type Host struct {
	driver      PromptDriver
	theme       Theme
	bind        []widgets.BindOption
	maxAttempts int
	log         *logrus.Entry
}

// New returns a host using the survey driver unless overridden.
func New(options ...Option) *Host {
	h := &Host{
		theme:       DefaultTheme,
		maxAttempts: 5,
		log:         logging.Discard(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	if h.driver == nil {
		h.driver = NewSurveyDriver(nil)
	}
	h.log = logging.Component(h.log, "tui")
	return h
}

// Notifier prints notifications as toast lines.
func (h *Host) Notifier() submit.Notifier {
	return submit.NotifierFunc(func(ctx context.Context, n submit.Notification) error {
		prefix := h.theme.InfoPrefix
		switch n.Status {
		case form.StatusFailure:
			prefix = h.theme.ErrorPrefix
		case form.StatusSuccess:
			prefix = h.theme.SuccessPrefix
		}
		if n.Title == "" {
			return h.driver.Info(ctx, prefix+n.Description)
		}
		return h.driver.Info(ctx, fmt.Sprintf("%s%s: %s", prefix, n.Title, n.Description))
	})
}

// Navigator reports the navigation target; a terminal has no views to
// switch.
func (h *Host) Navigator() submit.Navigator {
	return submit.NavigatorFunc(func(ctx context.Context, target string) error {
		return h.driver.Info(ctx, h.theme.InfoPrefix+"→ "+target)
	})
}

// Fill prompts every field of ctrl's form until each one validates.
func (h *Host) Fill(ctx context.Context, ctrl *form.Controller) error {
	_, err := h.fill(ctx, ctrl, false)
	return err
}

// Run fills the form and submits it through op. Validation failures and
// backend field errors re-prompt the affected fields; other failures ask
// whether to retry. The returned result is the last submission outcome.
func (h *Host) Run(ctx context.Context, ctrl *form.Controller, op submit.Operation, options ...submit.Option) (form.Result, error) {
	options = append(options,
		submit.WithNotifier(h.Notifier()),
		submit.WithNavigator(h.Navigator()),
		submit.WithLogger(h.log),
	)
	coord := submit.New(ctrl, op, options...)

	onlyInvalid := false
	for {
		prompted, err := h.fill(ctx, ctrl, onlyInvalid)
		if err != nil {
			return ctrl.State().Result(), err
		}
		result, err := coord.Submit(ctx)
		switch {
		case submit.IsValidation(err):
			if onlyInvalid && prompted == 0 {
				return result, err
			}
			onlyInvalid = true
			continue
		case err != nil:
			return result, err
		case result.IsSuccess():
			if err := h.driver.Info(ctx, h.theme.SuccessPrefix+"Saved"); err != nil {
				return result, err
			}
			return result, nil
		}

		retry, err := h.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
		if err != nil {
			return result, err
		}
		if !retry {
			return result, nil
		}
		onlyInvalid = true
	}
}

func (h *Host) fill(ctx context.Context, ctrl *form.Controller, onlyInvalid bool) (int, error) {
	bindings, err := widgets.BindAll(ctrl, h.bind...)
	if err != nil {
		return 0, err
	}
	prompted := 0
	skip := previewTargets(ctrl.Definition())
	for _, binding := range bindings {
		field := binding.Field()
		if _, ok := skip[field.Name]; ok {
			continue
		}
		if onlyInvalid && len(ctrl.State().FieldErrors(field.Name)) == 0 {
			continue
		}
		if err := h.promptUntilValid(ctx, ctrl, binding); err != nil {
			return prompted, err
		}
		prompted++
	}
	return prompted, nil
}

func (h *Host) promptUntilValid(ctx context.Context, ctrl *form.Controller, binding widgets.Binding) error {
	name := binding.Field().Name
	for attempt := 1; ; attempt++ {
		if err := h.prompt(ctx, binding, binding.View(ctrl.State())); err != nil {
			return err
		}
		state, err := ctrl.ValidateField(name)
		if err != nil {
			return err
		}
		messages := state.FieldErrors(name)
		if len(messages) == 0 {
			return nil
		}
		if err := h.driver.Info(ctx, fmt.Sprintf("%s%s: %s", h.theme.ErrorPrefix, binding.Field().DisplayLabel(), strings.Join(messages, ", "))); err != nil {
			return err
		}
		if h.maxAttempts > 0 && attempt >= h.maxAttempts {
			h.log.WithField("field", name).Debug("giving up after invalid attempts")
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, name)
		}
	}
}

func (h *Host) prompt(ctx context.Context, binding widgets.Binding, view widgets.View) error {
	message := view.Label
	if view.Required {
		message += " *"
	}
	help := view.Description

	switch w := binding.(type) {
	case *widgets.Checkbox:
		checked := view.Display == "true"
		value, err := h.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: checked, Help: help})
		if err != nil {
			return err
		}
		_, err = w.Change(value)
		return err

	case *widgets.Select:
		labels, current := choiceLabels(view.Choices)
		offset := 0
		if !view.Required {
			labels = append([]string{noneOption}, labels...)
			offset = 1
		}
		idx, err := h.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: current + offset, Help: help})
		if err != nil {
			return err
		}
		if idx < offset {
			_, err = w.Change(nil)
			return err
		}
		_, err = w.Choose(idx - offset)
		return err

	case *widgets.TagList:
		if len(view.Choices) > 0 {
			labels, _ := choiceLabels(view.Choices)
			var defaults []int
			for i, choice := range view.Choices {
				if choice.Selected {
					defaults = append(defaults, i)
				}
			}
			picked, err := h.driver.MultiSelect(ctx, SelectConfig{Message: message, Options: labels, Defaults: defaults, Help: help})
			if err != nil {
				return err
			}
			values := make([]any, 0, len(picked))
			for _, i := range picked {
				values = append(values, view.Choices[i].Value)
			}
			_, err = w.Change(values)
			return err
		}
		text, err := h.driver.Input(ctx, InputConfig{Message: message + " (comma separated)", Default: view.Display, Help: help})
		if err != nil {
			return err
		}
		_, err = w.Change(text)
		return err

	case *widgets.ReferencePicker:
		return h.promptReference(ctx, w, view, message, help)

	default:
		return h.promptText(ctx, binding, view, message, help)
	}
}

func (h *Host) promptReference(ctx context.Context, w *widgets.ReferencePicker, view widgets.View, message, help string) error {
	options, err := w.Options(ctx)
	if err != nil {
		return err
	}
	if len(options) == 0 {
		text, err := h.driver.Input(ctx, InputConfig{Message: message, Default: view.Display, Help: help})
		if err != nil {
			return err
		}
		_, err = w.Change(text)
		return err
	}

	labels := make([]string, len(options))
	current := -1
	for i, option := range options {
		labels[i] = option.Label
		if labels[i] == "" {
			labels[i] = fmt.Sprint(option.ID)
		}
		if fmt.Sprint(option.ID) == view.Display {
			current = i
		}
	}
	idx, err := h.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: current, Help: help})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return fmt.Errorf("tui: reference choice %d out of range", idx)
	}
	if _, err := w.Pick(options[idx]); err != nil {
		return err
	}
	if preview := options[idx].Preview; preview != "" {
		return h.driver.Info(ctx, h.theme.InfoPrefix+"Preview: "+preview)
	}
	return nil
}

func (h *Host) promptText(ctx context.Context, binding widgets.Binding, view widgets.View, message, help string) error {
	if help == "" {
		help = view.Placeholder
	}
	var (
		text string
		err  error
	)
	switch binding.Widget() {
	case widgets.WidgetPassword:
		text, err = h.driver.Password(ctx, InputConfig{Message: message, Default: view.Display, Help: help})
	case widgets.WidgetTextarea:
		text, err = h.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: view.Display, Help: help})
	default:
		text, err = h.driver.Input(ctx, InputConfig{Message: message, Default: view.Display, Help: help})
	}
	if err != nil {
		return err
	}
	_, err = binding.Change(text)
	return err
}

func choiceLabels(choices []widgets.Choice) ([]string, int) {
	labels := make([]string, len(choices))
	current := -1
	for i, choice := range choices {
		labels[i] = choice.Label
		if choice.Selected {
			current = i
		}
	}
	return labels, current
}

// previewTargets lists UI-only fields filled by a reference picker.
func previewTargets(def model.FormDefinition) map[string]struct{} {
	out := make(map[string]struct{})
	for _, field := range def.Fields {
		if target := field.Metadata[widgets.PreviewMetadataKey]; target != "" {
			if companion, ok := def.Field(target); ok && companion.UIOnly {
				out[target] = struct{}{}
			}
		}
	}
	return out
}

// IsAborted reports whether err came from the user interrupting a prompt.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}
