package widgets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// TextInput handles text, textarea and password fields.
type TextInput struct{ base }

// View implements Binding.
func (w *TextInput) View(state *form.State) View { return w.view(state) }

// Change stores the raw text as typed.
func (w *TextInput) Change(raw any) (*form.State, error) {
	switch v := raw.(type) {
	case nil:
		return w.set("")
	case string:
		return w.set(v)
	default:
		return w.set(fmt.Sprint(v))
	}
}

// NumberInput handles number and integer fields.
type NumberInput struct{ base }

// View implements Binding.
func (w *NumberInput) View(state *form.State) View { return w.view(state) }

// Change parses numeric input. A blank input clears the value; input that is
// not numeric is stored as typed so validation can report it.
func (w *NumberInput) Change(raw any) (*form.State, error) {
	text, isText := raw.(string)
	if !isText {
		return w.set(raw)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return w.set(nil)
	}
	if w.field.Kind == model.FieldKindInteger {
		if n, ok := validation.ToInt(text); ok {
			return w.set(n)
		}
		return w.set(text)
	}
	if n, ok := validation.ToFloat(text); ok {
		return w.set(n)
	}
	return w.set(text)
}

// Checkbox handles boolean fields.
type Checkbox struct{ base }

// View implements Binding.
func (w *Checkbox) View(state *form.State) View {
	view := w.view(state)
	checked, _ := validation.ToBool(view.Value)
	view.Display = strconv.FormatBool(checked)
	return view
}

// Change accepts bools and "true"/"false"/"on"/"off". Anything else is
// stored as given.
func (w *Checkbox) Change(raw any) (*form.State, error) {
	if b, ok := validation.ToBool(raw); ok {
		return w.set(b)
	}
	return w.set(raw)
}

// Toggle flips the current value.
func (w *Checkbox) Toggle() (*form.State, error) {
	return w.ctrl.Update(func(s *form.State) (*form.State, error) {
		current, _ := s.Value(w.field.Name)
		checked, _ := validation.ToBool(current)
		return s.SetField(w.field.Name, !checked)
	})
}

// Select handles enum fields.
type Select struct{ base }

// View implements Binding, listing the options with the current one marked.
func (w *Select) View(state *form.State) View {
	view := w.view(state)
	current := fmt.Sprint(view.Value)
	for _, option := range w.field.Options {
		value := fmt.Sprint(option)
		view.Choices = append(view.Choices, Choice{
			Value:    option,
			Label:    optionLabel(w.field, value),
			Selected: view.Value != nil && value == current,
		})
	}
	return view
}

// Change maps the raw choice back onto the declared option so typed options
// keep their type. Unknown values are stored as given.
func (w *Select) Change(raw any) (*form.State, error) {
	if raw == nil {
		return w.set("")
	}
	want := strings.TrimSpace(fmt.Sprint(raw))
	if want == "" {
		return w.set("")
	}
	for _, option := range w.field.Options {
		if fmt.Sprint(option) == want {
			return w.set(option)
		}
	}
	return w.set(raw)
}

// Choose selects the option at index.
func (w *Select) Choose(index int) (*form.State, error) {
	if index < 0 || index >= len(w.field.Options) {
		return nil, fmt.Errorf("widgets: option index %d out of range for %q", index, w.field.Name)
	}
	return w.set(w.field.Options[index])
}

// optionLabel reads "option.<value>" metadata, falling back to a humanised
// value ("best_sale" -> "Best sale").
func optionLabel(field model.Field, value string) string {
	if label := field.Metadata["option."+value]; label != "" {
		return label
	}
	return model.DefaultLabeler(value)
}

// TagList handles list fields as a set of tags.
type TagList struct{ base }

// View implements Binding.
func (w *TagList) View(state *form.State) View {
	view := w.view(state)
	for _, option := range w.field.Options {
		value := fmt.Sprint(option)
		view.Choices = append(view.Choices, Choice{
			Value:    option,
			Label:    optionLabel(w.field, value),
			Selected: containsTag(tags(view.Value), value),
		})
	}
	return view
}

// Change replaces the tags. Strings are split on commas; blanks and
// duplicates are dropped.
func (w *TagList) Change(raw any) (*form.State, error) {
	items, ok := validation.ToList(raw)
	if !ok {
		return w.set(raw)
	}
	return w.set(dedupTags(items))
}

// Add appends tag unless it is blank or already present.
func (w *TagList) Add(tag string) (*form.State, error) {
	tag = strings.TrimSpace(tag)
	return w.ctrl.Update(func(s *form.State) (*form.State, error) {
		current, _ := s.Value(w.field.Name)
		items := tags(current)
		if tag == "" || containsTag(items, tag) {
			return s, nil
		}
		return s.SetField(w.field.Name, append(items, tag))
	})
}

// Remove drops tag if present.
func (w *TagList) Remove(tag string) (*form.State, error) {
	tag = strings.TrimSpace(tag)
	return w.ctrl.Update(func(s *form.State) (*form.State, error) {
		current, _ := s.Value(w.field.Name)
		items := tags(current)
		out := make([]any, 0, len(items))
		for _, item := range items {
			if fmt.Sprint(item) != tag {
				out = append(out, item)
			}
		}
		if len(out) == len(items) {
			return s, nil
		}
		return s.SetField(w.field.Name, out)
	})
}

func tags(value any) []any {
	items, ok := validation.ToList(value)
	if !ok {
		return []any{}
	}
	return items
}

func containsTag(items []any, tag string) bool {
	for _, item := range items {
		if fmt.Sprint(item) == tag {
			return true
		}
	}
	return false
}

func dedupTags(items []any) []any {
	out := make([]any, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			item = strings.TrimSpace(s)
			if item == "" {
				continue
			}
		}
		key := fmt.Sprint(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// PreviewMetadataKey names a companion field that receives the picked
// option's preview (e.g. featuredImageId -> featuredImage).
const PreviewMetadataKey = "reference.preview"

// ReferencePicker handles reference fields, with options supplied by a
// ReferenceSource.
type ReferencePicker struct {
	base
	source ReferenceSource
}

// View implements Binding. Choices are not loaded here; call Options.
func (w *ReferencePicker) View(state *form.State) View { return w.view(state) }

// Options fetches the selectable references.
func (w *ReferencePicker) Options(ctx context.Context) ([]ReferenceOption, error) {
	if w.source == nil {
		return nil, nil
	}
	options, err := w.source.References(ctx, w.field)
	if err != nil {
		return nil, fmt.Errorf("widgets: load references for %q: %w", w.field.Name, err)
	}
	return options, nil
}

// Change stores an id: numeric input becomes int64, other text is kept as a
// string id, blank clears.
func (w *ReferencePicker) Change(raw any) (*form.State, error) {
	return w.set(referenceID(raw))
}

// Pick selects option, also writing its preview into the companion field
// named by Metadata["reference.preview"] in the same update.
func (w *ReferencePicker) Pick(option ReferenceOption) (*form.State, error) {
	preview := w.field.Metadata[PreviewMetadataKey]
	return w.ctrl.Update(func(s *form.State) (*form.State, error) {
		next, err := s.SetField(w.field.Name, referenceID(option.ID))
		if err != nil || preview == "" {
			return next, err
		}
		return next.SetField(preview, option.Preview)
	})
}

func referenceID(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		if n, ok := validation.ToInt(v); ok {
			return n
		}
		return v
	default:
		if n, ok := validation.ToInt(v); ok {
			return n
		}
		return v
	}
}
