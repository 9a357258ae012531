// Package fill drives a form session from terminal prompts. It walks the
// form page by page, prompting only for fields that are currently visible
// and enabled, so conditional logic behaves exactly as it would in a
// graphical filler.
package fill

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

// pageRetries bounds how often a page with validation failures is
// re-prompted before the errors are carried to the final submit.
const pageRetries = 3

// Runner prompts for a form's fields and submits the result.
type Runner struct {
	form   schema.Form
	sess   *session.Session
	driver PromptDriver
}

// NewRunner builds a runner over an existing session. The form must be the
// same document the session was compiled from.
func NewRunner(form schema.Form, sess *session.Session, driver PromptDriver) *Runner {
	return &Runner{form: form, sess: sess, driver: driver}
}

// Run walks every page, prompts, and submits. It returns the confirmation
// message on success.
func (r *Runner) Run(ctx context.Context) (string, error) {
	if r.form.Title != "" {
		if err := r.driver.Info(ctx, r.form.Title); err != nil {
			return "", err
		}
	}

	for index, page := range r.form.Pages {
		if err := r.runPage(ctx, index, page); err != nil {
			return "", err
		}
	}

	submitText := r.form.Settings.SubmitText
	if submitText == "" {
		submitText = "Submit"
	}
	confirmed, err := r.driver.Confirm(ctx, ConfirmConfig{Message: submitText + "?", Default: true})
	if err != nil {
		return "", err
	}
	if !confirmed {
		return "", ErrAborted
	}

	if err := r.sess.Submit(ctx); err != nil {
		var validationErr *session.ValidationError
		if errors.As(err, &validationErr) {
			for field, message := range validationErr.Fields {
				_ = r.driver.Info(ctx, fmt.Sprintf("%s: %s", field, message))
			}
		}
		return "", err
	}
	return r.sess.ConfirmationMessage(r.sess.AcceptedPayload()), nil
}

func (r *Runner) runPage(ctx context.Context, index int, page schema.Page) error {
	if page.Title != "" {
		if err := r.driver.Info(ctx, "-- "+page.Title); err != nil {
			return err
		}
	}

	retry := map[string]bool{}
	for attempt := 0; ; attempt++ {
		for _, field := range page.Elements {
			if attempt > 0 && !retry[field.Name] {
				continue
			}
			if err := r.promptField(ctx, field); err != nil {
				return err
			}
		}

		failures := r.sess.ValidatePage(index)
		if len(failures) == 0 || attempt >= pageRetries {
			return nil
		}
		retry = map[string]bool{}
		for name, message := range failures {
			retry[name] = true
			if err := r.driver.Info(ctx, fmt.Sprintf("%s: %s", name, message)); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) promptField(ctx context.Context, field schema.Field) error {
	canonical := schema.Canonical(field.Type)

	switch canonical {
	case schema.TypeHeading:
		return r.driver.Info(ctx, strings.ToUpper(field.Title))
	case schema.TypeParagraph:
		return r.driver.Info(ctx, field.Description)
	case schema.TypeDivider:
		return r.driver.Info(ctx, "----")
	}

	if field.Name == "" {
		return nil
	}
	state := r.sess.FieldState(field.Name)
	if !state.Visible || !state.Enabled {
		return nil
	}

	message := field.Title
	if message == "" {
		message = field.Name
	}
	if state.Required {
		message += " *"
	}

	value, err := r.promptValue(ctx, field, canonical, message)
	if err != nil {
		return err
	}
	if err := r.sess.Set(field.Name, value); err != nil {
		// The value may have disabled or hidden this field mid-page on a
		// retry pass; surface anything else.
		if errors.Is(err, session.ErrFieldDisabled) {
			return nil
		}
		return err
	}
	return nil
}

func (r *Runner) promptValue(ctx context.Context, field schema.Field, canonical schema.FieldType, message string) (any, error) {
	current, _ := r.sess.Value(field.Name)

	switch canonical {
	case schema.TypeToggle:
		def, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: def, Help: field.Description})

	case schema.TypeCheckbox:
		if len(field.Options) == 1 {
			def, _ := current.(bool)
			return r.driver.Confirm(ctx, ConfirmConfig{Message: optionMessage(field, message), Default: def, Help: field.Description})
		}
		return r.promptMulti(ctx, field, message, current)

	case schema.TypeMultiselect:
		return r.promptMulti(ctx, field, message, current)

	case schema.TypeSelect, schema.TypeRadio:
		labels := optionLabels(field.Options)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: indexOfValue(field.Options, current),
			Help:         field.Description,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx].Value, nil

	case schema.TypeTextarea, schema.TypeRichtext:
		def, _ := current.(string)
		return r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: def, Help: field.Description})

	case schema.TypePassword:
		return r.driver.Password(ctx, InputConfig{Message: message, Help: field.Description})

	default:
		def, _ := current.(string)
		return r.driver.Input(ctx, InputConfig{
			Message:     message,
			Default:     def,
			Help:        field.Description,
			Placeholder: field.Placeholder,
		})
	}
}

func (r *Runner) promptMulti(ctx context.Context, field schema.Field, message string, current any) (any, error) {
	labels := optionLabels(field.Options)
	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  message,
		Options:  labels,
		Defaults: selectedIndices(field.Options, current),
		Help:     field.Description,
	})
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(field.Options) {
			values = append(values, field.Options[idx].Value)
		}
	}
	return values, nil
}

func optionMessage(field schema.Field, fallback string) string {
	if len(field.Options) == 1 && field.Options[0].Label != "" {
		return field.Options[0].Label
	}
	return fallback
}

func optionLabels(options schema.OptionList) []string {
	out := make([]string, len(options))
	for i, option := range options {
		out[i] = option.Label
	}
	return out
}

func indexOfValue(options schema.OptionList, current any) int {
	value, ok := current.(string)
	if !ok || value == "" {
		return -1
	}
	for i, option := range options {
		if option.Value == value {
			return i
		}
	}
	return -1
}

func selectedIndices(options schema.OptionList, current any) []int {
	selected := map[string]struct{}{}
	switch v := current.(type) {
	case []string:
		for _, item := range v {
			selected[item] = struct{}{}
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				selected[s] = struct{}{}
			}
		}
	default:
		return nil
	}

	var out []int
	for i, option := range options {
		if _, ok := selected[option.Value]; ok {
			out = append(out, i)
		}
	}
	return out
}
