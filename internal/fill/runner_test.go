package fill

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

// fakeDriver replays scripted answers. Inputs, selects, and confirms each
// consume from their own queue; Info lines are recorded.
type fakeDriver struct {
	inputs   []string
	selects  []int
	multis   [][]int
	confirms []bool
	infos    []string
}

func (d *fakeDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	return d.nextInput()
}

func (d *fakeDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	return d.nextInput()
}

func (d *fakeDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	return d.nextInput()
}

func (d *fakeDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return true, nil
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *fakeDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, nil
	}
	out := d.selects[0]
	d.selects = d.selects[1:]
	return out, nil
}

func (d *fakeDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if len(d.multis) == 0 {
		return nil, nil
	}
	out := d.multis[0]
	d.multis = d.multis[1:]
	return out, nil
}

func (d *fakeDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func (d *fakeDriver) nextInput() (string, error) {
	if len(d.inputs) == 0 {
		return "", nil
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	return out, nil
}

type recordingSubmitter struct {
	calls int
	last  map[string]any
}

func (s *recordingSubmitter) Submit(_ context.Context, payload map[string]any) error {
	s.calls++
	s.last = payload
	return nil
}

func fillForm() schema.Form {
	return schema.Form{
		ID:    "conf",
		Title: "Registration",
		Settings: schema.Settings{
			SubmitText:          "Register",
			ConfirmationMessage: "Thanks {{ full_name }}!",
		},
		Pages: []schema.Page{{
			Elements: []schema.Field{
				{ID: "f1", Type: schema.TypeText, Name: "full_name", Title: "Full Name", IsRequired: true, Position: 0},
				{ID: "f2", Type: schema.TypeSelect, Name: "city", Title: "City", Position: 1,
					Options: schema.OptionList{{Label: "Pune", Value: "pune"}, {Label: "Goa", Value: "goa"}}},
				{ID: "f3", Type: schema.TypeText, Name: "hotel", Title: "Hotel", Position: 2,
					Rules: []schema.Rule{{Kind: schema.RuleVisibleIf, Expression: `{city} == "goa"`}}},
			},
		}},
	}
}

func TestRunPromptsAndSubmits(t *testing.T) {
	t.Parallel()

	form := fillForm()
	submitter := &recordingSubmitter{}
	sess := session.New(form, session.WithSubmitter(submitter))

	driver := &fakeDriver{
		inputs:  []string{"Ada Lovelace"},
		selects: []int{0}, // Pune, so the hotel field stays hidden
	}

	message, err := NewRunner(form, sess, driver).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if message != "Thanks Ada Lovelace!" {
		t.Fatalf("unexpected confirmation %q", message)
	}
	if submitter.calls != 1 {
		t.Fatalf("expected one submission, got %d", submitter.calls)
	}
	if submitter.last["city"] != "pune" {
		t.Fatalf("unexpected payload: %v", submitter.last)
	}
	if _, ok := submitter.last["hotel"]; ok {
		t.Fatalf("hidden field must not be prompted or submitted: %v", submitter.last)
	}
	if len(driver.inputs) != 0 {
		t.Fatalf("hotel prompt consumed an input it should not have")
	}
}

func TestRunPromptsRevealedFields(t *testing.T) {
	t.Parallel()

	form := fillForm()
	submitter := &recordingSubmitter{}
	sess := session.New(form, session.WithSubmitter(submitter))

	driver := &fakeDriver{
		inputs:  []string{"Ada Lovelace", "Taj Holiday Village"},
		selects: []int{1}, // Goa reveals the hotel field
	}

	if _, err := NewRunner(form, sess, driver).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if submitter.last["hotel"] != "Taj Holiday Village" {
		t.Fatalf("revealed field not captured: %v", submitter.last)
	}
}

func TestRunRetriesInvalidPage(t *testing.T) {
	t.Parallel()

	form := schema.Form{
		ID: "f",
		Pages: []schema.Page{{
			Elements: []schema.Field{
				{ID: "f1", Type: schema.TypeEmail, Name: "email", Title: "Email", IsRequired: true, Position: 0},
			},
		}},
	}
	submitter := &recordingSubmitter{}
	sess := session.New(form, session.WithSubmitter(submitter))

	driver := &fakeDriver{inputs: []string{"nope", "ada@example.com"}}

	if _, err := NewRunner(form, sess, driver).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if submitter.last["email"] != "ada@example.com" {
		t.Fatalf("retry answer not captured: %v", submitter.last)
	}
	if len(driver.infos) == 0 {
		t.Fatalf("validation failure should be surfaced between passes")
	}
}

func TestRunAbortsWhenNotConfirmed(t *testing.T) {
	t.Parallel()

	form := schema.Form{
		ID: "f",
		Pages: []schema.Page{{
			Elements: []schema.Field{
				{ID: "f1", Type: schema.TypeText, Name: "name", Position: 0},
			},
		}},
	}
	sess := session.New(form, session.WithSubmitter(session.SubmitterFunc(
		func(context.Context, map[string]any) error { return nil },
	)))

	driver := &fakeDriver{inputs: []string{"x"}, confirms: []bool{false}}

	if _, err := NewRunner(form, sess, driver).Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRunBooleanAndMultiFields(t *testing.T) {
	t.Parallel()

	form := schema.Form{
		ID: "f",
		Pages: []schema.Page{{
			Elements: []schema.Field{
				{ID: "f1", Type: schema.TypeCheckbox, Name: "terms", Title: "Terms", IsRequired: true, Position: 0,
					Options: schema.OptionList{{Label: "I agree", Value: "agree"}}},
				{ID: "f2", Type: schema.TypeMultiselect, Name: "days", Title: "Days", Position: 1,
					Options: schema.OptionList{{Label: "Sat", Value: "sat"}, {Label: "Sun", Value: "sun"}}},
			},
		}},
	}
	submitter := &recordingSubmitter{}
	sess := session.New(form, session.WithSubmitter(submitter))

	driver := &fakeDriver{
		confirms: []bool{true, true}, // terms, then the final submit confirm
		multis:   [][]int{{0, 1}},
	}

	if _, err := NewRunner(form, sess, driver).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if submitter.last["terms"] != true {
		t.Fatalf("boolean checkbox not captured: %v", submitter.last)
	}
	days, ok := submitter.last["days"].([]string)
	if !ok || len(days) != 2 {
		t.Fatalf("multi-select not captured: %v", submitter.last)
	}
}
