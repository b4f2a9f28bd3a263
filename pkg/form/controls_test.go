package form_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/shareid"
	"github.com/goliatone/go-formguard/pkg/validity"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCompositionExcludedFromValidation(t *testing.T) {
	ctx := context.Background()
	var emitted []string
	input := form.NewTextInput(quiet(), form.TextInputProps{
		Required: true,
		OnChange: func(v string) { emitted = append(emitted, v) },
	})

	input.CompositionStart()
	input.Input("nihon")
	result, err := input.CheckValidity(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != validity.ResultUnvalidated {
		t.Fatalf("expected unvalidated while composing, got %s", result)
	}
	if input.Status() != validity.StatusInitialized {
		t.Fatalf("expected status to stay untouched, got %s", input.Status())
	}
	if len(emitted) != 0 {
		t.Fatalf("expected no emission while composing, got %v", emitted)
	}

	input.CompositionEnd("日本")
	if diff := cmp.Diff([]string{"日本"}, emitted); diff != "" {
		t.Fatalf("emitted mismatch (-want +got):\n%s", diff)
	}
	if result, _ := input.CheckValidity(ctx); result != validity.ResultSucceed {
		t.Fatalf("expected succeed after composition, got %s", result)
	}
}

func TestDebouncedInputValidatesOnce(t *testing.T) {
	observer := &recordingObserver{}
	input := form.NewTextInput(form.NewScope(form.WithDebounce(40*time.Millisecond), form.WithObserver(observer)), form.TextInputProps{
		MinLength: validity.Limit(3),
	})
	defer input.Dispose()

	input.Input("a")
	input.Input("ab")
	input.Input("ab")
	if !input.Pending() {
		t.Fatalf("expected a pending validation")
	}
	waitFor(t, func() bool { return input.Status() == validity.StatusValidationErrored })

	observer.mu.Lock()
	defer observer.mu.Unlock()
	if diff := cmp.Diff([]validity.Result{validity.ResultErrored}, observer.validations["text-input"]); diff != "" {
		t.Fatalf("validations mismatch (-want +got):\n%s", diff)
	}
}

func TestDisposeCancelsPendingValidation(t *testing.T) {
	input := form.NewTextInput(form.NewScope(form.WithDebounce(20*time.Millisecond)), form.TextInputProps{Required: true})
	input.Input("")
	input.Dispose()
	time.Sleep(60 * time.Millisecond)
	if input.Status() != validity.StatusInitialized {
		t.Fatalf("expected no validation after dispose, got %s", input.Status())
	}
}

func TestModifiers(t *testing.T) {
	cases := []struct {
		name      string
		modifiers form.Modifiers
		want      []string
		value     string
	}{
		{name: "eager", want: []string{" hi ", " hi "}, value: " hi "},
		{name: "trim", modifiers: form.Modifiers{Trim: true}, want: []string{"hi", "hi"}, value: "hi"},
		{name: "lazy", modifiers: form.Modifiers{Lazy: true}, want: []string{" hi "}, value: " hi "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var emitted []string
			input := form.NewTextInput(quiet(), form.TextInputProps{
				Modifiers: tc.modifiers,
				OnChange:  func(v string) { emitted = append(emitted, v) },
			})
			input.Input(" hi ")
			input.Change(" hi ")
			if diff := cmp.Diff(tc.want, emitted); diff != "" {
				t.Fatalf("emitted mismatch (-want +got):\n%s", diff)
			}
			if got := input.Value(); got != tc.value {
				t.Fatalf("expected buffer %q, got %q", tc.value, got)
			}
		})
	}
}

func TestSetModelValueKeepsTrimmedBuffer(t *testing.T) {
	input := form.NewTextInput(quiet(), form.TextInputProps{Modifiers: form.Modifiers{Trim: true}})
	input.Input("hi ")
	input.SetModelValue("hi")
	if got := input.Element().Value(); got != "hi " {
		t.Fatalf("expected in-progress whitespace to survive, got %q", got)
	}
	input.SetModelValue("other")
	if got := input.Element().Value(); got != "other" {
		t.Fatalf("expected model value to be applied, got %q", got)
	}
}

func TestRevalidateHook(t *testing.T) {
	ctx := context.Background()
	group := form.NewFormGroup(quiet(), form.FormGroupProps{})
	taken := map[string]bool{"ada": true}
	input := form.NewTextInput(group.Scope(), form.TextInputProps{
		Revalidate: func(_ context.Context, value string) (bool, error) {
			if value == "boom" {
				return false, errors.New("backend down")
			}
			return !taken[value], nil
		},
	})

	cases := []struct {
		value      string
		want       validity.Result
		violations []validity.Violation
		message    string
	}{
		{value: "grace", want: validity.ResultSucceed},
		{value: "ada", want: validity.ResultErrored, violations: []validity.Violation{validity.RevalidateInvalid}, message: "Failed......"},
		{value: "boom", want: validity.ResultErrored, violations: []validity.Violation{validity.RevalidateInvalid}, message: "Failed......"},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			input.Change(tc.value)
			got, err := group.CheckValidity(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
			if diff := cmp.Diff(tc.violations, group.Feedback().Violations()); diff != "" {
				t.Fatalf("violations mismatch (-want +got):\n%s", diff)
			}
			if msg := input.Element().ValidationMessage(); msg != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, msg)
			}
		})
	}
}

func TestTextareaLengthViolations(t *testing.T) {
	ctx := context.Background()
	group := form.NewFormGroup(quiet(), form.FormGroupProps{})
	area := form.NewTextarea(group.Scope(), form.TextareaProps{MaxLength: validity.Limit(4), Rows: 3})
	area.Change("too long")

	if result, _ := group.CheckValidity(ctx); result != validity.ResultErrored {
		t.Fatalf("expected errored, got %s", result)
	}
	if diff := cmp.Diff([]validity.Violation{validity.TooLong}, group.Feedback().Violations()); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
	if got := area.Element().GetAttr("rows"); got != "3" {
		t.Fatalf("expected rows=3, got %q", got)
	}
}

func TestPasswordToggle(t *testing.T) {
	ctx := context.Background()
	password := form.NewPassword(quiet(), form.PasswordProps{Required: true})
	toggle := password.Wrapper().Children()[0]

	if password.Element().InputType() != "password" || toggle.GetAttr("aria-label") != "Show password" {
		t.Fatalf("expected masked password")
	}
	password.CompositionStart()
	if password.Composing() {
		t.Fatalf("expected composition to be ignored while masked")
	}

	password.ToggleVisibility()
	if password.Element().InputType() != "text" || toggle.GetAttr("aria-pressed") != "true" || toggle.GetAttr("aria-label") != "Hide password" {
		t.Fatalf("expected shown password, got %s", password.Wrapper().OuterHTML())
	}
	password.CompositionStart()
	if result, _ := password.CheckValidity(ctx); result != validity.ResultUnvalidated {
		t.Fatalf("expected unvalidated while composing, got %s", result)
	}
	password.CompositionEnd("secret")
	if result, _ := password.CheckValidity(ctx); result != validity.ResultSucceed {
		t.Fatalf("expected succeed, got %s", result)
	}
}

func TestCheckboxGroupCountLaw(t *testing.T) {
	ctx := context.Background()
	group := form.NewFormGroup(quiet(), form.FormGroupProps{})
	boxes := form.NewCheckboxGroup(group.Scope(), form.CheckboxGroupProps{
		Name:    "toppings",
		Minimum: validity.Limit(1),
		Maximum: validity.Limit(2),
	})

	var model []string
	var items []*form.Checkbox
	for _, value := range []string{"ham", "egg", "leek"} {
		choice := form.NewChoiceGroup(boxes.Scope())
		box := form.NewCheckbox(choice.Scope(), form.CheckboxProps{
			Value:          value,
			OnValuesChange: func(v []string) { model = v },
		})
		box.SetModelValues(model)
		items = append(items, box)
	}
	if got := items[2].Element().GetAttr("name"); got != "toppings" {
		t.Fatalf("expected inherited name, got %q", got)
	}

	if result, _ := group.CheckValidity(ctx); result != validity.ResultErrored {
		t.Fatalf("expected underflow, got %s", result)
	}
	if diff := cmp.Diff([]validity.Violation{validity.RangeUnderflow}, group.Feedback().Violations()); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
	for _, box := range items {
		if box.Element().GetAttr("aria-invalid") != "true" || box.Element().GetAttr("aria-errormessage") != shareid.ErrorMessage(boxes.ID()) {
			t.Fatalf("expected checkbox aria to mirror the group, got %s", box.Element().OuterHTML())
		}
	}
	if boxes.Element().GetAttr("aria-invalid") != "true" {
		t.Fatalf("expected the group container to be marked invalid")
	}

	items[0].Change(ctx, true)
	if diff := cmp.Diff([]string{"ham"}, model); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}
	if boxes.Status() != validity.StatusValidationSucceed {
		t.Fatalf("expected the group to revalidate on change, got %s", boxes.Status())
	}
	if got := items[1].Element().GetAttr("aria-invalid"); got != "false" {
		t.Fatalf("expected checkbox aria to follow the group, got %q", got)
	}

	for _, box := range items[1:] {
		box.SetModelValues(model)
		box.Change(ctx, true)
	}
	if diff := cmp.Diff([]string{"ham", "egg", "leek"}, model); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}
	if result, _ := boxes.CheckValidity(ctx); result != validity.ResultErrored {
		t.Fatalf("expected overflow, got %s", result)
	}
	if diff := cmp.Diff([]validity.Violation{validity.RangeOverflow}, group.Feedback().Violations()); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckboxBooleanModel(t *testing.T) {
	ctx := context.Background()
	var got []bool
	box := form.NewCheckbox(quiet(), form.CheckboxProps{OnCheckedChange: func(v bool) { got = append(got, v) }})
	box.SetModelChecked(true)
	box.Change(ctx, false)
	if diff := cmp.Diff([]bool{false}, got); diff != "" {
		t.Fatalf("emitted mismatch (-want +got):\n%s", diff)
	}
	if err := box.Focus(ctx); !errors.Is(err, validity.ErrUnsuitableFocus) {
		t.Fatalf("expected unsuitable focus, got %v", err)
	}
}

func TestGroupSurfacesChildErrors(t *testing.T) {
	ctx := context.Background()
	group := form.NewFormGroup(quiet(), form.FormGroupProps{})
	radios := form.NewRadioGroup(group.Scope(), form.RadioGroupProps{})
	radio := form.NewRadio(radios.Scope(), form.RadioProps{Value: "a"})
	radio.Dispose()
	radios.Scope().Register(radio, "stale")

	result, err := radios.CheckValidity(ctx)
	if result != validity.ResultException {
		t.Fatalf("expected exception, got %s", result)
	}
	var groupErr *validity.GroupError
	if !errors.As(err, &groupErr) || !errors.Is(err, validity.ErrNotMounted) {
		t.Fatalf("expected a group error wrapping ErrNotMounted, got %v", err)
	}

	if result, err := group.CheckValidity(ctx); result != validity.ResultException || err != nil {
		t.Fatalf("expected the form group to absorb the error, got %s %v", result, err)
	}
}

func TestSingleSelectRequired(t *testing.T) {
	ctx := context.Background()
	group := form.NewFormGroup(quiet(), form.FormGroupProps{Required: true})
	var changes [][]string
	sel := form.NewSelect(group.Scope(), form.SelectProps{
		Placeholder: "Pick one",
		Children: []form.Choice{
			{Value: "a", Text: "Alpha"},
			{Label: "More", Options: []form.Choice{{Value: "b"}, {Value: "c", Disabled: true}}},
		},
		OnChange: func(v []string) { changes = append(changes, v) },
	})

	if !sel.Element().HasAttr("required") {
		t.Fatalf("expected required to be inherited")
	}
	if result, _ := group.CheckValidity(ctx); result != validity.ResultErrored {
		t.Fatalf("expected errored without a selection, got %s", result)
	}
	if diff := cmp.Diff([]validity.Violation{validity.ValueMissing}, group.Feedback().Violations()); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
	if !sel.Element().HasClass("is-invalid") {
		t.Fatalf("expected is-invalid class")
	}

	if result := sel.Change(ctx, "c"); result != validity.ResultErrored {
		t.Fatalf("expected disabled option to stay unselected, got %s", result)
	}
	if result := sel.Change(ctx, "b"); result != validity.ResultSucceed {
		t.Fatalf("expected succeed, got %s", result)
	}
	if diff := cmp.Diff([][]string{nil, {"b"}}, changes); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b"}, sel.Selected()); diff != "" {
		t.Fatalf("selected mismatch (-want +got):\n%s", diff)
	}
}

func TestMultiSelectCountLaw(t *testing.T) {
	ctx := context.Background()
	sel := form.NewSelect(quiet(), form.SelectProps{
		Multiple: &validity.Bounds{Minimum: validity.Limit(1), Maximum: validity.Limit(2)},
		Children: []form.Choice{{Value: "a"}, {Value: "b"}, {Value: "c", Selected: true}},
	})
	if diff := cmp.Diff([]string{"c"}, sel.Selected()); diff != "" {
		t.Fatalf("initial selection mismatch (-want +got):\n%s", diff)
	}

	cases := []struct {
		values []string
		want   validity.Result
	}{
		{values: nil, want: validity.ResultErrored},
		{values: []string{"a"}, want: validity.ResultSucceed},
		{values: []string{"a", "b", "c"}, want: validity.ResultErrored},
	}
	for _, tc := range cases {
		if got := sel.Change(ctx, tc.values...); got != tc.want {
			t.Fatalf("values %v: expected %s, got %s", tc.values, tc.want, got)
		}
		if diff := cmp.Diff(tc.values, sel.Selected()); diff != "" {
			t.Fatalf("selection cache mismatch (-want +got):\n%s", diff)
		}
	}

	sel.SetModelValues([]string{"b", "a"})
	if diff := cmp.Diff([]string{"a", "b"}, sel.Selected()); diff != "" {
		t.Fatalf("model selection mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectNovalidate(t *testing.T) {
	sel := form.NewSelect(quiet(), form.SelectProps{Required: true, Novalidate: true})
	if result, err := sel.CheckValidity(context.Background()); result != validity.ResultDisabled || err != nil {
		t.Fatalf("expected disabled, got %s %v", result, err)
	}
}
