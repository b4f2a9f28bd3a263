package form_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/validity"
)

func exceptFeedback() string { return "Something went wrong." }

func brokenAction() validity.Action {
	return validity.ActionFuncs{Check: func(context.Context) (validity.Result, error) {
		return validity.ResultException, errors.New("backend gone")
	}}
}

// assertSettled fails when the group is still marked as validating.
func assertSettled(t *testing.T, group *form.FormGroup, want validity.Status) {
	t.Helper()
	if got := group.Status(); got != want {
		t.Fatalf("expected group status %s, got %s", want, got)
	}
	el := group.Element()
	if el.HasAttr("aria-busy") || el.HasClass("is-validating") {
		t.Fatalf("expected the busy markers to be cleared, got %s", el.OuterHTML())
	}
}

func TestPanickingRevalidateSettlesGroup(t *testing.T) {
	group := form.NewFormGroup(quiet(), form.FormGroupProps{ExceptFeedback: exceptFeedback})
	input := form.NewTextInput(group.Scope(), form.TextInputProps{
		Revalidate: func(context.Context, string) (bool, error) {
			panic("revalidate exploded")
		},
	})
	input.Change("ada")

	result, err := input.CheckValidity(context.Background())
	if result != validity.ResultException || err != nil {
		t.Fatalf("expected an absorbed exception, got %s %v", result, err)
	}
	assertSettled(t, group, validity.StatusValidationException)
	if !group.Element().HasClass("is-except") {
		t.Fatalf("expected is-except on the group, got %s", group.Element().OuterHTML())
	}
}

func TestDelegatedGroupExceptionSettlesFormGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("radio group", func(t *testing.T) {
		group := form.NewFormGroup(quiet(), form.FormGroupProps{})
		radios := form.NewRadioGroup(group.Scope(), form.RadioGroupProps{})
		radios.Scope().Register(brokenAction(), "broken")
		radio := form.NewRadio(radios.Scope(), form.RadioProps{Value: "a"})

		radio.Change(ctx, true)
		if radios.Status() != validity.StatusValidationException {
			t.Fatalf("expected radio group exception, got %s", radios.Status())
		}
		assertSettled(t, group, validity.StatusValidationException)
	})

	t.Run("checkbox group", func(t *testing.T) {
		group := form.NewFormGroup(quiet(), form.FormGroupProps{})
		boxes := form.NewCheckboxGroup(group.Scope(), form.CheckboxGroupProps{})
		box := form.NewCheckbox(boxes.Scope(), form.CheckboxProps{Value: "a"})
		boxes.Scope().Register(brokenAction(), "broken")

		box.Change(ctx, true)
		if boxes.Status() != validity.StatusValidationException {
			t.Fatalf("expected checkbox group exception, got %s", boxes.Status())
		}
		assertSettled(t, group, validity.StatusValidationException)
	})
}

func TestUnmountedSelectSettlesGroup(t *testing.T) {
	group := form.NewFormGroup(quiet(), form.FormGroupProps{})
	sel := form.NewSelect(group.Scope(), form.SelectProps{
		Children: []form.Choice{{Value: "a", Text: "Alpha"}},
	})
	sel.Dispose()

	if result, _ := sel.CheckValidity(context.Background()); result != validity.ResultException {
		t.Fatalf("expected exception, got %s", result)
	}
	assertSettled(t, group, validity.StatusValidationException)
}

func TestRequiredPatternInputReplacesViolations(t *testing.T) {
	ctx := context.Background()
	group := form.NewFormGroup(quiet(), form.FormGroupProps{})
	input := form.NewTextInput(group.Scope(), form.TextInputProps{Required: true, Pattern: "[a-z]+"})

	// Order matters: each step re-checks the group left by the previous one.
	steps := []struct {
		value      string
		want       validity.Result
		violations []validity.Violation
	}{
		{value: "", want: validity.ResultErrored, violations: []validity.Violation{validity.ValueMissing}},
		{value: "abc1", want: validity.ResultErrored, violations: []validity.Violation{validity.PatternMismatch}},
		{value: "abc", want: validity.ResultSucceed},
		{value: "", want: validity.ResultErrored, violations: []validity.Violation{validity.ValueMissing}},
	}
	for _, step := range steps {
		input.Change(step.value)
		for name, check := range map[string]func(context.Context) (validity.Result, error){
			"input": input.CheckValidity,
			"group": group.CheckValidity,
		} {
			got, err := check(ctx)
			if err != nil {
				t.Fatalf("%q %s: unexpected error: %v", step.value, name, err)
			}
			if got != step.want {
				t.Fatalf("%q %s: expected %s, got %s", step.value, name, step.want, got)
			}
			if diff := cmp.Diff(step.violations, group.Feedback().Violations()); diff != "" {
				t.Fatalf("%q %s: violations mismatch (-want +got):\n%s", step.value, name, diff)
			}
		}
	}
}

func TestConcurrentChecksRenderOneFeedback(t *testing.T) {
	ctx := context.Background()
	group := form.NewFormGroup(quiet(), form.FormGroupProps{
		InvalidFeedback: func(form.Feedback) string { return "Required." },
	})
	form.NewTextInput(group.Scope(), form.TextInputProps{Required: true})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = group.CheckValidity(ctx)
		}()
	}
	wg.Wait()

	feedback := 0
	for _, child := range group.Element().Children() {
		if child.HasClass("invalid-feedback") {
			feedback++
		}
	}
	if feedback != 1 {
		t.Fatalf("expected one feedback block, got %d:\n%s", feedback, group.Element().OuterHTML())
	}
	assertSettled(t, group, validity.StatusValidationErrored)
}
