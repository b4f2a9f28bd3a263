package form_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/shareid"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// quiet keeps debounced checks from firing during a test.
func quiet(opts ...form.ScopeOption) form.Scope {
	return form.NewScope(append([]form.ScopeOption{form.WithDebounce(time.Hour)}, opts...)...)
}

type recordingObserver struct {
	mu          sync.Mutex
	validations map[string][]validity.Result
	submits     []bool
}

func (o *recordingObserver) ObserveValidation(component string, result validity.Result, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.validations == nil {
		o.validations = map[string][]validity.Result{}
	}
	o.validations[component] = append(o.validations[component], result)
}

func (o *recordingObserver) ObserveSubmit(passed bool, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.submits = append(o.submits, passed)
}

func TestRequiredTextSubmitFocusesAndRecovers(t *testing.T) {
	ctx := context.Background()
	var submitted atomic.Int32
	f := form.NewForm(quiet(), form.FormProps{OnSubmit: func(context.Context) { submitted.Add(1) }})
	group := form.NewFormGroup(f.Scope(), form.FormGroupProps{
		Required: true,
		InvalidFeedback: func(fb form.Feedback) string {
			if fb.Contain(validity.ValueMissing) {
				return "<p>Please fill in your name</p>"
			}
			return "<p>Invalid</p>"
		},
	})
	input := form.NewTextInput(group.Scope(), form.TextInputProps{Name: "name"})

	if input.ID() != group.ID() {
		t.Fatalf("expected control to share the group id, got %q and %q", input.ID(), group.ID())
	}
	if !input.Element().HasAttr("required") {
		t.Fatalf("expected required to be inherited from the group")
	}

	result := f.Submit(ctx)
	if result.Passed {
		t.Fatalf("expected submit to fail")
	}
	if result.Focused != group.ID() {
		t.Fatalf("expected focus on %q, got %q", group.ID(), result.Focused)
	}
	if !input.Element().Focused() {
		t.Fatalf("expected the input to hold focus")
	}
	if diff := cmp.Diff([]validity.Violation{validity.ValueMissing}, group.Feedback().Violations()); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
	if !group.Element().HasClass("is-invalid") {
		t.Fatalf("expected group to render is-invalid")
	}
	feedback := group.Element().ByID(shareid.ErrorMessage(group.ID()))
	if feedback == nil || !strings.Contains(feedback.OuterHTML(), "<p>Please fill in your name</p>") {
		t.Fatalf("expected invalid feedback, got %q", feedback.OuterHTML())
	}
	if got := input.Element().GetAttr("aria-errormessage"); got != shareid.ErrorMessage(group.ID()) {
		t.Fatalf("expected aria-errormessage to point at the feedback, got %q", got)
	}
	if submitted.Load() != 0 {
		t.Fatalf("expected OnSubmit not to run")
	}

	input.Change("Ada")
	result = f.Submit(ctx)
	if !result.Passed {
		t.Fatalf("expected submit to pass, got %+v", result)
	}
	if submitted.Load() != 1 {
		t.Fatalf("expected OnSubmit once, got %d", submitted.Load())
	}
	if group.Element().ByID(shareid.ErrorMessage(group.ID())) != nil {
		t.Fatalf("expected invalid feedback to be removed")
	}
	if !group.Element().HasClass("is-valid") || group.Element().HasClass("is-invalid") {
		t.Fatalf("expected group classes to follow the status")
	}
	if got := input.Element().GetAttr("aria-invalid"); got != "false" {
		t.Fatalf("expected aria-invalid=false, got %q", got)
	}
}

func TestRadioGroupScenario(t *testing.T) {
	ctx := context.Background()
	f := form.NewForm(quiet(), form.FormProps{})
	group := form.NewFormGroup(f.Scope(), form.FormGroupProps{Required: true})
	radios := form.NewRadioGroup(group.Scope(), form.RadioGroupProps{})

	var picked []string
	var items []*form.Radio
	for _, value := range []string{"red", "green", "blue"} {
		choice := form.NewChoiceGroup(radios.Scope())
		items = append(items, form.NewRadio(choice.Scope(), form.RadioProps{
			Value:    value,
			OnChange: func(v string) { picked = append(picked, v) },
		}))
		form.NewLabel(choice.Scope(), form.TextProps{Text: value})
	}

	result := f.Submit(ctx)
	if result.Passed {
		t.Fatalf("expected submit to fail with nothing checked")
	}
	if diff := cmp.Diff(map[string]validity.Result{group.ID(): validity.ResultErrored}, result.Results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]validity.Violation{validity.ValueMissing}, group.Feedback().Violations()); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
	if result.Focused != group.ID() || !radios.Element().Focused() {
		t.Fatalf("expected the radio group container to take focus, got %q", result.Focused)
	}

	items[1].Change(ctx, true)
	if diff := cmp.Diff([]string{"green"}, picked); diff != "" {
		t.Fatalf("emitted mismatch (-want +got):\n%s", diff)
	}
	if got := radios.Status(); got != validity.StatusValidationSucceed {
		t.Fatalf("expected the group to revalidate on change, got %s", got)
	}
	if got := radios.Element().GetAttr("aria-invalid"); got != "false" {
		t.Fatalf("expected aria-invalid=false, got %q", got)
	}

	items[2].Change(ctx, true)
	if items[1].Checked() {
		t.Fatalf("expected radios of one group to be mutually exclusive")
	}
	if !f.Submit(ctx).Passed {
		t.Fatalf("expected submit to pass")
	}
}

func TestNovalidateGroupLeavesFeedbackUntouched(t *testing.T) {
	ctx := context.Background()
	group := form.NewFormGroup(quiet(), form.FormGroupProps{Required: true, Novalidate: true})
	input := form.NewTextInput(group.Scope(), form.TextInputProps{})

	result, err := group.CheckValidity(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != validity.ResultDisabled {
		t.Fatalf("expected disabled, got %s", result)
	}
	if got := group.Feedback().Violations(); len(got) != 0 {
		t.Fatalf("expected no violations, got %v", got)
	}
	if got := group.Status(); got != validity.StatusSilenced {
		t.Fatalf("expected silenced status, got %s", got)
	}
	if got := input.Status(); got != validity.StatusInitialized {
		t.Fatalf("expected the control not to be checked, got %s", got)
	}
}

func TestAncestorNovalidateWins(t *testing.T) {
	ctx := context.Background()
	var submitted bool
	f := form.NewForm(quiet(), form.FormProps{Novalidate: true, OnSubmit: func(context.Context) { submitted = true }})
	group := form.NewFormGroup(f.Scope(), form.FormGroupProps{Required: true})
	form.NewTextInput(group.Scope(), form.TextInputProps{})

	if result := f.Submit(ctx); !result.Passed || !submitted {
		t.Fatalf("expected novalidate form to submit, got %+v", result)
	}
	if result, _ := group.CheckValidity(ctx); result != validity.ResultDisabled {
		t.Fatalf("expected inherited novalidate, got %s", result)
	}
}

func TestFormGroupStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	group := form.NewFormGroup(quiet(), form.FormGroupProps{})
	var calls []string
	stub := func(id string, result validity.Result, err error) validity.Action {
		return validity.ActionFuncs{Check: func(context.Context) (validity.Result, error) {
			calls = append(calls, id)
			return result, err
		}}
	}

	cases := []struct {
		name   string
		second validity.Action
		want   validity.Result
		status validity.Status
	}{
		{name: "errored", second: stub("b", validity.ResultErrored, nil), want: validity.ResultErrored, status: validity.StatusValidationErrored},
		{name: "exception", second: stub("b", validity.ResultException, nil), want: validity.ResultException, status: validity.StatusValidationException},
		{name: "error", second: stub("b", validity.ResultException, errors.New("boom")), want: validity.ResultException, status: validity.StatusValidationException},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls = nil
			scope := group.Scope()
			defer scope.Register(stub("a", validity.ResultSucceed, nil), "a")()
			defer scope.Register(tc.second, "b")()
			defer scope.Register(stub("c", validity.ResultSucceed, nil), "c")()

			got, err := group.CheckValidity(ctx)
			if err != nil {
				t.Fatalf("expected child errors to be absorbed, got %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
			if group.Status() != tc.status {
				t.Fatalf("expected status %s, got %s", tc.status, group.Status())
			}
			if diff := cmp.Diff([]string{"a", "b"}, calls); diff != "" {
				t.Fatalf("calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormGroupFocusFallback(t *testing.T) {
	ctx := context.Background()
	group := form.NewFormGroup(quiet(), form.FormGroupProps{})
	unregister := group.Scope().Register(validity.ActionFuncs{
		FocusFn:  func(context.Context) error { return errors.New("cannot focus") },
		Suitable: func() bool { return true },
	}, "x")

	if err := group.Focus(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !group.Element().Focused() || group.Element().GetAttr("tabindex") != "-1" {
		t.Fatalf("expected the group to focus itself with tabindex=-1")
	}

	unregister()
	input := form.NewTextInput(group.Scope(), form.TextInputProps{})
	if err := group.Focus(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !input.Element().Focused() {
		t.Fatalf("expected the control to take focus")
	}
	if group.Element().HasAttr("tabindex") {
		t.Fatalf("expected the fallback tabindex to be removed")
	}
}

func TestSubmitFocusUsesDataIDAndNextCandidate(t *testing.T) {
	ctx := context.Background()
	f := form.NewForm(quiet(), form.FormProps{})
	scope := f.Scope()

	var focused []string
	invalid := func(id string, focusErr error) validity.Action {
		return validity.ActionFuncs{
			Check: func(context.Context) (validity.Result, error) { return validity.ResultErrored, nil },
			FocusFn: func(context.Context) error {
				focused = append(focused, id)
				return focusErr
			},
			Suitable: func() bool { return true },
		}
	}
	host := scope.Host()
	host.Append(
		dom.New("input", dom.A("id", "first"), dom.A("aria-invalid", "true")),
		dom.New("input", dom.A("id", "hidden"), dom.A("aria-invalid", "true"), dom.A("type", "hidden")),
		dom.New("div", dom.A("data-id", "second"), dom.A("aria-invalid", "true"), dom.A("role", "group")),
	)
	scope.Register(invalid("first", errors.New("gone")), "first")
	scope.Register(invalid("hidden", nil), "hidden")
	scope.Register(invalid("second", nil), "second")

	result := f.Submit(ctx)
	if result.Passed {
		t.Fatalf("expected submit to fail")
	}
	if result.Focused != "second" {
		t.Fatalf("expected focus to move to the next candidate, got %q", result.Focused)
	}
	if diff := cmp.Diff([]string{"first", "second"}, focused); diff != "" {
		t.Fatalf("focus attempts mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitSettlesEveryActionAndRecoversPanics(t *testing.T) {
	ctx := context.Background()
	observer := &recordingObserver{}
	f := form.NewForm(quiet(form.WithObserver(observer)), form.FormProps{})
	scope := f.Scope()

	var ran atomic.Int32
	scope.Register(validity.ActionFuncs{Check: func(context.Context) (validity.Result, error) {
		panic("kaboom")
	}}, "panics")
	scope.Register(validity.ActionFuncs{Check: func(context.Context) (validity.Result, error) {
		ran.Add(1)
		return validity.ResultException, nil
	}}, "exception")
	scope.Register(validity.ActionFuncs{Check: func(context.Context) (validity.Result, error) {
		ran.Add(1)
		return validity.ResultSucceed, nil
	}}, "ok")

	result := f.Submit(ctx)
	if result.Passed {
		t.Fatalf("expected submit to fail")
	}
	if ran.Load() != 2 {
		t.Fatalf("expected every action to run, got %d", ran.Load())
	}
	if result.Err == nil {
		t.Fatalf("expected the panic to be reported")
	}
	want := map[string]validity.Result{
		"panics":    validity.ResultException,
		"exception": validity.ResultException,
		"ok":        validity.ResultSucceed,
	}
	if diff := cmp.Diff(want, result.Results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{false}, observer.submits); diff != "" {
		t.Fatalf("submits mismatch (-want +got):\n%s", diff)
	}
}

func TestFormRendersNovalidate(t *testing.T) {
	f := form.NewForm(quiet(), form.FormProps{})
	if got := f.Element().OuterHTML(); got != `<form class="j-form" novalidate></form>` {
		t.Fatalf("unexpected markup %q", got)
	}
	f.Dispose()
	if f.Element() != nil {
		t.Fatalf("expected dispose to release the element")
	}
}

func TestRegistrationOrderFollowsMounting(t *testing.T) {
	f := form.NewForm(quiet(), form.FormProps{})
	a := form.NewFormGroup(f.Scope(), form.FormGroupProps{})
	b := form.NewFormGroup(f.Scope(), form.FormGroupProps{})
	c := form.NewFormGroup(f.Scope(), form.FormGroupProps{})
	b.Dispose()

	var ids []string
	for _, entry := range f.Actions() {
		ids = append(ids, entry.ID)
	}
	if diff := cmp.Diff([]string{a.ID(), c.ID()}, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}
