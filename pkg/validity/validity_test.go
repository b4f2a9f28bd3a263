package validity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/validity"
)

func TestInfer(t *testing.T) {
	cases := map[validity.Result]validity.Status{
		validity.ResultDisabled:    validity.StatusSilenced,
		validity.ResultUnrequired:  validity.StatusSilenced,
		validity.ResultUnvalidated: validity.StatusSilenced,
		validity.ResultException:   validity.StatusValidationException,
		validity.ResultSucceed:     validity.StatusValidationSucceed,
		validity.ResultErrored:     validity.StatusValidationErrored,
	}
	for result, want := range cases {
		if got := validity.Infer(result); got != want {
			t.Fatalf("Infer(%s) = %s, want %s", result, got, want)
		}
	}
}

func TestResultRoundTrip(t *testing.T) {
	for _, name := range []string{"disabled", "Succeed", " errored "} {
		result, err := validity.ParseResult(name)
		if err != nil {
			t.Fatalf("ParseResult(%q): %v", name, err)
		}
		text, _ := result.MarshalText()
		var back validity.Result
		if err := back.UnmarshalText(text); err != nil || back != result {
			t.Fatalf("round trip of %q produced %v (%v)", name, back, err)
		}
	}
	if _, err := validity.ParseResult("maybe"); err == nil {
		t.Fatalf("expected error for unknown result")
	}
}

func TestViolationSet(t *testing.T) {
	set := validity.NewViolationSet(validity.TooShort, validity.ValueMissing, validity.TooShort)
	if diff := cmp.Diff([]validity.Violation{validity.TooShort, validity.ValueMissing}, set.Slice()); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
	if !set.Contain(validity.ValueMissing) || set.Contain(validity.TooLong) {
		t.Fatalf("Contain reported wrong membership")
	}
	if !set.ContainAny(validity.TooLong, validity.TooShort) {
		t.Fatalf("ContainAny should match TooShort")
	}
	set.Clear()
	if set.Len() != 0 || set.Slice() != nil {
		t.Fatalf("expected empty set after Clear")
	}
}

func TestParseViolation(t *testing.T) {
	got, err := validity.ParseViolation("value-missing")
	if err != nil || got != validity.ValueMissing {
		t.Fatalf("ParseViolation = %q, %v", got, err)
	}
}

func TestStatusTrackerNotifiesOnChange(t *testing.T) {
	var tracker validity.StatusTracker
	var seen []validity.Status
	cancel := tracker.Subscribe(func(s validity.Status) { seen = append(seen, s) })

	tracker.Force(validity.StatusValidationStarted)
	tracker.Infer(validity.ResultErrored)
	tracker.Infer(validity.ResultErrored)
	cancel()
	tracker.Infer(validity.ResultSucceed)

	want := []validity.Status{validity.StatusValidationStarted, validity.StatusValidationErrored}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	if tracker.Current() != validity.StatusValidationSucceed {
		t.Fatalf("current = %s", tracker.Current())
	}
}

func stubAction(result validity.Result) validity.Action {
	return validity.ActionFuncs{Check: func(context.Context) (validity.Result, error) { return result, nil }}
}

func TestRegistryOrderAndReplacement(t *testing.T) {
	reg := validity.NewRegistry()
	reg.AddAction(stubAction(validity.ResultSucceed), "a")
	reg.AddAction(stubAction(validity.ResultSucceed), "b")
	reg.AddAction(stubAction(validity.ResultSucceed), "")
	reg.AddAction(stubAction(validity.ResultErrored), "a")
	reg.RemoveAction("missing")

	var ids []string
	for _, entry := range reg.Entries() {
		ids = append(ids, entry.ID)
	}
	if diff := cmp.Diff([]string{"b", "a"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	action, ok := reg.Get("a")
	if !ok {
		t.Fatalf("expected a to be registered")
	}
	if got, _ := action.CheckValidity(context.Background()); got != validity.ResultErrored {
		t.Fatalf("last registration should win, got %s", got)
	}

	reg.RemoveAction("b")
	if reg.Has("b") || reg.Len() != 1 {
		t.Fatalf("expected b removed, len=%d", reg.Len())
	}

	reg.Dispose()
	reg.AddAction(stubAction(validity.ResultSucceed), "c")
	if reg.Len() != 0 {
		t.Fatalf("disposed registry accepted a registration")
	}
	reg.RemoveAction("c")
}

func TestBoundsCheck(t *testing.T) {
	bounds := validity.Bounds{Minimum: validity.Limit(1), Maximum: validity.Limit(2)}
	cases := []struct {
		count     int
		result    validity.Result
		violation validity.Violation
	}{
		{0, validity.ResultErrored, validity.RangeUnderflow},
		{1, validity.ResultSucceed, ""},
		{2, validity.ResultSucceed, ""},
		{3, validity.ResultErrored, validity.RangeOverflow},
	}
	for _, tc := range cases {
		result, violation := bounds.Check(tc.count)
		if result != tc.result || violation != tc.violation {
			t.Fatalf("Check(%d) = %s %q, want %s %q", tc.count, result, violation, tc.result, tc.violation)
		}
	}
	if result, _ := (validity.Bounds{}).Check(100); result != validity.ResultSucceed {
		t.Fatalf("unbounded range should accept any count")
	}
}

func TestGroupErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &validity.GroupError{Group: "radio group", ID: "x", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("GroupError should unwrap to its cause")
	}
	if err.Error() != `validity: an error occurred while validating radio group "x": boom` {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestActionFuncsDefaults(t *testing.T) {
	var action validity.ActionFuncs
	if action.IsSuitableFocus() {
		t.Fatalf("zero ActionFuncs must not be focus suitable")
	}
	if err := action.Focus(context.Background()); !errors.Is(err, validity.ErrUnsuitableFocus) {
		t.Fatalf("Focus err = %v", err)
	}
}
