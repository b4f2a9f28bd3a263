package dom_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/validity"
)

func TestInputConstraints(t *testing.T) {
	cases := []struct {
		name  string
		attrs []dom.Attr
		value string
		want  []validity.Violation
	}{
		{name: "required empty", attrs: []dom.Attr{dom.Bool("required")}, want: []validity.Violation{validity.ValueMissing}},
		{name: "optional empty", attrs: nil, want: nil},
		{name: "too short", attrs: []dom.Attr{dom.A("minlength", "3")}, value: "ab", want: []validity.Violation{validity.TooShort}},
		{name: "too long", attrs: []dom.Attr{dom.A("maxlength", "2")}, value: "abc", want: []validity.Violation{validity.TooLong}},
		{name: "pattern full match", attrs: []dom.Attr{dom.A("pattern", "[a-z]+")}, value: "abc1", want: []validity.Violation{validity.PatternMismatch}},
		{name: "pattern ok", attrs: []dom.Attr{dom.A("pattern", "[a-z]+")}, value: "abc", want: nil},
		{name: "email mismatch", attrs: []dom.Attr{dom.A("type", "email")}, value: "nope", want: []validity.Violation{validity.TypeMismatch}},
		{name: "email ok", attrs: []dom.Attr{dom.A("type", "email")}, value: "a@b.co", want: nil},
		{name: "url mismatch", attrs: []dom.Attr{dom.A("type", "url")}, value: "example", want: []validity.Violation{validity.TypeMismatch}},
		{name: "number bad", attrs: []dom.Attr{dom.A("type", "number")}, value: "x", want: []validity.Violation{validity.BadInput}},
		{name: "number range", attrs: []dom.Attr{dom.A("type", "number"), dom.A("min", "2"), dom.A("max", "4")}, value: "5", want: []validity.Violation{validity.RangeOverflow}},
		{name: "number underflow", attrs: []dom.Attr{dom.A("type", "number"), dom.A("min", "2")}, value: "1", want: []validity.Violation{validity.RangeUnderflow}},
		{name: "number step", attrs: []dom.Attr{dom.A("type", "number"), dom.A("step", "0.5")}, value: "1.25", want: []validity.Violation{validity.StepMismatch}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			el := dom.New("input", tc.attrs...)
			el.SetValue(tc.value)
			if diff := cmp.Diff(tc.want, el.Validity().Violations()); diff != "" {
				t.Fatalf("violations mismatch (-want +got):\n%s", diff)
			}
			if got := el.CheckValidity(); got != (len(tc.want) == 0) {
				t.Fatalf("CheckValidity = %v", got)
			}
		})
	}
}

func TestWillValidate(t *testing.T) {
	fieldset := dom.New("fieldset", dom.Bool("disabled"))
	nested := dom.New("input")
	fieldset.Append(nested)

	cases := map[string]struct {
		el   *dom.Element
		want bool
	}{
		"text":     {dom.New("input"), true},
		"disabled": {dom.New("input", dom.Bool("disabled")), false},
		"readonly": {dom.New("input", dom.Bool("readonly")), false},
		"hidden":   {dom.New("input", dom.A("type", "hidden")), false},
		"fieldset": {nested, false},
		"div":      {dom.New("div"), false},
		"select":   {dom.New("select"), true},
	}
	for name, tc := range cases {
		if got := tc.el.WillValidate(); got != tc.want {
			t.Fatalf("%s: WillValidate = %v, want %v", name, got, tc.want)
		}
	}
	if !dom.New("input", dom.Bool("disabled"), dom.Bool("required")).CheckValidity() {
		t.Fatalf("barred controls must report valid")
	}
}

func TestCustomValidity(t *testing.T) {
	el := dom.New("input")
	el.SetCustomValidity("Validating......")
	state := el.Validity()
	if !state.CustomError || state.Valid() || el.CheckValidity() {
		t.Fatalf("custom error not reflected: %+v", state)
	}
	if len(state.Violations()) != 0 {
		t.Fatalf("custom errors carry no violation")
	}
	el.SetCustomValidity("")
	if !el.CheckValidity() {
		t.Fatalf("clearing the custom error should restore validity")
	}
}

func TestRadioGroupExclusivity(t *testing.T) {
	root := dom.New("form")
	a := dom.New("input", dom.A("type", "radio"), dom.A("name", "pick"), dom.A("value", "a"), dom.Bool("required"))
	b := dom.New("input", dom.A("type", "radio"), dom.A("name", "pick"), dom.A("value", "b"))
	root.Append(a, b)

	if !b.Validity().ValueMissing {
		t.Fatalf("required applies to the whole radio group")
	}
	a.SetChecked(true)
	b.SetChecked(true)
	if a.Checked() || !b.Checked() {
		t.Fatalf("checking b should uncheck a")
	}
	if !a.CheckValidity() {
		t.Fatalf("group with a checked radio is valid")
	}
	if a.Value() != "a" {
		t.Fatalf("radio value = %q", a.Value())
	}
}

func TestSelectSelection(t *testing.T) {
	sel := dom.New("select", dom.Bool("required"))
	placeholder := dom.New("option", dom.A("value", ""))
	group := dom.New("optgroup", dom.A("label", "Fruit"))
	apple := dom.New("option", dom.A("value", "apple"))
	pear := dom.New("option", dom.A("value", "pear"), dom.Bool("disabled"))
	group.Append(apple, pear)
	sel.Append(placeholder, group)

	if !sel.Validity().ValueMissing {
		t.Fatalf("nothing selected should be missing")
	}
	placeholder.SetSelected(true)
	if !sel.Validity().ValueMissing {
		t.Fatalf("empty placeholder selection should be missing")
	}
	apple.SetSelected(true)
	if placeholder.Selected() {
		t.Fatalf("single select should deselect siblings")
	}
	if !sel.CheckValidity() || sel.Value() != "apple" {
		t.Fatalf("apple selection should be valid, value=%q", sel.Value())
	}

	sel.SelectValues("pear")
	if len(sel.SelectedOptions()) != 0 {
		t.Fatalf("disabled options must not be selected")
	}

	sel.SetBool("multiple", true)
	sel.SelectValues("apple", "", "pear")
	if diff := cmp.Diff([]string{"", "apple"}, sel.SelectedValues()); diff != "" {
		t.Fatalf("selected values mismatch (-want +got):\n%s", diff)
	}
}

func TestFocus(t *testing.T) {
	root := dom.New("form")
	input := dom.New("input")
	div := dom.New("div")
	hiddenWrap := dom.New("div", dom.Bool("hidden"))
	hiddenInput := dom.New("input")
	hiddenWrap.Append(hiddenInput)
	root.Append(input, div, hiddenWrap)

	if err := input.Focus(); err != nil {
		t.Fatalf("Focus: %v", err)
	}
	if root.ActiveElement() != input || !input.Focused() {
		t.Fatalf("input should be active")
	}
	if err := div.Focus(); !errors.Is(err, dom.ErrNotFocusable) {
		t.Fatalf("div without tabindex focus err = %v", err)
	}
	div.SetAttr("tabindex", "-1")
	if err := div.Focus(); err != nil || !div.Focused() {
		t.Fatalf("div with tabindex should focus: %v", err)
	}
	if err := hiddenInput.Focus(); err == nil {
		t.Fatalf("hidden subtree must not take focus")
	}
	div.Detach()
	if root.ActiveElement() != nil {
		t.Fatalf("detached element still reported active")
	}
}

func TestQueryDocumentOrder(t *testing.T) {
	root := dom.New("div")
	first := dom.New("span", dom.A("aria-invalid", "true"), dom.A("id", "one"))
	wrapper := dom.New("div")
	second := dom.New("input", dom.A("aria-invalid", "true"), dom.A("id", "two"))
	third := dom.New("input", dom.A("aria-invalid", "false"))
	wrapper.Append(second, third)
	root.Append(first, wrapper)

	var ids []string
	for _, el := range root.QueryAll(dom.AttrEquals("aria-invalid", "true")) {
		ids = append(ids, el.ID())
	}
	if diff := cmp.Diff([]string{"one", "two"}, ids); diff != "" {
		t.Fatalf("query order mismatch (-want +got):\n%s", diff)
	}
	if root.ByID("two") != second {
		t.Fatalf("ByID failed")
	}
}

func TestClassToggle(t *testing.T) {
	el := dom.New("div", dom.A("class", "a"))
	el.ToggleClass("b", true)
	el.ToggleClass("b", true)
	el.ToggleClass("a", false)
	if diff := cmp.Diff([]string{"b"}, el.Classes()); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
	el.ToggleClass("b", false)
	if el.HasAttr("class") {
		t.Fatalf("empty class list should drop the attribute")
	}
}

func TestRender(t *testing.T) {
	form := dom.New("form", dom.Bool("novalidate"), dom.A("class", "j-form"))
	input := dom.New("input", dom.A("id", "x"), dom.Bool("required"), dom.A("placeholder", `"quoted"`))
	input.SetValue("a<b")
	area := dom.New("textarea")
	area.SetValue("<hi>")
	box := dom.New("input", dom.A("type", "checkbox"), dom.A("value", "on"))
	box.SetChecked(true)
	form.Append(input, area, box, dom.Text("1 < 2"), dom.HTML(`<strong onclick="x()">ok</strong>`))

	var b strings.Builder
	if err := form.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `<form class="j-form" novalidate>` +
		`<input id="x" placeholder="&#34;quoted&#34;" required value="a&lt;b">` +
		`<textarea>&lt;hi&gt;</textarea>` +
		`<input type="checkbox" value="on" checked>` +
		`1 &lt; 2<strong>ok</strong></form>`
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Fatalf("html mismatch (-want +got):\n%s", diff)
	}
	if dom.HTML("<script>x</script>") != nil {
		t.Fatalf("fully stripped markup should yield no node")
	}
}

func TestConcurrentAccess(t *testing.T) {
	root := dom.New("form")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			el := dom.New("input", dom.Bool("required"))
			root.Append(el)
			el.SetValue("x")
			el.SetAttr("aria-invalid", "false")
			_ = root.QueryAll(dom.TagIs("input"))
			_ = el.CheckValidity()
		}()
	}
	wg.Wait()
	if got := len(root.Children()); got != 16 {
		t.Fatalf("children = %d", got)
	}
}
