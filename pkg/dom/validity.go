package dom

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/goliatone/go-formguard/pkg/validity"
)

// ValidityState mirrors the browser ValidityState flags.
type ValidityState struct {
	ValueMissing    bool
	TypeMismatch    bool
	PatternMismatch bool
	TooLong         bool
	TooShort        bool
	RangeUnderflow  bool
	RangeOverflow   bool
	StepMismatch    bool
	BadInput        bool
	CustomError     bool
}

// Valid reports whether no flag is set.
func (v ValidityState) Valid() bool {
	return v == ValidityState{}
}

// Violations lists the violations behind the set flags. CustomError has no
// violation of its own.
func (v ValidityState) Violations() []validity.Violation {
	flags := []struct {
		on        bool
		violation validity.Violation
	}{
		{v.BadInput, validity.BadInput},
		{v.PatternMismatch, validity.PatternMismatch},
		{v.RangeOverflow, validity.RangeOverflow},
		{v.RangeUnderflow, validity.RangeUnderflow},
		{v.StepMismatch, validity.StepMismatch},
		{v.TooLong, validity.TooLong},
		{v.TooShort, validity.TooShort},
		{v.TypeMismatch, validity.TypeMismatch},
		{v.ValueMissing, validity.ValueMissing},
	}
	var out []validity.Violation
	for _, flag := range flags {
		if flag.on {
			out = append(out, flag.violation)
		}
	}
	return out
}

var textLikeTypes = map[string]bool{
	"text": true, "search": true, "tel": true, "url": true, "email": true, "password": true,
}

// Disabled reports whether the control is disabled directly or through a
// disabled fieldset ancestor.
func (e *Element) Disabled() bool {
	if e.HasAttr("disabled") {
		return true
	}
	for current := e.Parent(); current != nil; current = current.Parent() {
		if current.Tag() == "fieldset" && current.HasAttr("disabled") {
			return true
		}
	}
	return false
}

// WillValidate reports whether the element is a candidate for constraint
// validation.
func (e *Element) WillValidate() bool {
	switch e.Tag() {
	case "input":
		switch e.InputType() {
		case "hidden", "reset", "button":
			return false
		}
		if e.HasAttr("readonly") && !e.isCheckable() {
			return false
		}
	case "textarea":
		if e.HasAttr("readonly") {
			return false
		}
	case "select":
	default:
		return false
	}
	if e.Disabled() {
		return false
	}
	for current := e.Parent(); current != nil; current = current.Parent() {
		if current.Tag() == "datalist" {
			return false
		}
	}
	return true
}

// SetCustomValidity sets or clears the custom error message.
func (e *Element) SetCustomValidity(message string) {
	if e == nil {
		return
	}
	e.mu.Lock()
	e.custom = message
	e.mu.Unlock()
}

// ValidationMessage returns the custom error message, if any.
func (e *Element) ValidationMessage() string {
	if e == nil {
		return ""
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.custom
}

// CheckValidity reports whether the element satisfies its constraints.
// Elements that are not candidates are always valid.
func (e *Element) CheckValidity() bool {
	if !e.WillValidate() {
		return true
	}
	return e.Validity().Valid()
}

// Validity evaluates the constraints of the element.
func (e *Element) Validity() ValidityState {
	var state ValidityState
	if e == nil {
		return state
	}
	state.CustomError = e.ValidationMessage() != ""

	switch e.Tag() {
	case "select":
		state.ValueMissing = e.HasAttr("required") && e.selectMissing()
	case "textarea":
		value := e.Value()
		state.ValueMissing = e.HasAttr("required") && value == ""
		state.TooLong, state.TooShort = e.lengthFlags(value)
	case "input":
		e.inputValidity(&state)
	}
	return state
}

func (e *Element) selectMissing() bool {
	selected := e.SelectedOptions()
	if e.HasAttr("multiple") {
		return len(selected) == 0
	}
	for _, option := range selected {
		if option.Value() != "" {
			return false
		}
	}
	return true
}

func (e *Element) inputValidity(state *ValidityState) {
	kind := e.InputType()
	required := e.HasAttr("required")

	switch kind {
	case "checkbox":
		state.ValueMissing = required && !e.Checked()
		return
	case "radio":
		group := e.radioGroup()
		anyRequired, anyChecked := false, false
		for _, radio := range group {
			anyRequired = anyRequired || radio.HasAttr("required")
			anyChecked = anyChecked || radio.Checked()
		}
		state.ValueMissing = anyRequired && !anyChecked
		return
	}

	value := e.Value()
	state.ValueMissing = required && value == ""
	if value == "" {
		return
	}

	if textLikeTypes[kind] {
		state.TooLong, state.TooShort = e.lengthFlags(value)
		state.PatternMismatch = e.patternMismatch(value)
	}

	switch kind {
	case "email":
		state.TypeMismatch = !validEmailList(value, e.HasAttr("multiple"))
	case "url":
		state.TypeMismatch = !validURL(value)
	case "number":
		e.numberValidity(value, state)
	}
}

func (e *Element) lengthFlags(value string) (tooLong, tooShort bool) {
	if value == "" {
		return false, false
	}
	length := len(utf16.Encode([]rune(value)))
	if limit, ok := attrInt(e, "maxlength"); ok && limit >= 0 && length > limit {
		tooLong = true
	}
	if limit, ok := attrInt(e, "minlength"); ok && limit >= 0 && length < limit {
		tooShort = true
	}
	return tooLong, tooShort
}

var patternCache sync.Map

func (e *Element) patternMismatch(value string) bool {
	pattern, ok := e.Attr("pattern")
	if !ok {
		return false
	}
	re, err := compilePattern(pattern)
	if err != nil {
		// Browsers ignore patterns that fail to compile.
		return false
	}
	if e.InputType() == "email" && e.HasAttr("multiple") {
		for _, part := range strings.Split(value, ",") {
			if !re.MatchString(strings.TrimSpace(part)) {
				return true
			}
		}
		return false
	}
	return !re.MatchString(value)
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, err
	}
	patternCache.Store(pattern, re)
	return re, nil
}

var emailPattern = regexp.MustCompile(
	"^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$",
)

func validEmailList(value string, multiple bool) bool {
	if !multiple {
		return emailPattern.MatchString(value)
	}
	for _, part := range strings.Split(value, ",") {
		if !emailPattern.MatchString(strings.TrimSpace(part)) {
			return false
		}
	}
	return true
}

func validURL(value string) bool {
	parsed, err := url.Parse(value)
	return err == nil && parsed.Scheme != ""
}

func (e *Element) numberValidity(value string, state *ValidityState) {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		state.BadInput = true
		return
	}
	lower, hasMin := attrFloat(e, "min")
	if hasMin && n < lower {
		state.RangeUnderflow = true
	}
	if upper, ok := attrFloat(e, "max"); ok && n > upper {
		state.RangeOverflow = true
	}

	step := 1.0
	if raw, ok := e.Attr("step"); ok {
		if strings.EqualFold(strings.TrimSpace(raw), "any") {
			return
		}
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && parsed > 0 {
			step = parsed
		}
	}
	base := 0.0
	if hasMin {
		base = lower
	}
	steps := (n - base) / step
	if math.Abs(steps-math.Round(steps)) > 1e-9 {
		state.StepMismatch = true
	}
}

func attrInt(e *Element, name string) (int, bool) {
	raw, ok := e.Attr(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

func attrFloat(e *Element, name string) (float64, bool) {
	raw, ok := e.Attr(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
