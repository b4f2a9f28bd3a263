package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/shareid"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// Choice describes an option, or an option group when Options is non-empty.
type Choice struct {
	Text     string
	Value    string
	Label    string
	Disabled bool
	Selected bool
	Options  []Choice
}

// IsGroup reports whether the choice renders as an optgroup.
func (c Choice) IsGroup() bool {
	return len(c.Options) > 0
}

// SelectProps configures a Select.
type SelectProps struct {
	Name       string
	Required   bool
	Disabled   bool
	Novalidate bool
	Size       Size
	// Multiple enables multi selection validated against the count range.
	Multiple *validity.Bounds
	// Placeholder renders a leading disabled option with an empty value.
	Placeholder string
	Children    []Choice
	// Value is the initial selection. A single select keeps the first entry.
	Value    []string
	OnChange func([]string)
	Attrs    []dom.Attr
}

// Select is a native select control. In single mode it validates with the
// native required check; in multiple mode it counts selected options.
type Select struct {
	scope          Scope
	id             string
	errorMessageID string
	novalidate     bool
	multiple       *validity.Bounds
	onChange       func([]string)
	child          Scope

	mu       sync.Mutex
	el       *dom.Element
	selected []string
	status   validity.StatusTracker
}

// NewSelect mounts a select under scope.
func NewSelect(scope Scope, props SelectProps) *Select {
	id := scope.fetchID()
	el := dom.New("select", dom.A("class", "j-form-select"))
	el.SetOptional("id", id)
	el.SetOptional("name", props.Name)
	el.SetBool("multiple", props.Multiple != nil)
	el.SetBool("required", scope.requiredOr(props.Required))
	el.SetBool("disabled", props.Disabled)
	applySize(el, "select", scope.sizeOr(props.Size))
	applyAttrs(el, props.Attrs)

	if props.Placeholder != "" {
		placeholder := dom.New("option", dom.A("value", ""), dom.Bool("disabled"))
		placeholder.SetText(props.Placeholder)
		el.Append(placeholder)
	}
	var initial []string
	for _, choice := range props.Children {
		el.Append(renderChoice(choice))
		initial = append(initial, selectedChoices(choice)...)
	}
	if len(props.Value) > 0 {
		initial = props.Value
	}

	s := &Select{
		scope:          scope,
		id:             id,
		errorMessageID: shareid.ErrorMessage(id),
		novalidate:     props.Novalidate,
		multiple:       props.Multiple,
		onChange:       props.OnChange,
		el:             el,
	}
	child := scope
	child.host = el
	child.ids = shareid.None
	s.child = child

	if len(initial) > 0 {
		el.SelectValues(initial...)
	}
	s.refresh(el.SelectedValues())
	scope.attach(el)
	scope.register(s, id)
	return s
}

func renderChoice(choice Choice) *dom.Element {
	if choice.IsGroup() {
		group := dom.New("optgroup")
		group.SetOptional("label", choice.Label)
		group.SetBool("disabled", choice.Disabled)
		for _, option := range choice.Options {
			group.Append(renderChoice(option))
		}
		return group
	}
	option := dom.New("option", dom.A("value", choice.Value))
	option.SetOptional("label", choice.Label)
	option.SetBool("disabled", choice.Disabled)
	text := choice.Text
	if text == "" {
		text = choice.Value
	}
	option.SetText(text)
	return option
}

func selectedChoices(choice Choice) []string {
	if !choice.IsGroup() {
		if choice.Selected {
			return []string{choice.Value}
		}
		return nil
	}
	var out []string
	for _, option := range choice.Options {
		out = append(out, selectedChoices(option)...)
	}
	return out
}

// Scope returns the scope Option and OptGroup components mount under.
func (s *Select) Scope() Scope {
	return s.child
}

// Element returns the select element.
func (s *Select) Element() *dom.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.el
}

// ID returns the share id of the select.
func (s *Select) ID() string {
	return s.id
}

// Status returns the current validation status.
func (s *Select) Status() validity.Status {
	return s.status.Current()
}

// Multiple reports whether the select is in multiple mode.
func (s *Select) Multiple() bool {
	return s.multiple != nil
}

// Selected returns the cached selection in document order.
func (s *Select) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.selected...)
}

// refresh rebuilds the cached selection when it differs from observed and
// reports whether it did.
func (s *Select) refresh(observed []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sameSelection(s.selected, observed) {
		return false
	}
	s.selected = append([]string(nil), observed...)
	return true
}

func sameSelection(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		seen[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := seen[v]; !ok {
			return false
		}
	}
	return true
}

// SetModelValue binds a single value model.
func (s *Select) SetModelValue(value string) {
	s.SetModelValues([]string{value})
}

// SetModelValues binds a list model. Equal selections are left untouched.
func (s *Select) SetModelValues(values []string) {
	el := s.Element()
	if el == nil {
		return
	}
	if sameSelection(s.Selected(), values) {
		return
	}
	el.SelectValues(values...)
	s.refresh(el.SelectedValues())
}

// Change simulates the user picking options. The selection is emitted and
// validated right away.
func (s *Select) Change(ctx context.Context, values ...string) validity.Result {
	el := s.Element()
	if el == nil {
		return validity.ResultException
	}
	el.SelectValues(values...)
	observed := el.SelectedValues()
	s.refresh(observed)
	if s.onChange != nil {
		s.onChange(append([]string(nil), observed...))
	}
	result, _ := s.CheckValidity(ctx)
	return result
}

// CheckValidity validates the selection and settles the status.
func (s *Select) CheckValidity(ctx context.Context) (result validity.Result, err error) {
	started := time.Now()
	defer func() {
		if recovered := recover(); recovered != nil {
			s.scope.Logger().Warn("form: validation panicked", "component", "select", "id", s.id, "panic", fmt.Sprint(recovered))
			s.scope.report().Excepted()
			result, err = s.settle(validity.ResultException), nil
		}
		s.scope.observeValidation("select", result, started)
	}()

	if s.scope.novalidateOr(s.novalidate) {
		return s.settle(validity.ResultDisabled), nil
	}
	el := s.Element()
	if el == nil {
		s.scope.Logger().Warn("form: validation exception", "component", "select", "id", s.id, "error", validity.ErrNotMounted)
		s.scope.report().Excepted()
		return s.settle(validity.ResultException), nil
	}
	if !el.WillValidate() {
		return s.settle(validity.ResultUnrequired), nil
	}

	reporter := s.scope.report()
	reporter.Start()
	if s.multiple != nil {
		result, violation := s.multiple.Check(len(el.SelectedOptions()))
		if result == validity.ResultSucceed {
			reporter.Passed()
		} else {
			reporter.Failed(violation)
		}
		return s.settle(result), nil
	}
	if el.CheckValidity() {
		reporter.Passed()
		return s.settle(validity.ResultSucceed), nil
	}
	reporter.Failed(validity.ValueMissing)
	return s.settle(validity.ResultErrored), nil
}

func (s *Select) settle(result validity.Result) validity.Result {
	status := s.status.Infer(result)
	el := s.Element()
	applyAria(el, status, s.errorMessageID)
	el.ToggleClass("is-valid", status == validity.StatusValidationSucceed)
	el.ToggleClass("is-invalid", status == validity.StatusValidationErrored)
	return result
}

// Focus focuses the select after the next tick.
func (s *Select) Focus(ctx context.Context) error {
	if err := s.scope.Ticker().NextTick(ctx); err != nil {
		return err
	}
	el := s.Element()
	if el == nil {
		return validity.ErrNotMounted
	}
	return el.Focus()
}

func (s *Select) IsSuitableFocus() bool {
	return true
}

// Dispose unregisters the select and removes its element.
func (s *Select) Dispose() {
	s.scope.deregister(s.id)
	s.mu.Lock()
	el := s.el
	s.el = nil
	s.mu.Unlock()
	el.Detach()
}

// OptionProps configures an Option mounted through a scope.
type OptionProps struct {
	Text     string
	Value    string
	Label    string
	Disabled bool
	Selected bool
}

// Option is an option element composed under a Select or OptGroup.
type Option struct {
	el *dom.Element
}

// NewOption mounts an option under scope.
func NewOption(scope Scope, props OptionProps) *Option {
	el := renderChoice(Choice{Text: props.Text, Value: props.Value, Label: props.Label, Disabled: props.Disabled})
	scope.attach(el)
	if props.Selected {
		el.SetSelected(true)
	}
	return &Option{el: el}
}

// Element returns the option element.
func (o *Option) Element() *dom.Element {
	return o.el
}

// OptGroupProps configures an OptGroup.
type OptGroupProps struct {
	Label    string
	Disabled bool
}

// OptGroup groups options under a label.
type OptGroup struct {
	el    *dom.Element
	child Scope
}

// NewOptGroup mounts an optgroup under scope.
func NewOptGroup(scope Scope, props OptGroupProps) *OptGroup {
	el := dom.New("optgroup")
	el.SetOptional("label", props.Label)
	el.SetBool("disabled", props.Disabled)
	child := scope
	child.host = el
	scope.attach(el)
	return &OptGroup{el: el, child: child}
}

// Scope returns the scope options of the group mount under.
func (g *OptGroup) Scope() Scope {
	return g.child
}

// Element returns the optgroup element.
func (g *OptGroup) Element() *dom.Element {
	return g.el
}
