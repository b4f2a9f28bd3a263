package form

import (
	"context"
	"sync"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// RadioProps configures a Radio. Name and Disabled are overridden by an
// enclosing RadioGroup.
type RadioProps struct {
	Value          string
	Name           string
	Disabled       bool
	DefaultChecked bool
	OnChange       func(string)
	Attrs          []dom.Attr
}

// Radio is a single radio button. It validates as checked or not checked and
// never takes focus on behalf of its group.
type Radio struct {
	scope Scope
	id    string
	value string

	mu       sync.Mutex
	el       *dom.Element
	onChange func(string)
}

// NewRadio mounts a radio under scope.
func NewRadio(scope Scope, props RadioProps) *Radio {
	id := scope.fetchID()
	el := dom.New("input", dom.A("type", "radio"), dom.A("value", props.Value))
	el.SetOptional("id", id)
	el.SetOptional("name", scope.nameOr(props.Name))
	el.SetBool("disabled", scope.disabledOr(props.Disabled))
	applyAttrs(el, props.Attrs)

	r := &Radio{scope: scope, id: id, value: props.Value, el: el, onChange: props.OnChange}
	scope.attach(el)
	if props.DefaultChecked {
		el.SetChecked(true)
	}
	scope.register(r, id)
	return r
}

func (r *Radio) element() *dom.Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.el
}

// Element returns the input element.
func (r *Radio) Element() *dom.Element {
	return r.element()
}

// ID returns the share id of the radio.
func (r *Radio) ID() string {
	return r.id
}

// Value returns the value the radio stands for.
func (r *Radio) Value() string {
	return r.value
}

// Checked reports whether the radio is checked.
func (r *Radio) Checked() bool {
	return r.element().Checked()
}

// SetModelValue checks the radio when value matches its own value.
func (r *Radio) SetModelValue(value string) {
	el := r.element()
	if el == nil {
		return
	}
	el.SetChecked(value == r.value)
}

// Change simulates the user toggling the radio. The enclosing group is asked
// to revalidate.
func (r *Radio) Change(ctx context.Context, checked bool) {
	el := r.element()
	if el == nil {
		return
	}
	el.SetChecked(checked)
	if r.onChange != nil {
		r.onChange(r.value)
	}
	r.scope.delegateValidation(ctx)
}

func (r *Radio) CheckValidity(context.Context) (validity.Result, error) {
	el := r.element()
	if el == nil {
		return validity.ResultException, validity.ErrNotMounted
	}
	if !el.WillValidate() {
		return validity.ResultUnrequired, nil
	}
	if el.Checked() {
		return validity.ResultSucceed, nil
	}
	return validity.ResultErrored, nil
}

func (r *Radio) Focus(context.Context) error {
	return validity.ErrUnsuitableFocus
}

func (r *Radio) IsSuitableFocus() bool {
	return false
}

// Dispose unregisters the radio and removes its element.
func (r *Radio) Dispose() {
	r.scope.deregister(r.id)
	r.mu.Lock()
	el := r.el
	r.el = nil
	r.mu.Unlock()
	el.Detach()
}
