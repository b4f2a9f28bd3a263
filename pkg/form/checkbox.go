package form

import (
	"context"
	"slices"
	"sync"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// CheckboxProps configures a Checkbox. Name and Disabled are overridden by an
// enclosing CheckboxGroup.
type CheckboxProps struct {
	Value          string
	Name           string
	Disabled       bool
	DefaultChecked bool
	// OnCheckedChange receives the checkedness when the model is a boolean.
	OnCheckedChange func(bool)
	// OnValuesChange receives the updated list when the model is a list of
	// checked values.
	OnValuesChange func([]string)
	Attrs          []dom.Attr
}

type checkboxModel int

const (
	checkboxModelNone checkboxModel = iota
	checkboxModelBool
	checkboxModelValues
)

// Checkbox is a single checkbox. Its aria state mirrors the status of the
// enclosing CheckboxGroup.
type Checkbox struct {
	scope Scope
	id    string
	props CheckboxProps

	mu     sync.Mutex
	el     *dom.Element
	model  checkboxModel
	values []string

	unsubscribe func()
}

// NewCheckbox mounts a checkbox under scope.
func NewCheckbox(scope Scope, props CheckboxProps) *Checkbox {
	id := scope.fetchID()
	el := dom.New("input", dom.A("type", "checkbox"), dom.A("value", props.Value))
	el.SetOptional("id", id)
	el.SetOptional("name", scope.nameOr(props.Name))
	el.SetBool("disabled", scope.disabledOr(props.Disabled))
	applyAttrs(el, props.Attrs)
	if props.DefaultChecked {
		el.SetChecked(true)
	}

	c := &Checkbox{scope: scope, id: id, props: props, el: el}
	if scope.groupStatus != nil {
		c.unsubscribe = scope.groupStatus.Subscribe(func(status validity.Status) {
			applyAria(c.Element(), status, scope.errorMessageID)
		})
		applyAria(el, scope.groupStatus.Current(), scope.errorMessageID)
	}
	scope.attach(el)
	scope.register(c, id)
	return c
}

// Element returns the input element.
func (c *Checkbox) Element() *dom.Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.el
}

// ID returns the share id of the checkbox.
func (c *Checkbox) ID() string {
	return c.id
}

// Checked reports whether the checkbox is checked.
func (c *Checkbox) Checked() bool {
	return c.Element().Checked()
}

// SetModelChecked binds a boolean model.
func (c *Checkbox) SetModelChecked(checked bool) {
	c.mu.Lock()
	c.model = checkboxModelBool
	el := c.el
	c.mu.Unlock()
	el.SetChecked(checked)
}

// SetModelValues binds a list model. The checkbox is checked when the list
// contains its value.
func (c *Checkbox) SetModelValues(values []string) {
	c.mu.Lock()
	c.model = checkboxModelValues
	c.values = append([]string(nil), values...)
	el := c.el
	c.mu.Unlock()
	el.SetChecked(slices.Contains(values, c.props.Value))
}

// Change simulates the user toggling the checkbox. The bound model is
// updated through the matching callback and the group revalidates.
func (c *Checkbox) Change(ctx context.Context, checked bool) {
	c.mu.Lock()
	el := c.el
	if el == nil {
		c.mu.Unlock()
		return
	}
	el.SetChecked(checked)

	var next []string
	model := c.model
	if model == checkboxModelValues {
		next = slices.DeleteFunc(append([]string(nil), c.values...), func(v string) bool {
			return v == c.props.Value
		})
		if checked {
			next = append(next, c.props.Value)
		}
		c.values = next
	}
	c.mu.Unlock()

	switch model {
	case checkboxModelBool:
		if c.props.OnCheckedChange != nil {
			c.props.OnCheckedChange(checked)
		}
	case checkboxModelValues:
		if c.props.OnValuesChange != nil {
			c.props.OnValuesChange(append([]string(nil), next...))
		}
	}
	c.scope.delegateValidation(ctx)
}

func (c *Checkbox) CheckValidity(context.Context) (validity.Result, error) {
	el := c.Element()
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

func (c *Checkbox) Focus(context.Context) error {
	return validity.ErrUnsuitableFocus
}

func (c *Checkbox) IsSuitableFocus() bool {
	return false
}

// Dispose unregisters the checkbox and removes its element.
func (c *Checkbox) Dispose() {
	c.scope.deregister(c.id)
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.mu.Lock()
	el := c.el
	c.el = nil
	c.mu.Unlock()
	el.Detach()
}
