package form

import (
	"strconv"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// TextareaProps configures a Textarea.
type TextareaProps struct {
	Name        string
	Value       string
	Placeholder string
	MinLength   *int
	MaxLength   *int
	Rows        int
	Required    bool
	Disabled    bool
	Readonly    bool
	Novalidate  bool
	Modifiers   Modifiers
	OnChange    func(string)
	Revalidate  Revalidator
	Attrs       []dom.Attr
}

// Textarea is a multi line text control.
type Textarea struct {
	*literal
	area *dom.Element
}

// NewTextarea mounts a textarea under scope.
func NewTextarea(scope Scope, props TextareaProps) *Textarea {
	l := newLiteral("textarea", scope, props.Novalidate, props.Modifiers, props.OnChange, props.Revalidate)
	area := dom.New("textarea", dom.A("class", "j-form-control"))
	area.SetOptional("id", l.id)
	applyLiteralAttrs(area, literalAttrs{
		name:        props.Name,
		placeholder: props.Placeholder,
		minLength:   props.MinLength,
		maxLength:   props.MaxLength,
		required:    scope.requiredOr(props.Required),
		disabled:    props.Disabled,
		readonly:    props.Readonly,
	})
	if props.Rows > 0 {
		area.SetAttr("rows", strconv.Itoa(props.Rows))
	}
	applyAttrs(area, props.Attrs)

	l.bind(area, props.Value)
	t := &Textarea{literal: l, area: area}
	scope.attach(area)
	scope.register(t, l.id)
	return t
}

// Element returns the textarea element.
func (t *Textarea) Element() *dom.Element {
	return t.element()
}

// Dispose unregisters the control and removes its element.
func (t *Textarea) Dispose() {
	t.dispose(t.area)
}
