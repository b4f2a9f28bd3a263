package form

import (
	"sync"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// PasswordProps configures a Password. Only the lazy modifier applies.
type PasswordProps struct {
	Name        string
	Value       string
	Placeholder string
	Pattern     string
	MinLength   *int
	MaxLength   *int
	Required    bool
	Disabled    bool
	Novalidate  bool
	Lazy        bool
	Size        Size
	OnChange    func(string)
	Revalidate  Revalidator
	Attrs       []dom.Attr
}

// Password is a password control with a visibility toggle.
type Password struct {
	*literal
	wrapper *dom.Element
	input   *dom.Element
	toggle  *dom.Element

	visMu   sync.Mutex
	showing bool
}

// NewPassword mounts a password control under scope.
func NewPassword(scope Scope, props PasswordProps) *Password {
	l := newLiteral("password", scope, props.Novalidate, Modifiers{Lazy: props.Lazy}, props.OnChange, props.Revalidate)
	size := scope.sizeOr(props.Size)

	input := dom.New("input", dom.A("class", "j-form-control"), dom.A("type", "password"))
	input.SetOptional("id", l.id)
	applyLiteralAttrs(input, literalAttrs{
		name:        props.Name,
		placeholder: props.Placeholder,
		pattern:     props.Pattern,
		minLength:   props.MinLength,
		maxLength:   props.MaxLength,
		required:    scope.requiredOr(props.Required),
		disabled:    props.Disabled,
	})
	applySize(input, "input", size)
	applyAttrs(input, props.Attrs)

	toggle := dom.New("button", dom.A("class", "toggle"), dom.A("type", "button"))
	wrapper := dom.New("div", dom.A("class", "visible-password"))
	applySize(wrapper, "input", size)
	wrapper.Append(toggle, input)

	l.bind(input, props.Value)
	p := &Password{literal: l, wrapper: wrapper, input: input, toggle: toggle}
	p.renderToggle()
	scope.attach(wrapper)
	scope.register(p, l.id)
	return p
}

// Element returns the password input.
func (p *Password) Element() *dom.Element {
	return p.element()
}

// Wrapper returns the element wrapping the toggle and the input.
func (p *Password) Wrapper() *dom.Element {
	return p.wrapper
}

// Showing reports whether the password is shown in clear text.
func (p *Password) Showing() bool {
	p.visMu.Lock()
	defer p.visMu.Unlock()
	return p.showing
}

// ToggleVisibility switches between masked and clear text.
func (p *Password) ToggleVisibility() {
	p.visMu.Lock()
	p.showing = !p.showing
	p.visMu.Unlock()
	p.renderToggle()
}

func (p *Password) renderToggle() {
	showing := p.Showing()
	label := "Show password"
	inputType := "password"
	if showing {
		label = "Hide password"
		inputType = "text"
	}
	p.toggle.SetAttr("aria-label", label)
	if showing {
		p.toggle.SetAttr("aria-pressed", "true")
	} else {
		p.toggle.SetAttr("aria-pressed", "false")
	}
	p.input.SetAttr("type", inputType)
}

// CompositionStart is honoured only while the password is shown.
func (p *Password) CompositionStart() {
	if !p.Showing() {
		return
	}
	p.literal.CompositionStart()
}

// CompositionEnd is honoured only while the password is shown.
func (p *Password) CompositionEnd(value string) {
	if !p.Showing() {
		return
	}
	p.literal.CompositionEnd(value)
}

// Dispose unregisters the control and removes its elements.
func (p *Password) Dispose() {
	p.dispose(p.wrapper)
}
