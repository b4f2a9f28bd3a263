package form

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// TextInputTypes lists the input types TextInput accepts.
var TextInputTypes = []string{"email", "search", "tel", "text"}

// TextInputProps configures a TextInput.
type TextInputProps struct {
	// Type is one of TextInputTypes. Anything else renders as text.
	Type        string
	Name        string
	Value       string
	Placeholder string
	Pattern     string
	MinLength   *int
	MaxLength   *int
	Required    bool
	Disabled    bool
	Readonly    bool
	Novalidate  bool
	Size        Size
	Modifiers   Modifiers
	OnChange    func(string)
	Revalidate  Revalidator
	// Attrs are passed through to the input element.
	Attrs []dom.Attr
}

// TextInput is a single line text control.
type TextInput struct {
	*literal
	input *dom.Element
}

// NewTextInput mounts a text input under scope.
func NewTextInput(scope Scope, props TextInputProps) *TextInput {
	l := newLiteral("text-input", scope, props.Novalidate, props.Modifiers, props.OnChange, props.Revalidate)
	input := dom.New("input", dom.A("class", "j-form-control"), dom.A("type", normalizeTextType(props.Type)))
	input.SetOptional("id", l.id)
	applyLiteralAttrs(input, literalAttrs{
		name:        props.Name,
		placeholder: props.Placeholder,
		pattern:     props.Pattern,
		minLength:   props.MinLength,
		maxLength:   props.MaxLength,
		required:    scope.requiredOr(props.Required),
		disabled:    props.Disabled,
		readonly:    props.Readonly,
	})
	applySize(input, "input", scope.sizeOr(props.Size))
	applyAttrs(input, props.Attrs)

	l.bind(input, props.Value)
	t := &TextInput{literal: l, input: input}
	scope.attach(input)
	scope.register(t, l.id)
	return t
}

// Element returns the input element.
func (t *TextInput) Element() *dom.Element {
	return t.element()
}

// Dispose unregisters the control and removes its element.
func (t *TextInput) Dispose() {
	t.dispose(t.input)
}

func normalizeTextType(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	for _, candidate := range TextInputTypes {
		if kind == candidate {
			return kind
		}
	}
	return "text"
}

type literalAttrs struct {
	name        string
	placeholder string
	pattern     string
	minLength   *int
	maxLength   *int
	required    bool
	disabled    bool
	readonly    bool
}

func applyLiteralAttrs(el *dom.Element, attrs literalAttrs) {
	el.SetOptional("name", attrs.name)
	el.SetOptional("placeholder", attrs.placeholder)
	el.SetOptional("pattern", attrs.pattern)
	if attrs.minLength != nil {
		el.SetAttr("minlength", strconv.Itoa(*attrs.minLength))
	}
	if attrs.maxLength != nil {
		el.SetAttr("maxlength", strconv.Itoa(*attrs.maxLength))
	}
	el.SetBool("required", attrs.required)
	el.SetBool("disabled", attrs.disabled)
	el.SetBool("readonly", attrs.readonly)
}
