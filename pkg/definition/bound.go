package definition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync/atomic"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/messages"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// Bound is a built document: the mounted Form and its named controls.
type Bound struct {
	Form *form.Form

	document *Document
	catalog  *messages.Catalog
	logger   *slog.Logger
	controls []*Control
	byName   map[string]*Control
	groups   []*form.FormGroup
	checked  atomic.Bool
}

func (b *Bound) add(c *Control) {
	c.bound = b
	b.controls = append(b.controls, c)
	b.byName[c.name] = c
}

// Document returns the document the form was built from.
func (b *Bound) Document() *Document {
	return b.document
}

// Catalog returns the catalog behind group feedback, with document messages
// applied.
func (b *Bound) Catalog() *messages.Catalog {
	return b.catalog
}

// Control returns the control declared with name.
func (b *Bound) Control(name string) (*Control, bool) {
	c, ok := b.byName[name]
	return c, ok
}

// Controls returns every named control in declaration order.
func (b *Bound) Controls() []*Control {
	return slices.Clone(b.controls)
}

// Groups returns the form groups in declaration order.
func (b *Bound) Groups() []*form.FormGroup {
	return slices.Clone(b.groups)
}

// Submit validates the form. See form.Form.Submit.
func (b *Bound) Submit(ctx context.Context) form.SubmitResult {
	if !b.document.Novalidate {
		b.checked.Store(true)
	}
	return b.Form.Submit(ctx)
}

// Fill pushes values keyed by control name into the controls.
func (b *Bound) Fill(values map[string]any) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("definition: encode values: %w", err)
	}
	return b.FillJSON(raw)
}

// FillJSON pushes the members of a JSON object into the controls with the
// same name. Arrays fill multi value controls; members without a matching
// control are ignored.
func (b *Bound) FillJSON(raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return errors.New("definition: values are not valid JSON")
	}
	if root := gjson.ParseBytes(raw); !root.IsObject() {
		return errors.New("definition: values must be a JSON object")
	}
	for _, c := range b.controls {
		result := gjson.GetBytes(raw, gjson.Escape(c.name))
		if !result.Exists() {
			continue
		}
		c.set(jsonValues(result))
		b.logger.Debug("definition: filled control", "name", c.name, "kind", string(c.kind))
	}
	return nil
}

func jsonValues(result gjson.Result) []string {
	switch {
	case result.IsArray():
		var out []string
		result.ForEach(func(_, item gjson.Result) bool {
			out = append(out, item.String())
			return true
		})
		return out
	case result.Type == gjson.Null:
		return nil
	default:
		return []string{result.String()}
	}
}

// Dispose unmounts every component.
func (b *Bound) Dispose() {
	if b.Form != nil {
		b.Form.Dispose()
	}
}

type literalControl interface {
	ID() string
	Element() *dom.Element
	Value() string
	SetModelValue(value string)
	Change(value string)
	Status() validity.Status
}

// Control is a named control of a Bound form.
type Control struct {
	bound    *Bound
	name     string
	kind     Kind
	label    string
	required bool
	multiple bool
	choices  []string
	bounds   validity.Bounds

	text          literalControl
	radioGroup    *form.RadioGroup
	radios        []*form.Radio
	checkboxGroup *form.CheckboxGroup
	checkboxes    []*form.Checkbox
	checkbox      *form.Checkbox
	sel           *form.Select
}

func (c *Control) Name() string  { return c.name }
func (c *Control) Kind() Kind    { return c.kind }
func (c *Control) Label() string { return c.label }

// Required reports whether the control or an enclosing group is required.
func (c *Control) Required() bool { return c.required }

// Multiple reports whether the control holds a list of values.
func (c *Control) Multiple() bool { return c.multiple }

// Choices lists the values a choice control accepts. It is nil for text
// controls.
func (c *Control) Choices() []string {
	if c.checkbox != nil {
		return []string{"true", "false"}
	}
	return slices.Clone(c.choices)
}

// ID returns the share id of the control.
func (c *Control) ID() string {
	switch {
	case c.text != nil:
		return c.text.ID()
	case c.radioGroup != nil:
		return c.radioGroup.ID()
	case c.checkboxGroup != nil:
		return c.checkboxGroup.ID()
	case c.checkbox != nil:
		return c.checkbox.ID()
	case c.sel != nil:
		return c.sel.ID()
	}
	return ""
}

// Element returns the element carrying the control's aria state.
func (c *Control) Element() *dom.Element {
	switch {
	case c.text != nil:
		return c.text.Element()
	case c.radioGroup != nil:
		return c.radioGroup.Element()
	case c.checkboxGroup != nil:
		return c.checkboxGroup.Element()
	case c.checkbox != nil:
		return c.checkbox.Element()
	case c.sel != nil:
		return c.sel.Element()
	}
	return nil
}

// Status returns the validation status of the control. A checkbox outside
// a group has no status of its own and reports the outcome of its check
// once the form was submitted.
func (c *Control) Status() validity.Status {
	switch {
	case c.text != nil:
		return c.text.Status()
	case c.radioGroup != nil:
		return c.radioGroup.Status()
	case c.checkboxGroup != nil:
		return c.checkboxGroup.Status()
	case c.sel != nil:
		return c.sel.Status()
	case c.checkbox != nil:
		if !c.bound.checked.Load() {
			return validity.StatusInitialized
		}
		result, err := c.checkbox.CheckValidity(context.Background())
		if err != nil {
			return validity.StatusValidationException
		}
		return validity.Infer(result)
	}
	return validity.StatusInitialized
}

// Violations lists the failed constraints of an errored control.
func (c *Control) Violations() []validity.Violation {
	if c.Status() != validity.StatusValidationErrored {
		return nil
	}
	switch {
	case c.text != nil:
		state := c.text.Element().Validity()
		if out := state.Violations(); len(out) > 0 {
			return out
		}
		if state.CustomError {
			return []validity.Violation{validity.RevalidateInvalid}
		}
	case c.checkboxGroup != nil:
		if _, violation := c.bounds.Check(len(c.Value())); violation != "" {
			return []validity.Violation{violation}
		}
	case c.sel != nil && c.multiple:
		if _, violation := c.bounds.Check(len(c.sel.Selected())); violation != "" {
			return []validity.Violation{violation}
		}
	}
	return []validity.Violation{validity.ValueMissing}
}

// Value returns the current value. Text and single choice controls hold at
// most one entry.
func (c *Control) Value() []string {
	switch {
	case c.text != nil:
		return []string{c.text.Value()}
	case c.radioGroup != nil:
		for _, r := range c.radios {
			if r.Checked() {
				return []string{r.Value()}
			}
		}
	case c.checkboxGroup != nil:
		var out []string
		for i, cb := range c.checkboxes {
			if cb.Checked() {
				out = append(out, c.choices[i])
			}
		}
		return out
	case c.checkbox != nil:
		return []string{strconv.FormatBool(c.checkbox.Checked())}
	case c.sel != nil:
		return c.sel.Selected()
	}
	return nil
}

// set pushes a model value without user interaction.
func (c *Control) set(values []string) {
	first := ""
	if len(values) > 0 {
		first = values[0]
	}
	switch {
	case c.text != nil:
		c.text.SetModelValue(first)
	case c.radioGroup != nil:
		for _, r := range c.radios {
			r.SetModelValue(first)
		}
	case c.checkboxGroup != nil:
		for _, cb := range c.checkboxes {
			cb.SetModelValues(values)
		}
	case c.checkbox != nil:
		checked, _ := strconv.ParseBool(first)
		c.checkbox.SetModelChecked(checked)
	case c.sel != nil:
		if !c.multiple && len(values) > 1 {
			values = values[:1]
		}
		c.sel.SetModelValues(values)
	}
}

// Apply simulates the user entering values and triggers the same validation
// the interaction would. Text controls take the first value.
func (c *Control) Apply(ctx context.Context, values ...string) error {
	first := ""
	if len(values) > 0 {
		first = values[0]
	}
	switch {
	case c.text != nil:
		c.text.Change(first)
	case c.radioGroup != nil:
		if first == "" {
			for _, r := range c.radios {
				r.Change(ctx, false)
			}
			return nil
		}
		if err := c.known(first); err != nil {
			return err
		}
		for _, r := range c.radios {
			if r.Value() == first {
				r.Change(ctx, true)
			}
		}
	case c.checkboxGroup != nil:
		for _, v := range values {
			if err := c.known(v); err != nil {
				return err
			}
		}
		for i, cb := range c.checkboxes {
			cb.Change(ctx, slices.Contains(values, c.choices[i]))
		}
	case c.checkbox != nil:
		checked, err := strconv.ParseBool(first)
		if err != nil {
			return fmt.Errorf("definition: %s: %q is not a boolean", c.name, first)
		}
		c.checkbox.Change(ctx, checked)
	case c.sel != nil:
		for _, v := range values {
			if err := c.known(v); err != nil {
				return err
			}
		}
		if !c.multiple && len(values) > 1 {
			values = values[:1]
		}
		c.sel.Change(ctx, values...)
	}
	return nil
}

func (c *Control) known(value string) error {
	if slices.Contains(c.choices, value) {
		return nil
	}
	return fmt.Errorf("%w: %q is not a choice of %s", ErrUnknownChoice, value, c.name)
}
