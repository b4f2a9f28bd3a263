package definition

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/messages"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// ExceptFeedback is shown by form groups whose checks could not complete.
const ExceptFeedback = "Validation could not complete. Please try again."

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	scopeOptions      []form.ScopeOption
	catalog           *messages.Catalog
	client            *http.Client
	onSubmit          func(ctx context.Context)
	revalidateTimeout time.Duration
}

// WithScopeOptions configures the root scope, e.g. its logger and observer.
func WithScopeOptions(opts ...form.ScopeOption) Option {
	return func(cfg *buildConfig) {
		cfg.scopeOptions = append(cfg.scopeOptions, opts...)
	}
}

// WithCatalog sets the catalog used for group feedback. Document level
// messages are applied to a clone.
func WithCatalog(catalog *messages.Catalog) Option {
	return func(cfg *buildConfig) {
		if catalog != nil {
			cfg.catalog = catalog
		}
	}
}

// WithHTTPClient sets the client used by remote revalidation.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *buildConfig) {
		if client != nil {
			cfg.client = client
		}
	}
}

// WithOnSubmit sets the callback invoked when a submit passes.
func WithOnSubmit(fn func(ctx context.Context)) Option {
	return func(cfg *buildConfig) {
		cfg.onSubmit = fn
	}
}

// WithRevalidateTimeout bounds every remote revalidation call. Zero disables
// the bound.
func WithRevalidateTimeout(timeout time.Duration) Option {
	return func(cfg *buildConfig) {
		cfg.revalidateTimeout = timeout
	}
}

// Build mounts the component tree declared by doc under a new Form.
func Build(doc *Document, opts ...Option) (*Bound, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	cfg := &buildConfig{client: http.DefaultClient}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	catalog := cfg.catalog
	if catalog == nil {
		var err error
		if catalog, err = messages.New(); err != nil {
			return nil, fmt.Errorf("definition: catalog: %w", err)
		}
	}
	if len(doc.Messages) > 0 {
		overridden, err := overrideCatalog(catalog, doc.Messages)
		if err != nil {
			return nil, fmt.Errorf("definition: document messages: %w", err)
		}
		catalog = overridden
	}

	root := form.NewScope(cfg.scopeOptions...)
	b := &builder{
		cfg:   cfg,
		bound: &Bound{document: doc, catalog: catalog, byName: map[string]*Control{}},
	}
	b.bound.Form = form.NewForm(root, form.FormProps{
		Novalidate: doc.Novalidate,
		OnSubmit:   cfg.onSubmit,
	})
	b.bound.logger = root.Logger()

	for i, node := range doc.Children {
		if err := b.node(b.bound.Form.Scope(), node, frame{catalog: catalog}); err != nil {
			b.bound.Dispose()
			return nil, fmt.Errorf("definition: build children[%d]: %w", i, err)
		}
	}
	return b.bound, nil
}

func overrideCatalog(base *messages.Catalog, raw map[string]string) (*messages.Catalog, error) {
	templates := make(map[validity.Violation]string, len(raw))
	for name, source := range raw {
		violation, err := validity.ParseViolation(name)
		if err != nil {
			return nil, err
		}
		templates[violation] = source
	}
	catalog := base.Clone()
	if err := catalog.Override(templates); err != nil {
		return nil, err
	}
	return catalog, nil
}

type builder struct {
	cfg   *buildConfig
	bound *Bound
}

// frame carries what a node inherits from its ancestors.
type frame struct {
	catalog  *messages.Catalog
	label    string
	required bool
	// owner is the radio or checkbox group control collecting choices.
	owner *Control
	// choice is set inside a choice-group, where radios and checkboxes do not
	// get a wrapper of their own.
	choice bool
	// grouped is set below a form-group, which hands out the share ids.
	grouped bool
}

func (b *builder) children(scope form.Scope, nodes []Node, f frame) error {
	for _, child := range nodes {
		if err := b.node(scope, child, f); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) node(scope form.Scope, n Node, f frame) error {
	// Controls only register under an id, so a bare control gets an
	// implicit form-group.
	if !f.grouped && (n.Kind.Control() || n.Kind == KindCheckbox) {
		return b.formGroup(scope, Node{Kind: KindFormGroup, Children: []Node{n}}, f)
	}
	switch n.Kind {
	case KindFormGroup:
		return b.formGroup(scope, n, f)
	case KindMasthead:
		m := form.NewMasthead(scope)
		return b.children(m.Scope(), n.Children, f)
	case KindChoiceGroup:
		c := form.NewChoiceGroup(scope)
		f.choice = true
		return b.children(c.Scope(), n.Children, f)
	case KindLabel:
		form.NewLabel(scope, form.TextProps{Text: n.Text})
	case KindCaption:
		form.NewCaption(scope, form.TextProps{Text: n.Text})
	case KindSummary:
		form.NewSummary(scope, form.TextProps{Text: n.Text})
	case KindTextInput, KindPassword, KindTextarea:
		b.literal(scope, n, f)
	case KindRadioGroup:
		return b.radioGroup(scope, n, f)
	case KindRadio:
		b.radio(scope, n, f)
	case KindCheckboxGroup:
		return b.checkboxGroup(scope, n, f)
	case KindCheckbox:
		b.checkbox(scope, n, f)
	case KindSelect:
		b.selectControl(scope, n, f)
	default:
		return fmt.Errorf("unsupported kind %q", n.Kind)
	}
	return nil
}

func (b *builder) formGroup(scope form.Scope, n Node, f frame) error {
	catalog := f.catalog
	if len(n.Messages) > 0 {
		overridden, err := overrideCatalog(catalog, n.Messages)
		if err != nil {
			return fmt.Errorf("form-group messages: %w", err)
		}
		catalog = overridden
	}
	params := feedbackParams(n)
	g := form.NewFormGroup(scope, form.FormGroupProps{
		Required:        n.Required,
		Novalidate:      n.Novalidate,
		Size:            form.Size(n.Size),
		InvalidFeedback: catalog.InvalidFeedback(params),
		ExceptFeedback:  func() string { return ExceptFeedback },
	})
	b.bound.groups = append(b.bound.groups, g)

	f.catalog = catalog
	f.grouped = true
	f.required = f.required || n.Required
	if params.Label != "" {
		f.label = params.Label
	}
	return b.children(g.Scope(), n.Children, f)
}

// feedbackParams collects the label and the constraints of the first
// control below n for message templates.
func feedbackParams(n Node) messages.Params {
	params := messages.Params{Label: firstText(n.Children, KindLabel)}
	if control, ok := firstControl(n.Children); ok {
		params.Pattern = control.Pattern
		params.MinLength = control.MinLength
		params.MaxLength = control.MaxLength
		params.Minimum = control.Minimum
		params.Maximum = control.Maximum
	}
	return params
}

func firstText(nodes []Node, kind Kind) string {
	for _, n := range nodes {
		if n.Kind == kind && n.Text != "" {
			return n.Text
		}
		if n.Kind == KindMasthead || n.Kind == KindFormGroup {
			if text := firstText(n.Children, kind); text != "" {
				return text
			}
		}
	}
	return ""
}

func firstControl(nodes []Node) (Node, bool) {
	for _, n := range nodes {
		if n.Kind.Control() || n.Kind == KindCheckbox {
			return n, true
		}
		if control, ok := firstControl(n.Children); ok {
			return control, true
		}
	}
	return Node{}, false
}

// labelFor prefers a masthead label declared on the control itself.
func labelFor(n Node, f frame) string {
	if text := firstText(n.Children, KindLabel); text != "" {
		return text
	}
	if f.label != "" {
		return f.label
	}
	return n.Name
}

func (b *builder) revalidator(n Node) form.Revalidator {
	if n.Revalidate == nil {
		return nil
	}
	return HTTPRevalidator(b.cfg.client, n.Revalidate.Endpoint, n.Name, b.cfg.revalidateTimeout)
}

func (b *builder) literal(scope form.Scope, n Node, f frame) {
	modifiers := form.Modifiers{Lazy: n.Lazy, Trim: n.Trim}
	var control literalControl
	switch n.Kind {
	case KindPassword:
		control = form.NewPassword(scope, form.PasswordProps{
			Name:        n.Name,
			Value:       n.Value,
			Placeholder: n.Placeholder,
			Pattern:     n.Pattern,
			MinLength:   n.MinLength,
			MaxLength:   n.MaxLength,
			Required:    n.Required,
			Disabled:    n.Disabled,
			Novalidate:  n.Novalidate,
			Lazy:        n.Lazy,
			Size:        form.Size(n.Size),
			Revalidate:  b.revalidator(n),
		})
	case KindTextarea:
		control = form.NewTextarea(scope, form.TextareaProps{
			Name:        n.Name,
			Value:       n.Value,
			Placeholder: n.Placeholder,
			MinLength:   n.MinLength,
			MaxLength:   n.MaxLength,
			Rows:        n.Rows,
			Required:    n.Required,
			Disabled:    n.Disabled,
			Readonly:    n.Readonly,
			Novalidate:  n.Novalidate,
			Modifiers:   modifiers,
			Revalidate:  b.revalidator(n),
		})
	default:
		control = form.NewTextInput(scope, form.TextInputProps{
			Type:        n.Type,
			Name:        n.Name,
			Value:       n.Value,
			Placeholder: n.Placeholder,
			Pattern:     n.Pattern,
			MinLength:   n.MinLength,
			MaxLength:   n.MaxLength,
			Required:    n.Required,
			Disabled:    n.Disabled,
			Readonly:    n.Readonly,
			Novalidate:  n.Novalidate,
			Size:        form.Size(n.Size),
			Modifiers:   modifiers,
			Revalidate:  b.revalidator(n),
			Attrs:       numericAttrs(n),
		})
	}
	b.bound.add(&Control{
		name:     n.Name,
		kind:     n.Kind,
		label:    labelFor(n, f),
		required: f.required || n.Required,
		text:     control,
	})
}

func numericAttrs(n Node) []dom.Attr {
	var attrs []dom.Attr
	for _, pair := range [][2]string{{"min", n.Min}, {"max", n.Max}, {"step", n.Step}} {
		if pair[1] != "" {
			attrs = append(attrs, dom.A(pair[0], pair[1]))
		}
	}
	return attrs
}

func (b *builder) radioGroup(scope form.Scope, n Node, f frame) error {
	g := form.NewRadioGroup(scope, form.RadioGroupProps{
		Name:        n.Name,
		Disabled:    n.Disabled,
		Novalidate:  n.Novalidate,
		Orientation: form.Orientation(n.Orientation),
	})
	c := &Control{
		name:       n.Name,
		kind:       n.Kind,
		label:      labelFor(n, f),
		required:   f.required || n.Required,
		radioGroup: g,
	}
	b.bound.add(c)
	f.owner = c
	f.choice = false
	return b.children(g.Scope(), n.Children, f)
}

func (b *builder) radio(scope form.Scope, n Node, f frame) {
	if f.owner == nil {
		return
	}
	if n.Text != "" && !f.choice {
		wrapper := form.NewChoiceGroup(scope)
		scope = wrapper.Scope()
	}
	r := form.NewRadio(scope, form.RadioProps{
		Value:          n.Value,
		Disabled:       n.Disabled,
		DefaultChecked: n.Checked,
	})
	if n.Text != "" {
		form.NewLabel(scope, form.TextProps{Text: n.Text})
	}
	f.owner.radios = append(f.owner.radios, r)
	f.owner.choices = append(f.owner.choices, n.Value)
}

func (b *builder) checkboxGroup(scope form.Scope, n Node, f frame) error {
	g := form.NewCheckboxGroup(scope, form.CheckboxGroupProps{
		Name:        n.Name,
		Disabled:    n.Disabled,
		Novalidate:  n.Novalidate,
		Minimum:     n.Minimum,
		Maximum:     n.Maximum,
		Orientation: form.Orientation(n.Orientation),
	})
	c := &Control{
		name:          n.Name,
		kind:          n.Kind,
		label:         labelFor(n, f),
		required:      f.required || n.Required || (n.Minimum != nil && *n.Minimum > 0),
		multiple:      true,
		bounds:        validity.Bounds{Minimum: n.Minimum, Maximum: n.Maximum},
		checkboxGroup: g,
	}
	b.bound.add(c)
	f.owner = c
	f.choice = false
	return b.children(g.Scope(), n.Children, f)
}

func (b *builder) checkbox(scope form.Scope, n Node, f frame) {
	if n.Text != "" && !f.choice {
		wrapper := form.NewChoiceGroup(scope)
		scope = wrapper.Scope()
	}
	cb := form.NewCheckbox(scope, form.CheckboxProps{
		Value:          n.Value,
		Name:           n.Name,
		Disabled:       n.Disabled,
		DefaultChecked: n.Checked,
	})
	if n.Text != "" {
		form.NewLabel(scope, form.TextProps{Text: n.Text})
	}
	if f.owner != nil && f.owner.checkboxGroup != nil {
		f.owner.checkboxes = append(f.owner.checkboxes, cb)
		f.owner.choices = append(f.owner.choices, n.Value)
		return
	}
	label := n.Text
	if label == "" {
		label = labelFor(n, f)
	}
	b.bound.add(&Control{
		name:     n.Name,
		kind:     n.Kind,
		label:    label,
		required: f.required || n.Required,
		checkbox: cb,
	})
}

func (b *builder) selectControl(scope form.Scope, n Node, f frame) {
	props := form.SelectProps{
		Name:        n.Name,
		Required:    n.Required,
		Disabled:    n.Disabled,
		Novalidate:  n.Novalidate,
		Size:        form.Size(n.Size),
		Placeholder: n.Placeholder,
		Children:    choices(n.Options),
	}
	if n.Multiple {
		props.Multiple = &validity.Bounds{Minimum: n.Minimum, Maximum: n.Maximum}
	}
	if n.Value != "" {
		props.Value = []string{n.Value}
	}
	c := &Control{
		name:     n.Name,
		kind:     n.Kind,
		label:    labelFor(n, f),
		required: f.required || n.Required,
		multiple: n.Multiple,
		choices:  optionValues(n.Options),
		sel:      form.NewSelect(scope, props),
	}
	if props.Multiple != nil {
		c.bounds = *props.Multiple
	}
	b.bound.add(c)
}

func choices(options []OptionSpec) []form.Choice {
	out := make([]form.Choice, 0, len(options))
	for _, o := range options {
		out = append(out, form.Choice{
			Text:     o.Text,
			Value:    o.Value,
			Label:    o.Label,
			Disabled: o.Disabled,
			Selected: o.Selected,
			Options:  choices(o.Options),
		})
	}
	return out
}

func optionValues(options []OptionSpec) []string {
	var out []string
	for _, o := range options {
		if len(o.Options) > 0 {
			if !o.Disabled {
				out = append(out, optionValues(o.Options)...)
			}
			continue
		}
		if !o.Disabled {
			out = append(out, o.Value)
		}
	}
	return out
}

// ErrUnknownChoice is returned when a value names no choice of a control.
var ErrUnknownChoice = errors.New("definition: unknown choice")
