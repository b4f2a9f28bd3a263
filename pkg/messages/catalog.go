package messages

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/validity"
)

const subject = `{{ label|default:"This field" }}`

var defaultTemplates = map[validity.Violation]string{
	validity.ValueMissing:      subject + ` is required.`,
	validity.TypeMismatch:      subject + ` is not in the expected format.`,
	validity.PatternMismatch:   subject + ` does not match the expected pattern{% if pattern %} {{ pattern }}{% endif %}.`,
	validity.TooLong:           subject + ` must be at most {{ maxlength }} characters.`,
	validity.TooShort:          subject + ` must be at least {{ minlength }} characters.`,
	validity.RangeUnderflow:    subject + ` must be at least {{ minimum }}.`,
	validity.RangeOverflow:     subject + ` must be at most {{ maximum }}.`,
	validity.StepMismatch:      subject + ` is not a valid step.`,
	validity.BadInput:          subject + ` is not a valid value.`,
	validity.RevalidateInvalid: subject + ` was rejected.`,
}

// Params are the variables a message template can reference.
type Params struct {
	Label     string
	Minimum   *int
	Maximum   *int
	MinLength *int
	MaxLength *int
	Pattern   string
}

func (p Params) context(v validity.Violation) pongo2.Context {
	ctx := pongo2.Context{
		"label":     p.Label,
		"violation": string(v),
		"pattern":   p.Pattern,
	}
	set := func(key string, value *int) {
		if value != nil {
			ctx[key] = *value
		}
	}
	set("minimum", p.Minimum)
	set("maximum", p.Maximum)
	set("minlength", p.MinLength)
	set("maxlength", p.MaxLength)
	return ctx
}

// Option configures a Catalog.
type Option func(*Catalog) error

// WithTemplates overrides individual violation templates.
func WithTemplates(templates map[validity.Violation]string) Option {
	return func(c *Catalog) error {
		return c.Override(templates)
	}
}

// Catalog renders violation messages from pongo2 templates. It is safe for
// concurrent use.
type Catalog struct {
	mu        sync.RWMutex
	templates map[validity.Violation]*pongo2.Template
}

// New returns a catalog holding the English defaults and the given options.
func New(opts ...Option) (*Catalog, error) {
	c := &Catalog{templates: make(map[validity.Violation]*pongo2.Template, len(defaultTemplates))}
	if err := c.Override(defaultTemplates); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Clone returns an independent copy that can be overridden without
// affecting c.
func (c *Catalog) Clone() *Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := &Catalog{templates: make(map[validity.Violation]*pongo2.Template, len(c.templates))}
	for violation, tpl := range c.templates {
		out.templates[violation] = tpl
	}
	return out
}

// Override compiles and replaces the given templates. Nothing is replaced
// when any template fails to compile.
func (c *Catalog) Override(templates map[validity.Violation]string) error {
	if c == nil {
		return errors.New("messages: catalog is nil")
	}
	compiled := make(map[validity.Violation]*pongo2.Template, len(templates))
	for violation, source := range templates {
		tpl, err := pongo2.FromString(source)
		if err != nil {
			return fmt.Errorf("messages: compile %s: %w", violation, err)
		}
		compiled[violation] = tpl
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for violation, tpl := range compiled {
		c.templates[violation] = tpl
	}
	return nil
}

// LoadYAML reads a mapping of violation names to templates, for example
//
//	VALUE_MISSING: "Please fill in {{ label }}."
func (c *Catalog) LoadYAML(data []byte) error {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("messages: decode yaml: %w", err)
	}
	templates := make(map[validity.Violation]string, len(raw))
	for name, source := range raw {
		violation, err := validity.ParseViolation(name)
		if err != nil {
			return fmt.Errorf("messages: %w", err)
		}
		templates[violation] = source
	}
	return c.Override(templates)
}

// Render renders the message for one violation.
func (c *Catalog) Render(v validity.Violation, params Params) (string, error) {
	if c == nil {
		return "", errors.New("messages: catalog is nil")
	}
	c.mu.RLock()
	tpl, ok := c.templates[v]
	c.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("messages: no template for %q", v)
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteWriter(params.context(v), &buf); err != nil {
		return "", fmt.Errorf("messages: render %s: %w", v, err)
	}
	return html.UnescapeString(strings.TrimSpace(buf.String())), nil
}

// RenderAll renders one message per violation, in order. Violations whose
// template fails fall back to their name.
func (c *Catalog) RenderAll(violations []validity.Violation, params Params) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		msg, err := c.Render(v, params)
		if err != nil || msg == "" {
			msg = string(v)
		}
		out = append(out, msg)
	}
	return out
}

// InvalidFeedback returns a FormGroup feedback projection listing a message
// for every current violation.
func (c *Catalog) InvalidFeedback(params Params) func(form.Feedback) string {
	return func(fb form.Feedback) string {
		messages := c.RenderAll(fb.Violations(), params)
		if len(messages) == 0 {
			return ""
		}
		var b strings.Builder
		b.WriteString(`<ul class="violations">`)
		for _, msg := range messages {
			b.WriteString("<li>")
			b.WriteString(html.EscapeString(msg))
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
		return dom.SanitizeHTML(b.String())
	}
}
