package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formguard/pkg/definition"
	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/messages"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// Filler asks for every control of a bound form.
type Filler struct {
	driver    Driver
	maxRounds int
}

// Option configures a Filler.
type Option func(*Filler)

// WithMaxRounds stops after n submits. Zero keeps asking until the form
// passes or the driver aborts.
func WithMaxRounds(n int) Option {
	return func(f *Filler) {
		if n >= 0 {
			f.maxRounds = n
		}
	}
}

// NewFiller returns a Filler using driver.
func NewFiller(driver Driver, opts ...Option) *Filler {
	f := &Filler{driver: driver}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fill prompts for every control, submits, and prompts again for the
// controls that failed. It returns the last submit result.
func (f *Filler) Fill(ctx context.Context, bound *definition.Bound) (form.SubmitResult, error) {
	pending := bound.Controls()
	for round := 1; ; round++ {
		for _, c := range pending {
			if err := f.ask(ctx, bound, c); err != nil {
				return form.SubmitResult{}, err
			}
		}

		result := bound.Submit(ctx)
		if result.Passed {
			return result, nil
		}
		pending = failed(bound)
		if err := f.explain(ctx, bound, pending); err != nil {
			return result, err
		}
		if len(pending) == 0 || (f.maxRounds > 0 && round >= f.maxRounds) {
			return result, ErrGaveUp
		}
	}
}

func failed(bound *definition.Bound) []*definition.Control {
	var out []*definition.Control
	for _, c := range bound.Controls() {
		switch c.Status() {
		case validity.StatusValidationErrored, validity.StatusValidationException:
			out = append(out, c)
		}
	}
	return out
}

func messagesFor(bound *definition.Bound, c *definition.Control) []string {
	violations := c.Violations()
	if len(violations) == 0 || bound.Catalog() == nil {
		return nil
	}
	return bound.Catalog().RenderAll(violations, messages.Params{Label: c.Label()})
}

func (f *Filler) explain(ctx context.Context, bound *definition.Bound, controls []*definition.Control) error {
	for _, c := range controls {
		msgs := messagesFor(bound, c)
		if len(msgs) == 0 {
			msgs = []string{"could not be validated"}
		}
		if err := f.driver.Info(ctx, fmt.Sprintf("%s: %s", c.Label(), strings.Join(msgs, " "))); err != nil {
			return err
		}
	}
	return nil
}

func (f *Filler) ask(ctx context.Context, bound *definition.Bound, c *definition.Control) error {
	message := c.Label()
	if c.Required() {
		message += " *"
	}
	help := strings.Join(messagesFor(bound, c), " ")
	current := c.Value()
	first := ""
	if len(current) > 0 {
		first = current[0]
	}

	var values []string
	switch kind := c.Kind(); {
	case kind == definition.KindPassword:
		v, err := f.driver.Password(ctx, InputConfig{Message: message, Help: help})
		if err != nil {
			return err
		}
		values = []string{v}
	case kind == definition.KindTextarea:
		v, err := f.driver.TextArea(ctx, InputConfig{Message: message, Default: first, Help: help})
		if err != nil {
			return err
		}
		values = []string{v}
	case kind.Literal():
		v, err := f.driver.Input(ctx, InputConfig{Message: message, Default: first, Help: help})
		if err != nil {
			return err
		}
		values = []string{v}
	case kind == definition.KindCheckbox:
		v, err := f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: first == "true", Help: help})
		if err != nil {
			return err
		}
		values = []string{fmt.Sprint(v)}
	case c.Multiple():
		picked, err := f.driver.MultiSelect(ctx, ChoiceConfig{Message: message, Options: c.Choices(), Selected: current, Help: help})
		if err != nil {
			return err
		}
		values = picked
	default:
		picked, err := f.driver.Select(ctx, ChoiceConfig{Message: message, Options: c.Choices(), Selected: current, Help: help})
		if err != nil {
			return err
		}
		values = []string{picked}
	}
	return c.Apply(ctx, values...)
}
