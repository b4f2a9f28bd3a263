package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/schedule"
	"github.com/goliatone/go-formguard/pkg/shareid"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// Revalidator runs after the native constraints pass. Returning false or an
// error marks the control invalid with validity.RevalidateInvalid.
type Revalidator func(ctx context.Context, value string) (bool, error)

// Modifiers adjust how typed text reaches the model.
type Modifiers struct {
	// Lazy emits on change only instead of on every input.
	Lazy bool
	// Trim strips surrounding whitespace from emitted text.
	Trim bool
}

// literal is the pipeline shared by the text controls.
type literal struct {
	kind           string
	scope          Scope
	id             string
	errorMessageID string

	mu         sync.Mutex
	el         *dom.Element
	buffer     string
	composing  bool
	novalidate bool
	modifiers  Modifiers
	onChange   func(string)
	revalidate Revalidator

	status   validity.StatusTracker
	debounce *schedule.Debouncer
}

func newLiteral(kind string, scope Scope, novalidate bool, modifiers Modifiers, onChange func(string), revalidate Revalidator) *literal {
	id := scope.fetchID()
	return &literal{
		kind:           kind,
		scope:          scope,
		id:             id,
		errorMessageID: shareid.ErrorMessage(id),
		novalidate:     novalidate,
		modifiers:      modifiers,
		onChange:       onChange,
		revalidate:     revalidate,
		debounce:       schedule.NewDebouncer(scope.environment().debounce),
	}
}

func (l *literal) bind(el *dom.Element, initial string) {
	l.mu.Lock()
	l.el = el
	l.buffer = initial
	l.mu.Unlock()
	el.SetValue(initial)
}

func (l *literal) element() *dom.Element {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.el
}

// CheckValidity runs the pipeline and settles the status. Failures to run
// become ResultException here and never escape as errors.
func (l *literal) CheckValidity(ctx context.Context) (result validity.Result, err error) {
	started := time.Now()
	defer func() {
		if recovered := recover(); recovered != nil {
			l.scope.Logger().Warn("form: validation panicked",
				"component", l.kind, "id", l.id, "panic", fmt.Sprint(recovered))
			l.scope.report().Excepted()
			result, err = l.settle(validity.ResultException), nil
		}
		l.scope.observeValidation(l.kind, result, started)
	}()

	result, err = l.check(ctx)
	switch {
	case errors.Is(err, validity.ErrComposing):
		return validity.ResultUnvalidated, nil
	case err != nil:
		l.scope.Logger().Warn("form: validation exception",
			"component", l.kind, "id", l.id, "error", err)
		l.scope.report().Excepted()
		return l.settle(validity.ResultException), nil
	}
	l.scope.Logger().Debug("form: validation finished",
		"component", l.kind, "id", l.id, "result", result.String())
	return l.settle(result), nil
}

func (l *literal) settle(result validity.Result) validity.Result {
	status := l.status.Infer(result)
	applyAria(l.element(), status, l.errorMessageID)
	return result
}

func (l *literal) check(ctx context.Context) (validity.Result, error) {
	l.mu.Lock()
	el, composing, hook := l.el, l.composing, l.revalidate
	novalidate := l.scope.novalidateOr(l.novalidate)
	l.mu.Unlock()

	if novalidate {
		return validity.ResultDisabled, nil
	}
	if composing {
		return validity.ResultUnvalidated, validity.ErrComposing
	}
	if el == nil {
		return validity.ResultException, validity.ErrNotMounted
	}
	if !el.WillValidate() {
		return validity.ResultUnrequired, nil
	}
	if el.Validity().CustomError {
		el.SetCustomValidity("")
	}

	reporter := l.scope.report()
	reporter.Start()
	if !el.CheckValidity() {
		reporter.Failed(el.Validity().Violations()...)
		return validity.ResultErrored, nil
	}
	if hook == nil {
		reporter.Passed()
		return validity.ResultSucceed, nil
	}

	placeholders := l.scope.environment().placeholders
	el.SetCustomValidity(placeholders.Validating)
	ok, err := hook(ctx, el.Value())
	if err != nil || !ok {
		if err != nil {
			l.scope.Logger().Debug("form: revalidate rejected",
				"component", l.kind, "id", l.id, "error", err)
		}
		el.SetCustomValidity(placeholders.Failed)
		reporter.Failed(validity.RevalidateInvalid)
		return validity.ResultErrored, nil
	}
	el.SetCustomValidity("")
	reporter.Passed()
	return validity.ResultSucceed, nil
}

func (l *literal) Focus(ctx context.Context) error {
	if err := l.scope.Ticker().NextTick(ctx); err != nil {
		return err
	}
	el := l.element()
	if el == nil {
		return validity.ErrNotMounted
	}
	return el.Focus()
}

func (l *literal) IsSuitableFocus() bool {
	return true
}

// Status returns the current validation status.
func (l *literal) Status() validity.Status {
	return l.status.Current()
}

// ID returns the share id of the control.
func (l *literal) ID() string {
	return l.id
}

// Value returns the buffered text.
func (l *literal) Value() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buffer
}

// SetModelValue pushes an external model value into the control. Values
// equal to the buffer, or to the trimmed buffer, are ignored so in-progress
// whitespace survives a trimmed model round trip.
func (l *literal) SetModelValue(value string) {
	l.mu.Lock()
	if l.el == nil || value == l.buffer || strings.TrimSpace(l.buffer) == value {
		l.mu.Unlock()
		return
	}
	l.buffer = value
	el := l.el
	l.mu.Unlock()
	el.SetValue(value)
}

// Input simulates an input event carrying the new control text.
func (l *literal) Input(value string) {
	l.sync(value, false)
}

// Change simulates a change event carrying the committed control text.
func (l *literal) Change(value string) {
	l.sync(value, true)
}

func (l *literal) sync(value string, committed bool) {
	l.mu.Lock()
	el := l.el
	if el == nil {
		l.mu.Unlock()
		return
	}
	el.SetValue(value)

	var emit func(string)
	emitText := value
	if !l.composing {
		l.buffer = value
		if l.modifiers.Trim {
			emitText = strings.TrimSpace(value)
		}
		if committed {
			l.buffer = emitText
			el.SetValue(emitText)
			emit = l.onChange
		} else if !l.modifiers.Lazy {
			emit = l.onChange
		}
	}
	l.mu.Unlock()

	if emit != nil {
		emit(emitText)
	}
	l.arm()
}

// CompositionStart marks the start of an input method composition.
func (l *literal) CompositionStart() {
	l.mu.Lock()
	l.composing = true
	l.mu.Unlock()
}

// CompositionEnd ends the composition and replays the final text as input.
func (l *literal) CompositionEnd(value string) {
	l.mu.Lock()
	l.composing = false
	l.mu.Unlock()
	l.Input(value)
}

// Composing reports whether a composition is in progress.
func (l *literal) Composing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.composing
}

func (l *literal) arm() {
	l.debounce.Trigger(func() {
		if l.Composing() {
			return
		}
		_, _ = l.CheckValidity(context.Background())
	})
}

// Pending reports whether a debounced validation is armed.
func (l *literal) Pending() bool {
	return l.debounce.Pending()
}

func (l *literal) dispose(mounted *dom.Element) {
	l.debounce.Stop()
	l.scope.deregister(l.id)
	l.mu.Lock()
	l.el = nil
	l.mu.Unlock()
	if mounted != nil {
		mounted.Detach()
	}
}
