package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// FormProps configures a Form.
type FormProps struct {
	// Novalidate skips every check on submit. It is inherited by the whole
	// tree and is unrelated to the native attribute, which is always set.
	Novalidate bool
	// OnSubmit runs when the submit passes.
	OnSubmit func(ctx context.Context)
	Attrs    []dom.Attr
}

// SubmitResult describes one submit.
type SubmitResult struct {
	Passed bool
	// Results holds the outcome of every top-level action by id.
	Results map[string]validity.Result
	// Err combines the errors and recovered panics of the actions.
	Err error
	// Focused is the id of the action that received focus after a failure.
	Focused string
}

// Form coordinates the top-level actions of a tree on submit.
type Form struct {
	scope      Scope
	novalidate bool
	onSubmit   func(ctx context.Context)
	registry   *validity.Registry
	child      Scope

	mu sync.Mutex
	el *dom.Element
}

// NewForm mounts a form under scope.
func NewForm(scope Scope, props FormProps) *Form {
	el := dom.New("form", dom.A("class", "j-form"), dom.Bool("novalidate"))
	applyAttrs(el, props.Attrs)
	el.SetBool("novalidate", true)

	f := &Form{
		scope:      scope,
		novalidate: props.Novalidate,
		onSubmit:   props.OnSubmit,
		registry:   validity.NewRegistry(),
		el:         el,
	}

	child := scope
	child.host = el
	child.ids = nil
	child.novalidate = boolRef(props.Novalidate)
	child.manager = f.registry
	child.reporter = nil
	child.delegate = nil
	child.groupStatus = nil
	child.errorMessageID = ""
	f.child = child

	scope.attach(el)
	return f
}

// Scope returns the scope components of the form mount under.
func (f *Form) Scope() Scope {
	return f.child
}

// Element returns the form element.
func (f *Form) Element() *dom.Element {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.el
}

// Actions returns the registered top-level actions in order.
func (f *Form) Actions() []validity.Entry {
	return f.registry.Entries()
}

// Submit validates every top-level action concurrently, waits for all of
// them, and either runs OnSubmit or focuses the first invalid control in
// document order.
func (f *Form) Submit(ctx context.Context) SubmitResult {
	started := time.Now()
	result := SubmitResult{Results: map[string]validity.Result{}}
	defer func() { f.scope.observeSubmit(result.Passed, started) }()

	if f.novalidate {
		result.Passed = true
		f.emit(ctx)
		return result
	}

	entries := f.registry.Entries()
	outcomes := make([]validity.Result, len(entries))
	errs := make([]error, len(entries))

	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry validity.Entry) {
			defer wg.Done()
			defer func() {
				if recovered := recover(); recovered != nil {
					outcomes[i] = validity.ResultException
					errs[i] = fmt.Errorf("form: action %q panicked: %v", entry.ID, recovered)
				}
			}()
			outcomes[i], errs[i] = entry.Action.CheckValidity(ctx)
		}(i, entry)
	}
	wg.Wait()

	result.Passed = true
	for i, entry := range entries {
		result.Results[entry.ID] = outcomes[i]
		if errs[i] != nil {
			result.Err = multierr.Append(result.Err, errs[i])
			result.Passed = false
			continue
		}
		switch outcomes[i] {
		case validity.ResultErrored, validity.ResultException:
			result.Passed = false
		}
	}

	if result.Passed {
		f.emit(ctx)
		return result
	}

	if result.Err != nil {
		f.scope.Logger().Warn("form: submit validation failed", "error", result.Err)
	}
	focused, err := f.focusInvalid(ctx)
	if err != nil {
		f.scope.Logger().Debug("form: no invalid control took focus", "error", err)
	}
	result.Focused = focused
	return result
}

func (f *Form) emit(ctx context.Context) {
	if f.onSubmit != nil {
		f.onSubmit(ctx)
	}
}

// focusInvalid walks the invalid elements in document order and focuses the
// first registered action that accepts it.
func (f *Form) focusInvalid(ctx context.Context) (string, error) {
	el := f.Element()
	if el == nil {
		return "", validity.ErrNotMounted
	}

	seen := map[string]struct{}{}
	var lastErr error
	for _, candidate := range el.QueryAll(dom.AttrEquals("aria-invalid", "true")) {
		if !focusable(candidate) {
			continue
		}
		id := candidate.ID()
		if id == "" {
			id = candidate.GetAttr("data-id")
		}
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		action, ok := f.registry.Get(id)
		if !ok || !action.IsSuitableFocus() {
			continue
		}
		if err := action.Focus(ctx); err != nil {
			lastErr = err
			continue
		}
		return id, nil
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", validity.ErrNoFocusTarget
}

func focusable(el *dom.Element) bool {
	if el.Hidden() {
		return false
	}
	switch el.Tag() {
	case "input", "textarea", "select":
		return !(el.HasAttr("readonly") ||
			el.GetAttr("aria-readonly") == "true" ||
			el.Disabled() ||
			el.GetAttr("aria-disabled") == "true" ||
			(el.Tag() == "input" && el.InputType() == "hidden"))
	}
	role := el.GetAttr("role")
	return role == "group" || role == "radiogroup"
}

// Dispose tears the registry down and removes the form element.
func (f *Form) Dispose() {
	f.registry.Dispose()
	f.mu.Lock()
	el := f.el
	f.el = nil
	f.mu.Unlock()
	el.Detach()
}
