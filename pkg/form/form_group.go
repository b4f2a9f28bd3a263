package form

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/shareid"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// Feedback is handed to invalid feedback projections.
type Feedback struct {
	violations validity.ViolationSet
}

// Contain reports whether the last failed check reported v.
func (f Feedback) Contain(v validity.Violation) bool {
	return f.violations.Contain(v)
}

// ContainAny reports whether the last failed check reported any of vs.
func (f Feedback) ContainAny(vs ...validity.Violation) bool {
	return f.violations.ContainAny(vs...)
}

// Violations returns the reported violations in order.
func (f Feedback) Violations() []validity.Violation {
	return f.violations.Slice()
}

// FormGroupProps configures a FormGroup. Feedback projections return HTML
// that is sanitised before it is inserted; a nil projection renders nothing.
type FormGroupProps struct {
	Required        bool
	Novalidate      bool
	Size            Size
	ValidFeedback   func() string
	InvalidFeedback func(Feedback) string
	ExceptFeedback  func() string
}

// FormGroup wraps one logical field. It passes when every descendant check
// passes and shows feedback for the first failure.
type FormGroup struct {
	scope          Scope
	id             string
	errorMessageID string
	props          FormGroupProps
	registry       *validity.Registry
	child          Scope

	// renderMu serializes feedback swaps.
	renderMu         sync.Mutex
	mu               sync.Mutex
	el               *dom.Element
	feedback         *dom.Element
	violations       validity.ViolationSet
	fallbackTabindex bool
	status           validity.StatusTracker
}

// NewFormGroup mounts a form group under scope.
func NewFormGroup(scope Scope, props FormGroupProps) *FormGroup {
	id := shareid.Generate()
	el := dom.New("div", dom.A("class", "j-form-group"))
	el.ToggleClass("required", props.Required)

	g := &FormGroup{
		scope:          scope,
		id:             id,
		errorMessageID: shareid.ErrorMessage(id),
		props:          props,
		registry:       validity.NewRegistry(),
		el:             el,
	}

	child := scope
	child.host = el
	child.ids = shareid.Fixed(id, shareid.ProviderFormGroup)
	child.novalidate = boolRef(scope.novalidateOr(props.Novalidate))
	child.required = boolRef(props.Required)
	child.size = scope.sizeOr(props.Size)
	child.manager = g.registry
	child.reporter = groupReporter{g}
	child.delegate = nil
	child.groupStatus = nil
	child.errorMessageID = ""
	g.child = child

	scope.attach(el)
	scope.register(g, id)
	return g
}

// Scope returns the scope the field components mount under.
func (g *FormGroup) Scope() Scope {
	return g.child
}

// Element returns the group element.
func (g *FormGroup) Element() *dom.Element {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.el
}

// ID returns the share id of the group, which its control also uses.
func (g *FormGroup) ID() string {
	return g.id
}

// Status returns the current validation status.
func (g *FormGroup) Status() validity.Status {
	return g.status.Current()
}

// Feedback returns the violations of the last failed check.
func (g *FormGroup) Feedback() Feedback {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Feedback{violations: validity.NewViolationSet(g.violations.Slice()...)}
}

// Actions returns the registered descendant actions in order.
func (g *FormGroup) Actions() []validity.Entry {
	return g.registry.Entries()
}

// CheckValidity runs every descendant check in registration order and stops
// at the first failure.
func (g *FormGroup) CheckValidity(ctx context.Context) (result validity.Result, err error) {
	started := time.Now()
	defer func() { g.scope.observeValidation("form-group", result, started) }()

	if g.scope.novalidateOr(g.props.Novalidate) {
		g.status.Infer(validity.ResultDisabled)
		g.render()
		return validity.ResultDisabled, nil
	}

	g.start()
	for _, entry := range g.registry.Entries() {
		childResult, childErr := entry.Action.CheckValidity(ctx)
		if childErr != nil {
			g.scope.Logger().Warn("form: group validation exception", "group", g.id, "action", entry.ID, "error", childErr)
			return g.settle(validity.ResultException), nil
		}
		switch childResult {
		case validity.ResultErrored, validity.ResultException:
			return g.settle(childResult), nil
		}
	}
	g.passed()
	return validity.ResultSucceed, nil
}

func (g *FormGroup) settle(result validity.Result) validity.Result {
	g.status.Infer(result)
	g.render()
	return result
}

func (g *FormGroup) start() {
	g.mu.Lock()
	g.violations.Clear()
	g.mu.Unlock()
	g.status.Force(validity.StatusValidationStarted)
	g.render()
}

func (g *FormGroup) passed() {
	g.mu.Lock()
	g.violations.Clear()
	g.mu.Unlock()
	g.status.Infer(validity.ResultSucceed)
	g.render()
}

func (g *FormGroup) excepted() {
	g.mu.Lock()
	g.violations.Clear()
	g.mu.Unlock()
	g.status.Infer(validity.ResultException)
	g.render()
}

func (g *FormGroup) failed(violations ...validity.Violation) {
	g.mu.Lock()
	g.violations.Clear()
	g.violations.Add(violations...)
	g.mu.Unlock()
	g.status.Infer(validity.ResultErrored)
	g.render()
}

// groupReporter keeps the Reporter methods off the public FormGroup API.
type groupReporter struct{ g *FormGroup }

func (r groupReporter) Start()                          { r.g.start() }
func (r groupReporter) Passed()                         { r.g.passed() }
func (r groupReporter) Failed(vs ...validity.Violation) { r.g.failed(vs...) }
func (r groupReporter) Excepted()                       { r.g.excepted() }

// Focus moves focus to the first descendant that accepts it, falling back
// to the group element itself.
func (g *FormGroup) Focus(ctx context.Context) error {
	for _, entry := range g.registry.Entries() {
		if !entry.Action.IsSuitableFocus() {
			continue
		}
		if err := entry.Action.Focus(ctx); err == nil {
			g.clearFallbackTabindex()
			return nil
		}
	}

	g.mu.Lock()
	el := g.el
	if el != nil && !el.HasAttr("tabindex") {
		el.SetAttr("tabindex", "-1")
		g.fallbackTabindex = true
	}
	g.mu.Unlock()
	if el == nil {
		return validity.ErrNotMounted
	}
	if err := g.scope.Ticker().NextTick(ctx); err != nil {
		return err
	}
	return el.Focus()
}

func (g *FormGroup) clearFallbackTabindex() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fallbackTabindex && g.el != nil {
		g.el.RemoveAttr("tabindex")
	}
	g.fallbackTabindex = false
}

func (g *FormGroup) IsSuitableFocus() bool {
	return true
}

func (g *FormGroup) render() {
	g.renderMu.Lock()
	defer g.renderMu.Unlock()
	status := g.status.Current()

	g.mu.Lock()
	el := g.el
	old := g.feedback
	g.feedback = nil
	violations := validity.NewViolationSet(g.violations.Slice()...)
	g.mu.Unlock()
	if el == nil {
		return
	}

	el.ToggleClass("is-valid", status == validity.StatusValidationSucceed)
	el.ToggleClass("is-invalid", status == validity.StatusValidationErrored)
	el.ToggleClass("is-except", status == validity.StatusValidationException)
	el.ToggleClass("is-validating", status == validity.StatusValidationStarted)
	if status == validity.StatusValidationStarted {
		el.SetAttr("aria-busy", "true")
	} else {
		el.RemoveAttr("aria-busy")
	}
	old.Detach()

	var feedback *dom.Element
	switch status {
	case validity.StatusValidationSucceed:
		if g.props.ValidFeedback != nil {
			feedback = dom.New("div", dom.A("class", "valid-feedback"))
			feedback.Append(dom.HTML(g.props.ValidFeedback()))
		}
	case validity.StatusValidationErrored:
		if g.props.InvalidFeedback != nil {
			feedback = dom.New("div",
				dom.A("id", g.errorMessageID),
				dom.A("class", "invalid-feedback"),
				dom.A("aria-live", "assertive"),
			)
			feedback.Append(dom.HTML(g.props.InvalidFeedback(Feedback{violations: violations})))
		}
	case validity.StatusValidationException:
		if g.props.ExceptFeedback != nil {
			feedback = dom.New("div",
				dom.A("id", g.errorMessageID),
				dom.A("class", "except-feedback"),
				dom.A("aria-live", "assertive"),
			)
			feedback.Append(dom.HTML(g.props.ExceptFeedback()))
		}
	}
	if feedback == nil {
		return
	}
	el.Append(feedback)
	g.mu.Lock()
	g.feedback = feedback
	g.mu.Unlock()
}

// Dispose unregisters the group and removes its element.
func (g *FormGroup) Dispose() {
	g.scope.deregister(g.id)
	g.registry.Dispose()
	g.mu.Lock()
	el := g.el
	g.el = nil
	g.mu.Unlock()
	el.Detach()
}
