package form

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/shareid"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// RadioGroupProps configures a RadioGroup.
type RadioGroupProps struct {
	// Name is given to every radio in the group. It defaults to the group id
	// so the radios stay mutually exclusive.
	Name        string
	Disabled    bool
	Novalidate  bool
	Orientation Orientation
}

// RadioGroup passes when any of its radios is checked.
type RadioGroup struct {
	scope          Scope
	id             string
	errorMessageID string
	novalidate     bool
	registry       *validity.Registry
	child          Scope

	mu     sync.Mutex
	el     *dom.Element
	status validity.StatusTracker
}

// NewRadioGroup mounts a radio group under scope.
func NewRadioGroup(scope Scope, props RadioGroupProps) *RadioGroup {
	id := scope.fetchID()
	disabled := scope.disabledOr(props.Disabled)
	el := dom.New("div",
		dom.A("class", "j-form-radio-group"),
		dom.A("tabindex", "-1"),
		dom.A("role", "radiogroup"),
		dom.A("aria-orientation", string(props.Orientation.orDefault())),
	)
	el.SetOptional("id", id)
	el.SetOptional("aria-labelledby", shareid.Masthead(id))
	el.SetAttr("aria-disabled", boolString(disabled))
	el.SetAttr("aria-required", boolString(scope.requiredOr(false)))

	g := &RadioGroup{
		scope:          scope,
		id:             id,
		errorMessageID: shareid.ErrorMessage(id),
		novalidate:     props.Novalidate,
		registry:       validity.NewRegistry(),
		el:             el,
	}

	name := props.Name
	if name == "" {
		name = id
	}
	child := scope
	child.host = el
	child.ids = shareid.Sequence(id, shareid.ProviderRadioGroup)
	child.name = name
	child.disabled = boolRef(disabled)
	child.manager = g.registry
	child.delegate = g.delegate
	g.child = child

	scope.attach(el)
	scope.register(g, id)
	return g
}

// Scope returns the scope radios and labels of the group mount under.
func (g *RadioGroup) Scope() Scope {
	return g.child
}

// Element returns the group element.
func (g *RadioGroup) Element() *dom.Element {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.el
}

// ID returns the share id of the group.
func (g *RadioGroup) ID() string {
	return g.id
}

// Status returns the current validation status.
func (g *RadioGroup) Status() validity.Status {
	return g.status.Current()
}

func (g *RadioGroup) delegate(ctx context.Context) {
	if _, err := g.CheckValidity(ctx); err != nil {
		g.scope.Logger().Debug("form: delegated validation failed", "component", "radio-group", "id", g.id, "error", err)
	}
}

// CheckValidity passes on the first radio that passes, in registration
// order. A radio that cannot be checked aborts the group with an exception.
func (g *RadioGroup) CheckValidity(ctx context.Context) (result validity.Result, err error) {
	started := time.Now()
	defer func() { g.scope.observeValidation("radio-group", result, started) }()

	if g.scope.novalidateOr(g.novalidate) {
		return g.settle(validity.ResultDisabled), nil
	}

	reporter := g.scope.report()
	reporter.Start()
	for _, entry := range g.registry.Entries() {
		childResult, childErr := entry.Action.CheckValidity(ctx)
		if childErr != nil {
			g.scope.Logger().Warn("form: radio validation failed", "group", g.id, "radio", entry.ID, "error", childErr)
			reporter.Excepted()
			return g.settle(validity.ResultException), &validity.GroupError{Group: "radio group", ID: g.id, Err: childErr}
		}
		if childResult == validity.ResultSucceed {
			reporter.Passed()
			return g.settle(validity.ResultSucceed), nil
		}
	}

	reporter.Failed(validity.ValueMissing)
	return g.settle(validity.ResultErrored), nil
}

func (g *RadioGroup) settle(result validity.Result) validity.Result {
	status := g.status.Infer(result)
	applyAria(g.Element(), status, g.errorMessageID)
	return result
}

// Focus focuses the group container after the next tick.
func (g *RadioGroup) Focus(ctx context.Context) error {
	if err := g.scope.Ticker().NextTick(ctx); err != nil {
		return err
	}
	el := g.Element()
	if el == nil {
		return validity.ErrNotMounted
	}
	return el.Focus()
}

func (g *RadioGroup) IsSuitableFocus() bool {
	return true
}

// Dispose unregisters the group and removes its element with the radios.
func (g *RadioGroup) Dispose() {
	g.scope.deregister(g.id)
	g.registry.Dispose()
	g.mu.Lock()
	el := g.el
	g.el = nil
	g.mu.Unlock()
	el.Detach()
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
