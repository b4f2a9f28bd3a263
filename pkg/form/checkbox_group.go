package form

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/shareid"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// CheckboxGroupProps configures a CheckboxGroup. Nil limits are unbounded.
type CheckboxGroupProps struct {
	Name        string
	Disabled    bool
	Novalidate  bool
	Minimum     *int
	Maximum     *int
	Orientation Orientation
}

// CheckboxGroup passes when the number of checked boxes is within range.
type CheckboxGroup struct {
	scope          Scope
	id             string
	errorMessageID string
	novalidate     bool
	bounds         validity.Bounds
	registry       *validity.Registry
	child          Scope

	mu     sync.Mutex
	el     *dom.Element
	status *validity.StatusTracker
}

// NewCheckboxGroup mounts a checkbox group under scope.
func NewCheckboxGroup(scope Scope, props CheckboxGroupProps) *CheckboxGroup {
	id := scope.fetchID()
	disabled := scope.disabledOr(props.Disabled)
	el := dom.New("div",
		dom.A("class", "j-form-checkbox-group orientation-"+string(props.Orientation.orDefault())),
		dom.A("tabindex", "-1"),
		dom.A("role", "group"),
	)
	el.SetOptional("id", id)
	el.SetAttr("aria-disabled", boolString(disabled))

	g := &CheckboxGroup{
		scope:          scope,
		id:             id,
		errorMessageID: shareid.ErrorMessage(id),
		novalidate:     props.Novalidate,
		bounds:         validity.Bounds{Minimum: props.Minimum, Maximum: props.Maximum},
		registry:       validity.NewRegistry(),
		el:             el,
		status:         &validity.StatusTracker{},
	}

	child := scope
	child.host = el
	child.ids = shareid.Sequence(id, shareid.ProviderCheckboxGroup)
	child.name = props.Name
	child.disabled = boolRef(disabled)
	child.manager = g.registry
	child.delegate = g.delegate
	child.groupStatus = g.status
	child.errorMessageID = g.errorMessageID
	g.child = child

	scope.attach(el)
	scope.register(g, id)
	return g
}

// Scope returns the scope checkboxes and labels of the group mount under.
func (g *CheckboxGroup) Scope() Scope {
	return g.child
}

// Element returns the group element.
func (g *CheckboxGroup) Element() *dom.Element {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.el
}

// ID returns the share id of the group.
func (g *CheckboxGroup) ID() string {
	return g.id
}

// Status returns the current validation status.
func (g *CheckboxGroup) Status() validity.Status {
	return g.status.Current()
}

func (g *CheckboxGroup) delegate(ctx context.Context) {
	if _, err := g.CheckValidity(ctx); err != nil {
		g.scope.Logger().Debug("form: delegated validation failed", "component", "checkbox-group", "id", g.id, "error", err)
	}
}

// CheckValidity counts the checked boxes and applies the range.
func (g *CheckboxGroup) CheckValidity(ctx context.Context) (result validity.Result, err error) {
	started := time.Now()
	defer func() { g.scope.observeValidation("checkbox-group", result, started) }()

	if g.scope.novalidateOr(g.novalidate) {
		return g.settle(validity.ResultDisabled), nil
	}

	reporter := g.scope.report()
	reporter.Start()
	count := 0
	for _, entry := range g.registry.Entries() {
		childResult, childErr := entry.Action.CheckValidity(ctx)
		if childErr != nil {
			g.scope.Logger().Warn("form: checkbox validation failed", "group", g.id, "checkbox", entry.ID, "error", childErr)
			reporter.Excepted()
			return g.settle(validity.ResultException), &validity.GroupError{Group: "checkbox group", ID: g.id, Err: childErr}
		}
		if childResult == validity.ResultSucceed {
			count++
		}
	}

	result, violation := g.bounds.Check(count)
	if result == validity.ResultSucceed {
		reporter.Passed()
	} else {
		reporter.Failed(violation)
	}
	return g.settle(result), nil
}

func (g *CheckboxGroup) settle(result validity.Result) validity.Result {
	status := g.status.Infer(result)
	applyAria(g.Element(), status, g.errorMessageID)
	return result
}

// Focus focuses the group container after the next tick.
func (g *CheckboxGroup) Focus(ctx context.Context) error {
	if err := g.scope.Ticker().NextTick(ctx); err != nil {
		return err
	}
	el := g.Element()
	if el == nil {
		return validity.ErrNotMounted
	}
	return el.Focus()
}

func (g *CheckboxGroup) IsSuitableFocus() bool {
	return true
}

// Dispose unregisters the group and removes its element with the boxes.
func (g *CheckboxGroup) Dispose() {
	g.scope.deregister(g.id)
	g.registry.Dispose()
	g.mu.Lock()
	el := g.el
	g.el = nil
	g.mu.Unlock()
	el.Detach()
}
