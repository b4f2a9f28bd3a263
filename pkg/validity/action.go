package validity

import "context"

// Action is the validation handle a component registers with its nearest
// collecting ancestor.
type Action interface {
	// CheckValidity runs the component's checks. A returned error means the
	// check could not complete and the caller should treat it as an exception.
	CheckValidity(ctx context.Context) (Result, error)
	// Focus moves focus to the component.
	Focus(ctx context.Context) error
	// IsSuitableFocus reports whether Focus is meaningful for the component.
	IsSuitableFocus() bool
}

// ActionFuncs adapts plain functions to Action. Nil fields behave like an
// unsuitable, always disabled action.
type ActionFuncs struct {
	Check    func(ctx context.Context) (Result, error)
	FocusFn  func(ctx context.Context) error
	Suitable func() bool
}

var _ Action = ActionFuncs{}

func (a ActionFuncs) CheckValidity(ctx context.Context) (Result, error) {
	if a.Check == nil {
		return ResultDisabled, nil
	}
	return a.Check(ctx)
}

func (a ActionFuncs) Focus(ctx context.Context) error {
	if a.FocusFn == nil {
		return ErrUnsuitableFocus
	}
	return a.FocusFn(ctx)
}

func (a ActionFuncs) IsSuitableFocus() bool {
	return a.Suitable != nil && a.Suitable()
}

// Manager is the registration surface an ancestor exposes to descendants.
type Manager interface {
	AddAction(action Action, id string)
	RemoveAction(id string)
}

// Reporter receives the lifecycle of a descendant check so the enclosing
// group can track violations and show feedback. Every Start is followed by
// exactly one of Passed, Failed or Excepted.
type Reporter interface {
	Start()
	Passed()
	Failed(violations ...Violation)
	Excepted()
}

// NopReporter ignores every report.
type NopReporter struct{}

func (NopReporter) Start()              {}
func (NopReporter) Passed()             {}
func (NopReporter) Failed(...Violation) {}
func (NopReporter) Excepted()           {}
