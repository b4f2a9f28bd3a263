package validity

import (
	"errors"
	"fmt"
)

var (
	// ErrComposing is returned while an input method composition is active.
	ErrComposing = errors.New("validity: composition in progress")
	// ErrNotMounted is returned when the backing element is unavailable.
	ErrNotMounted = errors.New("validity: element not mounted")
	// ErrUnsuitableFocus is returned by actions that cannot take focus.
	ErrUnsuitableFocus = errors.New("validity: focus target unsuitable")
	// ErrNoFocusTarget is returned when no candidate accepted focus.
	ErrNoFocusTarget = errors.New("validity: no focus target")
)

// GroupError reports that a group could not finish validating because one of
// its children failed to run.
type GroupError struct {
	Group string
	ID    string
	Err   error
}

func (e *GroupError) Error() string {
	if e == nil {
		return "<nil>"
	}
	label := e.Group
	if e.ID != "" {
		label = fmt.Sprintf("%s %q", e.Group, e.ID)
	}
	if e.Err == nil {
		return fmt.Sprintf("validity: an error occurred while validating %s", label)
	}
	return fmt.Sprintf("validity: an error occurred while validating %s: %v", label, e.Err)
}

func (e *GroupError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
