package dom

import "errors"

// ErrNotFocusable is returned when Focus targets an element the document
// would not focus.
var ErrNotFocusable = errors.New("dom: element is not focusable")

// Hidden reports whether e or an ancestor carries the hidden attribute.
func (e *Element) Hidden() bool {
	for current := e; current != nil; current = current.Parent() {
		if current.HasAttr("hidden") {
			return true
		}
	}
	return false
}

// CanFocus reports whether Focus would succeed.
func (e *Element) CanFocus() bool {
	if e == nil || e.IsText() || e.Hidden() {
		return false
	}
	switch e.Tag() {
	case "input":
		if e.InputType() == "hidden" {
			return false
		}
		return !e.Disabled()
	case "textarea", "select", "button":
		return !e.Disabled()
	case "a":
		if e.HasAttr("href") {
			return true
		}
	}
	return e.HasAttr("tabindex")
}

// Focus makes e the active element of its tree.
func (e *Element) Focus() error {
	if !e.CanFocus() {
		return ErrNotFocusable
	}
	root := e.Root()
	root.mu.Lock()
	root.active = e
	root.mu.Unlock()
	return nil
}

// Blur clears focus when e is the active element.
func (e *Element) Blur() {
	root := e.Root()
	if root == nil {
		return
	}
	root.mu.Lock()
	if root.active == e {
		root.active = nil
	}
	root.mu.Unlock()
}

// ActiveElement returns the focused element of e's tree. Elements that have
// since been detached from the tree are not reported.
func (e *Element) ActiveElement() *Element {
	root := e.Root()
	if root == nil {
		return nil
	}
	root.mu.RLock()
	active := root.active
	root.mu.RUnlock()
	if active == nil || !root.Contains(active) {
		return nil
	}
	return active
}

// Focused reports whether e is the active element of its tree.
func (e *Element) Focused() bool {
	return e != nil && e.ActiveElement() == e
}
