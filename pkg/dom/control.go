package dom

import "strings"

// InputType returns the normalised type of an input element. Unknown or
// missing types report "text", matching browser behaviour.
func (e *Element) InputType() string {
	if e.Tag() != "input" {
		return ""
	}
	switch t := strings.ToLower(strings.TrimSpace(e.GetAttr("type"))); t {
	case "":
		return "text"
	case "text", "search", "tel", "url", "email", "password", "number", "checkbox",
		"radio", "hidden", "button", "reset", "submit", "date", "time", "range", "color", "file":
		return t
	default:
		return "text"
	}
}

func (e *Element) isCheckable() bool {
	t := e.InputType()
	return t == "checkbox" || t == "radio"
}

// Value returns the current value of a control. Checkboxes and radios report
// their value attribute, selects report the first selected option and
// options report their value attribute or text.
func (e *Element) Value() string {
	if e == nil {
		return ""
	}
	switch e.tag {
	case "input":
		if e.isCheckable() {
			if v, ok := e.Attr("value"); ok {
				return v
			}
			return "on"
		}
		e.mu.RLock()
		defer e.mu.RUnlock()
		return e.value
	case "textarea":
		e.mu.RLock()
		defer e.mu.RUnlock()
		return e.value
	case "select":
		values := e.SelectedValues()
		if len(values) == 0 {
			return ""
		}
		return values[0]
	case "option":
		if v, ok := e.Attr("value"); ok {
			return v
		}
		return strings.TrimSpace(e.TextContent())
	default:
		return e.GetAttr("value")
	}
}

// SetValue updates the value of a text control. For selects it selects the
// option with that value.
func (e *Element) SetValue(value string) {
	if e == nil {
		return
	}
	switch e.tag {
	case "select":
		e.SelectValues(value)
	case "input", "textarea":
		if e.isCheckable() {
			e.SetAttr("value", value)
			return
		}
		e.mu.Lock()
		e.value = value
		e.mu.Unlock()
	default:
		e.SetAttr("value", value)
	}
}

// Checked reports the checkedness of a checkbox or radio.
func (e *Element) Checked() bool {
	if e == nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.checked
}

// SetChecked updates checkedness. Checking a named radio unchecks the other
// radios with the same name in the tree.
func (e *Element) SetChecked(checked bool) {
	if e == nil {
		return
	}
	e.mu.Lock()
	e.checked = checked
	e.mu.Unlock()

	if !checked || e.InputType() != "radio" {
		return
	}
	for _, other := range e.radioGroup() {
		if other == e {
			continue
		}
		other.mu.Lock()
		other.checked = false
		other.mu.Unlock()
	}
}

// radioGroup returns the radios sharing e's name within its tree. An unnamed
// radio forms a group of its own.
func (e *Element) radioGroup() []*Element {
	name := e.GetAttr("name")
	if name == "" {
		return []*Element{e}
	}
	return e.Root().QueryAll(func(el *Element) bool {
		return el.InputType() == "radio" && el.GetAttr("name") == name
	})
}

// Selected reports whether an option is selected.
func (e *Element) Selected() bool {
	if e == nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selected
}

// SetSelected updates an option. Selecting an option of a single select
// deselects its siblings.
func (e *Element) SetSelected(selected bool) {
	if e == nil || e.tag != "option" {
		return
	}
	e.mu.Lock()
	e.selected = selected
	e.mu.Unlock()

	if !selected {
		return
	}
	owner := e.ownerSelect()
	if owner == nil || owner.HasAttr("multiple") {
		return
	}
	for _, option := range owner.Options() {
		if option == e {
			continue
		}
		option.mu.Lock()
		option.selected = false
		option.mu.Unlock()
	}
}

func (e *Element) ownerSelect() *Element {
	for current := e.Parent(); current != nil; current = current.Parent() {
		switch current.Tag() {
		case "select":
			return current
		case "optgroup":
			continue
		default:
			return nil
		}
	}
	return nil
}

// Options returns the option descendants of a select in document order.
func (e *Element) Options() []*Element {
	if e.Tag() != "select" {
		return nil
	}
	return e.QueryAll(TagIs("option"))
}

// SelectedOptions returns the selected options of a select.
func (e *Element) SelectedOptions() []*Element {
	var out []*Element
	for _, option := range e.Options() {
		if option.Selected() {
			out = append(out, option)
		}
	}
	return out
}

// SelectedValues returns the values of the selected options.
func (e *Element) SelectedValues() []string {
	var out []string
	for _, option := range e.SelectedOptions() {
		out = append(out, option.Value())
	}
	return out
}

// SelectValues replaces the selection of a select. A single select keeps
// only the first matching option. Disabled options are never selected.
func (e *Element) SelectValues(values ...string) {
	if e.Tag() != "select" {
		return
	}
	wanted := make(map[string]struct{}, len(values))
	for _, v := range values {
		wanted[v] = struct{}{}
	}
	multiple := e.HasAttr("multiple")
	picked := false
	for _, option := range e.Options() {
		_, match := wanted[option.Value()]
		on := match && !option.HasAttr("disabled") && (multiple || !picked)
		if on {
			picked = true
		}
		option.mu.Lock()
		option.selected = on
		option.mu.Unlock()
	}
}
