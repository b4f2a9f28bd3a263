package dom

import (
	"slices"
	"sort"
	"strings"
	"sync"
)

const (
	textTag = "#text"
	rawTag  = "#raw"
)

// Attr is a name/value pair used when constructing elements.
type Attr struct {
	Name  string
	Value string
}

// A builds an Attr.
func A(name, value string) Attr {
	return Attr{Name: name, Value: value}
}

// Bool builds a boolean attribute.
func Bool(name string) Attr {
	return Attr{Name: name}
}

// Element is a node of the tree: a tagged element, a text node or a block of
// trusted markup.
type Element struct {
	mu       sync.RWMutex
	tag      string
	attrs    map[string]string
	parent   *Element
	children []*Element
	text     string

	value    string
	checked  bool
	selected bool
	custom   string

	active *Element
}

// New creates an element with the given tag and attributes.
func New(tag string, attrs ...Attr) *Element {
	el := &Element{
		tag:   strings.ToLower(strings.TrimSpace(tag)),
		attrs: make(map[string]string, len(attrs)),
	}
	for _, attr := range attrs {
		name := strings.ToLower(strings.TrimSpace(attr.Name))
		if name == "" {
			continue
		}
		el.attrs[name] = attr.Value
	}
	if v, ok := el.attrs["value"]; ok && (el.tag == "input" || el.tag == "textarea") {
		el.value = v
	}
	if _, ok := el.attrs["checked"]; ok {
		el.checked = true
	}
	if _, ok := el.attrs["selected"]; ok {
		el.selected = true
	}
	return el
}

// Text creates a text node.
func Text(content string) *Element {
	return &Element{tag: textTag, text: content}
}

// Tag returns the lowercase tag name. Text nodes report "#text".
func (e *Element) Tag() string {
	if e == nil {
		return ""
	}
	return e.tag
}

// IsText reports whether the node is a text node.
func (e *Element) IsText() bool {
	return e != nil && e.tag == textTag
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.attrs[strings.ToLower(name)]
	return v, ok
}

// GetAttr returns the attribute value or "".
func (e *Element) GetAttr(name string) string {
	v, _ := e.Attr(name)
	return v
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(name, value string) {
	if e == nil || e.attrs == nil {
		return
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	e.mu.Lock()
	e.attrs[name] = value
	e.mu.Unlock()
}

// SetBool adds the boolean attribute when on is true and removes it otherwise.
func (e *Element) SetBool(name string, on bool) {
	if on {
		e.SetAttr(name, "")
		return
	}
	e.RemoveAttr(name)
}

// SetOptional sets the attribute when value is non-empty and removes it
// otherwise.
func (e *Element) SetOptional(name, value string) {
	if value == "" {
		e.RemoveAttr(name)
		return
	}
	e.SetAttr(name, value)
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(name string) {
	if e == nil || e.attrs == nil {
		return
	}
	e.mu.Lock()
	delete(e.attrs, strings.ToLower(name))
	e.mu.Unlock()
}

// AttrNames returns the attribute names sorted alphabetically.
func (e *Element) AttrNames() []string {
	if e == nil {
		return nil
	}
	e.mu.RLock()
	names := make([]string, 0, len(e.attrs))
	for name := range e.attrs {
		names = append(names, name)
	}
	e.mu.RUnlock()
	sort.Strings(names)
	return names
}

// ID returns the id attribute.
func (e *Element) ID() string {
	return e.GetAttr("id")
}

// Classes returns the class list in attribute order.
func (e *Element) Classes() []string {
	return strings.Fields(e.GetAttr("class"))
}

// HasClass reports whether the class list contains name.
func (e *Element) HasClass(name string) bool {
	return slices.Contains(e.Classes(), name)
}

// ToggleClass adds or removes name from the class list.
func (e *Element) ToggleClass(name string, on bool) {
	if e == nil || e.attrs == nil || name == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	classes := strings.Fields(e.attrs["class"])
	idx := slices.Index(classes, name)
	switch {
	case on && idx < 0:
		classes = append(classes, name)
	case !on && idx >= 0:
		classes = slices.Delete(classes, idx, idx+1)
	default:
		return
	}
	if len(classes) == 0 {
		delete(e.attrs, "class")
		return
	}
	e.attrs["class"] = strings.Join(classes, " ")
}

// Parent returns the parent node.
func (e *Element) Parent() *Element {
	if e == nil {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.parent
}

// Root returns the topmost ancestor, or e itself when detached.
func (e *Element) Root() *Element {
	current := e
	for current != nil {
		parent := current.Parent()
		if parent == nil {
			return current
		}
		current = parent
	}
	return nil
}

// Children returns a snapshot of the child nodes.
func (e *Element) Children() []*Element {
	if e == nil {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]*Element(nil), e.children...)
}

// Append attaches children at the end, detaching them from any previous
// parent first.
func (e *Element) Append(children ...*Element) {
	if e == nil {
		return
	}
	for _, child := range children {
		if child == nil || child == e {
			continue
		}
		child.Detach()
		child.mu.Lock()
		child.parent = e
		child.mu.Unlock()

		e.mu.Lock()
		e.children = append(e.children, child)
		e.mu.Unlock()
	}
}

// Detach removes e from its parent.
func (e *Element) Detach() {
	if e == nil {
		return
	}
	e.mu.Lock()
	parent := e.parent
	e.parent = nil
	e.mu.Unlock()
	if parent == nil {
		return
	}

	parent.mu.Lock()
	if idx := slices.Index(parent.children, e); idx >= 0 {
		parent.children = slices.Delete(parent.children, idx, idx+1)
	}
	parent.mu.Unlock()
}

// SetText replaces the children with a single text node.
func (e *Element) SetText(content string) {
	if e == nil {
		return
	}
	for _, child := range e.Children() {
		child.Detach()
	}
	if content == "" {
		return
	}
	e.Append(Text(content))
}

// TextContent concatenates every descendant text node.
func (e *Element) TextContent() string {
	if e == nil {
		return ""
	}
	if e.tag == textTag || e.tag == rawTag {
		e.mu.RLock()
		defer e.mu.RUnlock()
		return e.text
	}
	var b strings.Builder
	for _, child := range e.Children() {
		b.WriteString(child.TextContent())
	}
	return b.String()
}

// Matcher selects elements during queries.
type Matcher func(*Element) bool

// AttrEquals matches elements whose attribute equals value.
func AttrEquals(name, value string) Matcher {
	return func(el *Element) bool {
		v, ok := el.Attr(name)
		return ok && v == value
	}
}

// TagIs matches elements with the given tag.
func TagIs(tag string) Matcher {
	tag = strings.ToLower(tag)
	return func(el *Element) bool { return el.Tag() == tag }
}

// Walk visits e and its descendants in document order until fn returns false.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if e == nil {
		return true
	}
	if !fn(e) {
		return false
	}
	for _, child := range e.Children() {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// QueryAll returns matching descendants of e, e included, in document order.
// Text nodes are skipped.
func (e *Element) QueryAll(match Matcher) []*Element {
	var out []*Element
	e.Walk(func(el *Element) bool {
		if el.tag != textTag && el.tag != rawTag && match(el) {
			out = append(out, el)
		}
		return true
	})
	return out
}

// Query returns the first match in document order.
func (e *Element) Query(match Matcher) *Element {
	var found *Element
	e.Walk(func(el *Element) bool {
		if el.tag != textTag && el.tag != rawTag && match(el) {
			found = el
			return false
		}
		return true
	})
	return found
}

// ByID returns the first element with the given id.
func (e *Element) ByID(id string) *Element {
	if id == "" {
		return nil
	}
	return e.Query(AttrEquals("id", id))
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for current := other; current != nil; current = current.Parent() {
		if current == e {
			return true
		}
	}
	return false
}
