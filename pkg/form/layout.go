package form

import (
	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/shareid"
)

// TextProps configures the text-only layout components.
type TextProps struct {
	Text  string
	Attrs []dom.Attr
}

// Label labels the control that shares its id. Outside a Masthead or a
// ChoiceGroup it also names the enclosing group through the masthead id.
type Label struct {
	el *dom.Element
}

// NewLabel mounts a label under scope.
func NewLabel(scope Scope, props TextProps) *Label {
	id := scope.fetchID()
	el := dom.New("label")
	applyAttrs(el, props.Attrs)
	el.SetOptional("for", id)
	switch scope.provider() {
	case shareid.ProviderMasthead, shareid.ProviderChoiceGroup:
	default:
		el.SetOptional("id", shareid.Masthead(id))
	}
	el.SetText(props.Text)
	scope.attach(el)
	return &Label{el: el}
}

// Element returns the label element.
func (l *Label) Element() *dom.Element { return l.el }

// Caption is a span that names the enclosing group unless it sits in a
// Masthead, which already does.
type Caption struct {
	el *dom.Element
}

// NewCaption mounts a caption under scope.
func NewCaption(scope Scope, props TextProps) *Caption {
	id := scope.fetchID()
	el := dom.New("span")
	applyAttrs(el, props.Attrs)
	el.SetAttr("class", "caption")
	if scope.provider() != shareid.ProviderMasthead {
		el.SetOptional("id", shareid.Masthead(id))
	}
	el.SetText(props.Text)
	scope.attach(el)
	return &Caption{el: el}
}

// Element returns the caption element.
func (c *Caption) Element() *dom.Element { return c.el }

// Summary is a descriptive span.
type Summary struct {
	el *dom.Element
}

// NewSummary mounts a summary under scope.
func NewSummary(scope Scope, props TextProps) *Summary {
	el := dom.New("span")
	applyAttrs(el, props.Attrs)
	el.SetAttr("class", "summary")
	el.SetText(props.Text)
	scope.attach(el)
	return &Summary{el: el}
}

// Element returns the summary element.
func (s *Summary) Element() *dom.Element { return s.el }

// Masthead is the heading block of a field. Its element carries the id that
// groups reference through aria-labelledby.
type Masthead struct {
	el    *dom.Element
	child Scope
}

// NewMasthead mounts a masthead under scope.
func NewMasthead(scope Scope, attrs ...dom.Attr) *Masthead {
	id := scope.fetchID()
	el := dom.New("div")
	applyAttrs(el, attrs)
	el.SetAttr("class", "masthead")
	el.SetOptional("id", shareid.Masthead(id))

	child := scope
	child.host = el
	child.ids = shareid.Fixed(id, shareid.ProviderMasthead)
	scope.attach(el)
	return &Masthead{el: el, child: child}
}

// Scope returns the scope labels and captions of the masthead mount under.
func (m *Masthead) Scope() Scope { return m.child }

// Element returns the masthead element.
func (m *Masthead) Element() *dom.Element { return m.el }

// ChoiceGroup pairs one radio or checkbox with its label under a single id.
type ChoiceGroup struct {
	id    string
	el    *dom.Element
	child Scope
}

// NewChoiceGroup mounts a choice group under scope.
func NewChoiceGroup(scope Scope, attrs ...dom.Attr) *ChoiceGroup {
	id := scope.fetchID()
	el := dom.New("div")
	applyAttrs(el, attrs)
	el.SetAttr("class", "choice-group")

	child := scope
	child.host = el
	child.ids = shareid.Fixed(id, shareid.ProviderChoiceGroup)
	scope.attach(el)
	return &ChoiceGroup{id: id, el: el, child: child}
}

// ID returns the id shared by the choice and its label.
func (c *ChoiceGroup) ID() string { return c.id }

// Scope returns the scope the choice and its label mount under.
func (c *ChoiceGroup) Scope() Scope { return c.child }

// Element returns the choice group element.
func (c *ChoiceGroup) Element() *dom.Element { return c.el }
