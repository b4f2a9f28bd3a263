package dom

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true, "wbr": true,
}

var (
	feedbackPolicyOnce sync.Once
	feedbackPolicy     *bluemonday.Policy
)

func feedbackSanitizer() *bluemonday.Policy {
	feedbackPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class", "role", "aria-live", "aria-hidden").Globally()
		feedbackPolicy = policy
	})
	return feedbackPolicy
}

// SanitizeHTML cleans markup supplied by integrators before it is embedded
// in the tree.
func SanitizeHTML(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(feedbackSanitizer().Sanitize(trimmed))
}

// HTML creates a node holding sanitised markup. It returns nil when nothing
// survives sanitising.
func HTML(raw string) *Element {
	cleaned := SanitizeHTML(raw)
	if cleaned == "" {
		return nil
	}
	return &Element{tag: rawTag, text: cleaned}
}

// Component returns a templ component that renders the subtree rooted at e.
func (e *Element) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var b strings.Builder
		e.write(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Render writes the subtree as HTML.
func (e *Element) Render(ctx context.Context, w io.Writer) error {
	return e.Component().Render(ctx, w)
}

// OuterHTML returns the subtree as an HTML string.
func (e *Element) OuterHTML() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *Element) write(b *strings.Builder) {
	if e == nil {
		return
	}
	switch e.tag {
	case textTag:
		b.WriteString(templ.EscapeString(e.TextContent()))
		return
	case rawTag:
		b.WriteString(e.TextContent())
		return
	}

	b.WriteByte('<')
	b.WriteString(e.tag)
	for _, attr := range e.renderAttrs() {
		b.WriteByte(' ')
		b.WriteString(attr.Name)
		if attr.Value == "" && isBooleanAttr(attr.Name) {
			continue
		}
		b.WriteString(`="`)
		b.WriteString(templ.EscapeString(attr.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if voidElements[e.tag] {
		return
	}

	if e.tag == "textarea" {
		b.WriteString(templ.EscapeString(e.Value()))
	} else {
		for _, child := range e.Children() {
			child.write(b)
		}
	}
	b.WriteString("</")
	b.WriteString(e.tag)
	b.WriteByte('>')
}

// renderAttrs returns the attributes in a stable order with live control
// state reflected into value, checked and selected.
func (e *Element) renderAttrs() []Attr {
	names := e.AttrNames()
	out := make([]Attr, 0, len(names)+2)
	for _, name := range names {
		switch name {
		case "value", "checked", "selected":
			continue
		}
		out = append(out, Attr{Name: name, Value: e.GetAttr(name)})
	}

	switch e.tag {
	case "input":
		if e.isCheckable() {
			if v, ok := e.Attr("value"); ok {
				out = append(out, Attr{Name: "value", Value: v})
			}
			if e.Checked() {
				out = append(out, Attr{Name: "checked"})
			}
		} else if v := e.Value(); v != "" {
			out = append(out, Attr{Name: "value", Value: v})
		}
	case "option":
		if v, ok := e.Attr("value"); ok {
			out = append(out, Attr{Name: "value", Value: v})
		}
		if e.Selected() {
			out = append(out, Attr{Name: "selected"})
		}
	default:
		if v, ok := e.Attr("value"); ok {
			out = append(out, Attr{Name: "value", Value: v})
		}
	}
	return out
}

var booleanAttrs = map[string]bool{
	"checked": true, "disabled": true, "hidden": true, "multiple": true, "novalidate": true,
	"readonly": true, "required": true, "selected": true, "autofocus": true,
}

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}
