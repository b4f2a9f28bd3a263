package definition

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Kind names a component in a definition.
type Kind string

const (
	KindFormGroup     Kind = "form-group"
	KindMasthead      Kind = "masthead"
	KindLabel         Kind = "label"
	KindCaption       Kind = "caption"
	KindSummary       Kind = "summary"
	KindChoiceGroup   Kind = "choice-group"
	KindTextInput     Kind = "text-input"
	KindPassword      Kind = "password"
	KindTextarea      Kind = "textarea"
	KindRadioGroup    Kind = "radio-group"
	KindRadio         Kind = "radio"
	KindCheckboxGroup Kind = "checkbox-group"
	KindCheckbox      Kind = "checkbox"
	KindSelect        Kind = "select"
)

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{
		KindFormGroup, KindMasthead, KindLabel, KindCaption, KindSummary, KindChoiceGroup,
		KindTextInput, KindPassword, KindTextarea, KindRadioGroup, KindRadio,
		KindCheckboxGroup, KindCheckbox, KindSelect,
	}
}

// Literal reports whether the kind is a text control.
func (k Kind) Literal() bool {
	return k == KindTextInput || k == KindPassword || k == KindTextarea
}

// Control reports whether the kind is addressable by name once built. A
// checkbox outside a checkbox-group is addressable as well.
func (k Kind) Control() bool {
	switch k {
	case KindTextInput, KindPassword, KindTextarea, KindRadioGroup, KindCheckboxGroup, KindSelect:
		return true
	}
	return false
}

// Document is the root of a definition.
type Document struct {
	Title      string `json:"title,omitempty" yaml:"title,omitempty"`
	Novalidate bool   `json:"novalidate,omitempty" yaml:"novalidate,omitempty"`
	// Messages overrides catalog templates for the whole form, keyed by
	// violation name.
	Messages map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"`
	Children []Node            `json:"children" yaml:"children"`
}

// Node declares one component and its children.
type Node struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Text is the content of labels, captions, summaries and radio or
	// checkbox captions.
	Text        string `json:"text,omitempty" yaml:"text,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Pattern     string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MinLength   *int   `json:"minlength,omitempty" yaml:"minlength,omitempty"`
	MaxLength   *int   `json:"maxlength,omitempty" yaml:"maxlength,omitempty"`
	Min         string `json:"min,omitempty" yaml:"min,omitempty"`
	Max         string `json:"max,omitempty" yaml:"max,omitempty"`
	Step        string `json:"step,omitempty" yaml:"step,omitempty"`
	Rows        int    `json:"rows,omitempty" yaml:"rows,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Disabled    bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Readonly    bool   `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Novalidate  bool   `json:"novalidate,omitempty" yaml:"novalidate,omitempty"`
	Checked     bool   `json:"checked,omitempty" yaml:"checked,omitempty"`
	Lazy        bool   `json:"lazy,omitempty" yaml:"lazy,omitempty"`
	Trim        bool   `json:"trim,omitempty" yaml:"trim,omitempty"`
	Size        string `json:"size,omitempty" yaml:"size,omitempty"`
	Orientation string `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	// Minimum and Maximum bound checkbox groups and multiple selects.
	Minimum    *int              `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum    *int              `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	Multiple   bool              `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	Options    []OptionSpec      `json:"options,omitempty" yaml:"options,omitempty"`
	Revalidate *Revalidate       `json:"revalidate,omitempty" yaml:"revalidate,omitempty"`
	Messages   map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"`
	Children   []Node            `json:"children,omitempty" yaml:"children,omitempty"`
}

// OptionSpec is a select option, or an option group when Options is set.
type OptionSpec struct {
	Text     string       `json:"text,omitempty" yaml:"text,omitempty"`
	Value    string       `json:"value,omitempty" yaml:"value,omitempty"`
	Label    string       `json:"label,omitempty" yaml:"label,omitempty"`
	Disabled bool         `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Selected bool         `json:"selected,omitempty" yaml:"selected,omitempty"`
	Options  []OptionSpec `json:"options,omitempty" yaml:"options,omitempty"`
}

// Revalidate configures a remote check for a text control.
type Revalidate struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// ErrEmpty is returned for documents without content.
var ErrEmpty = errors.New("definition: document is empty")

// NodeError locates a structural problem in a document.
type NodeError struct {
	Path string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("definition: %s: %v", e.Path, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// Parse decodes a JSON or YAML document and validates it.
func Parse(data []byte) (*Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmpty
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = Document{}
		if yerr := yaml.Unmarshal(data, &doc); yerr != nil {
			return nil, fmt.Errorf("definition: parse: invalid JSON or YAML: %w", yerr)
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definition: read %q: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("definition: load %q: %w", path, err)
	}
	return doc, nil
}

// YAML encodes the document.
func (d *Document) YAML() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("definition: encode yaml: %w", err)
	}
	return out, nil
}

// Validate checks the kind and nesting rules of every node. All problems
// are reported together.
func (d *Document) Validate() error {
	if d == nil || len(d.Children) == 0 {
		return ErrEmpty
	}
	v := &validator{names: map[string]string{}}
	for i, node := range d.Children {
		v.node(node, fmt.Sprintf("children[%d]", i), "")
	}
	return v.err
}

type validator struct {
	err   error
	names map[string]string
}

func (v *validator) fail(path string, format string, args ...any) {
	v.err = multierr.Append(v.err, &NodeError{Path: path, Err: fmt.Errorf(format, args...)})
}

// node checks n, whose nearest group ancestor has kind group.
func (v *validator) node(n Node, path string, group Kind) {
	known := false
	for _, kind := range Kinds() {
		if n.Kind == kind {
			known = true
			break
		}
	}
	if !known {
		v.fail(path, "unknown kind %q", n.Kind)
		return
	}

	switch n.Kind {
	case KindRadio:
		if group != KindRadioGroup {
			v.fail(path, "radio must be inside a radio-group")
		}
	case KindChoiceGroup:
		if group != KindRadioGroup && group != KindCheckboxGroup {
			v.fail(path, "choice-group must be inside a radio-group or checkbox-group")
		}
	case KindRadioGroup, KindCheckboxGroup:
		if group == KindRadioGroup || group == KindCheckboxGroup {
			v.fail(path, "%s cannot be nested in a %s", n.Kind, group)
		}
	}

	if n.Kind.Control() || (n.Kind == KindCheckbox && group != KindCheckboxGroup) {
		name := strings.TrimSpace(n.Name)
		if name == "" {
			v.fail(path, "%s needs a name", n.Kind)
		} else if previous, ok := v.names[name]; ok {
			v.fail(path, "name %q is already used at %s", name, previous)
		} else {
			v.names[name] = path
		}
	}
	if n.Minimum != nil && n.Maximum != nil && *n.Minimum > *n.Maximum {
		v.fail(path, "minimum %d is greater than maximum %d", *n.Minimum, *n.Maximum)
	}
	if n.Revalidate != nil && (!n.Kind.Literal() || strings.TrimSpace(n.Revalidate.Endpoint) == "") {
		v.fail(path, "revalidate needs a text control and an endpoint")
	}
	if len(n.Options) > 0 && n.Kind != KindSelect {
		v.fail(path, "options are only valid on a select")
	}

	switch n.Kind {
	case KindFormGroup, KindMasthead, KindChoiceGroup, KindRadioGroup, KindCheckboxGroup:
	default:
		if len(n.Children) > 0 {
			v.fail(path, "%s cannot have children", n.Kind)
		}
		return
	}

	next := group
	if n.Kind == KindRadioGroup || n.Kind == KindCheckboxGroup {
		next = n.Kind
	}
	for i, child := range n.Children {
		childPath := fmt.Sprintf("%s.children[%d]", path, i)
		if n.Kind == KindMasthead {
			switch child.Kind {
			case KindLabel, KindCaption, KindSummary:
			default:
				v.fail(childPath, "masthead only holds label, caption and summary")
				continue
			}
		}
		v.node(child, childPath, next)
	}
}
