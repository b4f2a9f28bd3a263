package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formguard/pkg/definition"
)

const (
	extensionWidget = "x-formgen-widget"
	extensionLabel  = "x-formgen-label"
	extensionOrder  = "x-formgen-order"

	// textareaThreshold is the maxLength above which strings become textareas.
	textareaThreshold = 255

	integerPattern = `-?[0-9]+`
	numberPattern  = `-?[0-9]+(\.[0-9]+)?`
)

// ErrSchemaNotFound is returned when the named component schema is missing.
var ErrSchemaNotFound = errors.New("openapi: schema not found")

// Option configures Import.
type Option func(*importer)

// WithLogger receives notes about properties that cannot become controls.
func WithLogger(logger *slog.Logger) Option {
	return func(im *importer) {
		if logger != nil {
			im.logger = logger
		}
	}
}

// WithValidation validates the whole OpenAPI document before converting.
func WithValidation() Option {
	return func(im *importer) {
		im.validate = true
	}
}

type importer struct {
	logger   *slog.Logger
	validate bool
}

// Import loads an OpenAPI document and converts the component schema named
// schemaName into a form definition. An empty name picks the only schema
// of the document.
func Import(ctx context.Context, raw []byte, schemaName string, opts ...Option) (*definition.Document, error) {
	im := &importer{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		if opt != nil {
			opt(im)
		}
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if im.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	name, schema, err := pickSchema(spec, schemaName)
	if err != nil {
		return nil, err
	}

	doc := &definition.Document{Title: schema.Title}
	if doc.Title == "" {
		doc.Title = humanize(name)
	}
	required := make(map[string]bool, len(schema.Required))
	for _, field := range schema.Required {
		required[field] = true
	}
	for _, prop := range orderedProperties(schema.Properties) {
		node, ok := im.property(prop.name, prop.schema, required[prop.name])
		if !ok {
			continue
		}
		doc.Children = append(doc.Children, node)
	}
	if len(doc.Children) == 0 {
		return nil, fmt.Errorf("openapi: schema %q has no convertible properties", name)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("openapi: schema %q: %w", name, err)
	}
	return doc, nil
}

func pickSchema(spec *openapi3.T, name string) (string, *openapi3.Schema, error) {
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return "", nil, fmt.Errorf("%w: document has no component schemas", ErrSchemaNotFound)
	}
	schemas := spec.Components.Schemas
	if name == "" {
		if len(schemas) != 1 {
			return "", nil, fmt.Errorf("%w: choose one of %s", ErrSchemaNotFound, strings.Join(schemaNames(schemas), ", "))
		}
		for only := range schemas {
			name = only
		}
	}
	ref, ok := schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return "", nil, fmt.Errorf("%w: %q (have %s)", ErrSchemaNotFound, name, strings.Join(schemaNames(schemas), ", "))
	}
	if !ref.Value.Type.Is(openapi3.TypeObject) && len(ref.Value.Properties) == 0 {
		return "", nil, fmt.Errorf("openapi: schema %q is not an object", name)
	}
	return name, ref.Value, nil
}

func schemaNames(schemas openapi3.Schemas) []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type namedSchema struct {
	name   string
	schema *openapi3.Schema
	order  int
}

// orderedProperties sorts by x-formgen-order, then by name.
func orderedProperties(props openapi3.Schemas) []namedSchema {
	out := make([]namedSchema, 0, len(props))
	for name, ref := range props {
		if ref == nil || ref.Value == nil {
			continue
		}
		order, ok := intExtension(ref.Value.Extensions, extensionOrder)
		if !ok {
			order = int(^uint(0) >> 1)
		}
		out = append(out, namedSchema{name: name, schema: ref.Value, order: order})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].order != out[j].order {
			return out[i].order < out[j].order
		}
		return out[i].name < out[j].name
	})
	return out
}

// property converts one property into a form-group node.
func (im *importer) property(name string, schema *openapi3.Schema, required bool) (definition.Node, bool) {
	if schema.ReadOnly {
		im.logger.Debug("openapi: skipping read-only property", "property", name)
		return definition.Node{}, false
	}
	label := stringExtension(schema.Extensions, extensionLabel)
	if label == "" {
		label = schema.Title
	}
	if label == "" {
		label = humanize(name)
	}

	group := definition.Node{Kind: definition.KindFormGroup, Required: required}
	heading := []definition.Node{{Kind: definition.KindLabel, Text: label}}
	if schema.Description != "" {
		heading = append(heading, definition.Node{Kind: definition.KindCaption, Text: schema.Description})
	}

	switch {
	case schema.Type.Is(openapi3.TypeString) && len(schema.Enum) > 0:
		control := im.enumControl(name, schema)
		group.Children = append(wrapHeading(control.Kind, heading), control)
	case schema.Type.Is(openapi3.TypeString):
		group.Children = append(heading, stringControl(name, schema))
	case schema.Type.Is(openapi3.TypeArray):
		control, ok := arrayControl(name, schema)
		if !ok {
			im.logger.Debug("openapi: skipping array without enum items", "property", name)
			return definition.Node{}, false
		}
		group.Children = append(wrapHeading(control.Kind, heading), control)
	case schema.Type.Is(openapi3.TypeBoolean):
		control := definition.Node{
			Kind: definition.KindCheckboxGroup,
			Name: name,
			Children: []definition.Node{{
				Kind:    definition.KindCheckbox,
				Value:   "true",
				Text:    label,
				Checked: schema.Default == true,
			}},
		}
		if required {
			control.Minimum = intRef(1)
		}
		group.Children = append(wrapHeading(control.Kind, heading), control)
	case schema.Type.Is(openapi3.TypeInteger), schema.Type.Is(openapi3.TypeNumber):
		pattern := numberPattern
		if schema.Type.Is(openapi3.TypeInteger) {
			pattern = integerPattern
		}
		group.Children = append(heading, definition.Node{
			Kind:    definition.KindTextInput,
			Name:    name,
			Type:    "text",
			Pattern: pattern,
			Value:   defaultString(schema.Default),
		})
	default:
		im.logger.Debug("openapi: skipping unsupported property", "property", name, "type", typeName(schema))
		return definition.Node{}, false
	}
	return group, true
}

// wrapHeading moves the heading of a group control into a masthead, which
// names the group through aria-labelledby.
func wrapHeading(kind definition.Kind, heading []definition.Node) []definition.Node {
	if kind == definition.KindSelect {
		return heading
	}
	return []definition.Node{{Kind: definition.KindMasthead, Children: heading}}
}

func stringControl(name string, schema *openapi3.Schema) definition.Node {
	node := definition.Node{
		Name:    name,
		Pattern: schema.Pattern,
		Value:   defaultString(schema.Default),
	}
	if schema.MinLength > 0 {
		node.MinLength = intRef(int(schema.MinLength))
	}
	if schema.MaxLength != nil {
		node.MaxLength = intRef(int(*schema.MaxLength))
	}

	switch {
	case schema.Format == "password":
		node.Kind = definition.KindPassword
	case schema.MaxLength != nil && *schema.MaxLength > textareaThreshold:
		node.Kind = definition.KindTextarea
		node.Pattern = ""
	default:
		node.Kind = definition.KindTextInput
		switch schema.Format {
		case "email":
			node.Type = "email"
		case "tel", "phone":
			node.Type = "tel"
		default:
			node.Type = "text"
		}
	}
	return node
}

func (im *importer) enumControl(name string, schema *openapi3.Schema) definition.Node {
	values := enumValues(schema.Enum)
	if stringExtension(schema.Extensions, extensionWidget) == "radio" {
		node := definition.Node{Kind: definition.KindRadioGroup, Name: name}
		current := defaultString(schema.Default)
		for _, v := range values {
			node.Children = append(node.Children, definition.Node{
				Kind:    definition.KindRadio,
				Value:   v,
				Text:    humanize(v),
				Checked: v == current,
			})
		}
		return node
	}
	node := definition.Node{Kind: definition.KindSelect, Name: name, Value: defaultString(schema.Default)}
	for _, v := range values {
		node.Options = append(node.Options, definition.OptionSpec{Text: humanize(v), Value: v})
	}
	return node
}

func arrayControl(name string, schema *openapi3.Schema) (definition.Node, bool) {
	if schema.Items == nil || schema.Items.Value == nil || len(schema.Items.Value.Enum) == 0 {
		return definition.Node{}, false
	}
	node := definition.Node{Kind: definition.KindCheckboxGroup, Name: name}
	if schema.MinItems > 0 {
		node.Minimum = intRef(int(schema.MinItems))
	}
	if schema.MaxItems != nil {
		node.Maximum = intRef(int(*schema.MaxItems))
	}
	for _, v := range enumValues(schema.Items.Value.Enum) {
		node.Children = append(node.Children, definition.Node{
			Kind:  definition.KindCheckbox,
			Value: v,
			Text:  humanize(v),
		})
	}
	return node, true
}

func enumValues(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func defaultString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func typeName(schema *openapi3.Schema) string {
	if schema.Type == nil {
		return ""
	}
	return strings.Join(schema.Type.Slice(), ",")
}

func stringExtension(ext map[string]any, key string) string {
	if value, ok := ext[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func intExtension(ext map[string]any, key string) (int, bool) {
	switch v := ext[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}

func intRef(n int) *int {
	return &n
}

// humanize turns camelCase, snake_case and kebab-case names into a label.
func humanize(name string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			current = append(current, unicode.ToLower(r))
		default:
			current = append(current, unicode.ToLower(r))
		}
	}
	flush()
	if len(words) == 0 {
		return name
	}
	label := strings.Join(words, " ")
	first := []rune(label)
	first[0] = unicode.ToUpper(first[0])
	return string(first)
}
