package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formguard/pkg/definition"
	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/messages"
	"github.com/goliatone/go-formguard/pkg/validity"
)

// Format selects an encoding.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatMsgpack}
}

// ParseFormat accepts a format name in any case. An empty name is text.
func ParseFormat(name string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(name)))
	if normalized == "" {
		return FormatText, nil
	}
	if normalized == "yml" {
		return FormatYAML, nil
	}
	for _, f := range Formats() {
		if f == normalized {
			return f, nil
		}
	}
	return "", fmt.Errorf("report: unknown format %q", name)
}

// Report is the outcome of one submit.
type Report struct {
	Title    string  `json:"title,omitempty" yaml:"title,omitempty" msgpack:"title,omitempty"`
	Passed   bool    `json:"passed" yaml:"passed" msgpack:"passed"`
	Focused  string  `json:"focused,omitempty" yaml:"focused,omitempty" msgpack:"focused,omitempty"`
	Error    string  `json:"error,omitempty" yaml:"error,omitempty" msgpack:"error,omitempty"`
	Controls []Entry `json:"controls" yaml:"controls" msgpack:"controls"`
}

// Entry describes one control.
type Entry struct {
	Name       string   `json:"name" yaml:"name" msgpack:"name"`
	ID         string   `json:"id,omitempty" yaml:"id,omitempty" msgpack:"id,omitempty"`
	Kind       string   `json:"kind" yaml:"kind" msgpack:"kind"`
	Label      string   `json:"label,omitempty" yaml:"label,omitempty" msgpack:"label,omitempty"`
	Status     string   `json:"status" yaml:"status" msgpack:"status"`
	Value      []string `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Violations []string `json:"violations,omitempty" yaml:"violations,omitempty" msgpack:"violations,omitempty"`
	Messages   []string `json:"messages,omitempty" yaml:"messages,omitempty" msgpack:"messages,omitempty"`
}

// FromSubmit builds a report from a bound form and the result of its last
// submit. Messages come from the bound catalog.
func FromSubmit(bound *definition.Bound, result form.SubmitResult) *Report {
	r := &Report{Passed: result.Passed, Focused: result.Focused}
	if result.Err != nil {
		r.Error = result.Err.Error()
	}
	if bound == nil {
		return r
	}
	if doc := bound.Document(); doc != nil {
		r.Title = doc.Title
	}
	catalog := bound.Catalog()
	for _, c := range bound.Controls() {
		entry := Entry{
			Name:   c.Name(),
			ID:     c.ID(),
			Kind:   string(c.Kind()),
			Label:  c.Label(),
			Status: c.Status().String(),
			Value:  c.Value(),
		}
		violations := c.Violations()
		for _, v := range violations {
			entry.Violations = append(entry.Violations, string(v))
		}
		if len(violations) > 0 && catalog != nil {
			entry.Messages = catalog.RenderAll(violations, messages.Params{Label: c.Label()})
		}
		r.Controls = append(r.Controls, entry)
	}
	return r
}

// Failed returns the entries whose status is errored or exception.
func (r *Report) Failed() []Entry {
	var out []Entry
	for _, e := range r.Controls {
		if e.Status == validity.StatusValidationErrored.String() || e.Status == validity.StatusValidationException.String() {
			out = append(out, e)
		}
	}
	return out
}

// Encode writes the report to w.
func (r *Report) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatText, "":
		return r.encodeText(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("report: encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("report: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("report: encode yaml: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(r); err != nil {
			return fmt.Errorf("report: encode msgpack: %w", err)
		}
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
	return nil
}

func (r *Report) encodeText(w io.Writer) error {
	outcome := "passed"
	if !r.Passed {
		outcome = "failed"
	}
	title := r.Title
	if title == "" {
		title = "form"
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n", title, outcome); err != nil {
		return err
	}
	if r.Focused != "" {
		if _, err := fmt.Fprintf(w, "focused: %s\n", r.Focused); err != nil {
			return err
		}
	}
	if r.Error != "" {
		if _, err := fmt.Fprintf(w, "error: %s\n", r.Error); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range r.Controls {
		detail := strings.Join(e.Messages, " ")
		if detail == "" {
			detail = strings.Join(e.Violations, ",")
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", e.Name, e.Kind, e.Status, detail)
	}
	return tw.Flush()
}
