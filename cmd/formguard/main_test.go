package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/config"
	"github.com/goliatone/go-formguard/pkg/definition"
	"github.com/goliatone/go-formguard/pkg/report"
)

const newsletter = `
title: Newsletter
children:
  - kind: form-group
    required: true
    children:
      - kind: label
        text: Email
      - kind: text-input
        name: email
        type: email
  - kind: form-group
    children:
      - kind: label
        text: Topics
      - kind: checkbox-group
        name: topics
        maximum: 1
        children:
          - kind: checkbox
            value: go
          - kind: checkbox
            value: web
`

const schema = `
openapi: 3.0.3
info:
  title: Accounts
  version: 1.0.0
paths: {}
components:
  schemas:
    Account:
      type: object
      required: [email]
      properties:
        email:
          type: string
          format: email
`

func testApp() *app {
	return &app{cfg: config.Default(), logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunValidate(t *testing.T) {
	def := writeFile(t, "newsletter.yaml", newsletter)

	var out bytes.Buffer
	rep, err := runValidate(context.Background(), testApp(), validateOptions{definition: def, format: "text"}, nil, &out)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if rep.Passed || !strings.HasPrefix(out.String(), "Newsletter: failed") {
		t.Fatalf("expected a failed report, got:\n%s", out.String())
	}

	out.Reset()
	stdin := strings.NewReader(`{"email":"ada@example.com","topics":["go"]}`)
	rep, err = runValidate(context.Background(), testApp(), validateOptions{definition: def, values: "-", format: "json"}, stdin, &out)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	var decoded report.Report
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if !rep.Passed || !decoded.Passed {
		t.Fatalf("expected the form to pass:\n%s", out.String())
	}
	var values [][]string
	for _, entry := range decoded.Controls {
		values = append(values, entry.Value)
	}
	if diff := cmp.Diff([][]string{{"ada@example.com"}, {"go"}}, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestRunValidateRequiresDefinition(t *testing.T) {
	_, err := runValidate(context.Background(), testApp(), validateOptions{format: "text"}, nil, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "--definition") {
		t.Fatalf("expected a definition error, got %v", err)
	}
}

func TestRunRender(t *testing.T) {
	def := writeFile(t, "newsletter.yaml", newsletter)

	var out bytes.Buffer
	opts := renderOptions{definition: def, values: "-", validate: true}
	if err := runRender(context.Background(), testApp(), opts, strings.NewReader(`{"topics":["go","web"]}`), &out); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := out.String()
	if !strings.HasPrefix(html, "<form") {
		t.Fatalf("expected a form element, got:\n%s", html)
	}
	if !strings.Contains(html, `aria-invalid="true"`) || !strings.Contains(html, "Email is required.") {
		t.Fatalf("expected validation state in markup:\n%s", html)
	}
}

func TestRunImport(t *testing.T) {
	src := writeFile(t, "accounts.yaml", schema)

	var out bytes.Buffer
	if err := runImport(context.Background(), testApp(), importOptions{source: src}, &out); err != nil {
		t.Fatalf("import: %v", err)
	}
	doc, err := definition.Parse(out.Bytes())
	if err != nil {
		t.Fatalf("parse imported definition: %v\n%s", err, out.String())
	}
	if doc.Title != "Account" {
		t.Fatalf("unexpected title %q", doc.Title)
	}
	if !strings.Contains(out.String(), "name: email") {
		t.Fatalf("expected the email control:\n%s", out.String())
	}
}
