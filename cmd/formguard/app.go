package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-formguard/pkg/config"
	"github.com/goliatone/go-formguard/pkg/definition"
	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/messages"
)

// app holds what every command derives from the global flags.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func loadApp(stderr io.Writer) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return &app{cfg: cfg, logger: cfg.Logger(stderr)}, nil
}

func (a *app) catalog() (*messages.Catalog, error) {
	catalog, err := messages.New()
	if err != nil {
		return nil, err
	}
	if a.cfg.Messages.File == "" {
		return catalog, nil
	}
	data, err := os.ReadFile(a.cfg.Messages.File)
	if err != nil {
		return nil, fmt.Errorf("read messages %q: %w", a.cfg.Messages.File, err)
	}
	if err := catalog.LoadYAML(data); err != nil {
		return nil, err
	}
	return catalog, nil
}

// build loads and mounts the definition at path.
func (a *app) build(path string, extra ...form.ScopeOption) (*definition.Bound, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("--definition is required")
	}
	doc, err := definition.Load(path)
	if err != nil {
		return nil, err
	}
	catalog, err := a.catalog()
	if err != nil {
		return nil, err
	}
	scopeOpts := append(a.cfg.ScopeOptions(a.logger), extra...)
	return definition.Build(doc,
		definition.WithScopeOptions(scopeOpts...),
		definition.WithCatalog(catalog),
		definition.WithRevalidateTimeout(a.cfg.Validation.RevalidateTimeout),
	)
}

// fill pushes the JSON values file into bound. "-" reads stdin.
func fill(bound *definition.Bound, path string, stdin io.Reader) error {
	if path == "" {
		return nil
	}
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read values: %w", err)
	}
	return bound.FillJSON(raw)
}
