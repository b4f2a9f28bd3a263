package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SourceKind distinguishes where a document is read from.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindURL  SourceKind = "url"
)

// Source identifies an OpenAPI document.
type Source struct {
	Kind     SourceKind
	Location string
}

// ParseSource treats http and https locations as URLs and anything else as a
// file path.
func ParseSource(location string) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Source{}, errors.New("openapi: source is required")
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if _, err := url.ParseRequestURI(location); err != nil {
			return Source{}, fmt.Errorf("openapi: invalid URL %q: %w", location, err)
		}
		return Source{Kind: SourceKindURL, Location: location}, nil
	}
	return Source{Kind: SourceKindFile, Location: filepath.Clean(location)}, nil
}

// Read returns the raw document. URLs are fetched with client, bounded by
// timeout when it is positive.
func (s Source) Read(ctx context.Context, client *http.Client, timeout time.Duration) ([]byte, error) {
	switch s.Kind {
	case SourceKindFile:
		return readFile(ctx, s.Location)
	case SourceKindURL:
		if client == nil {
			client = http.DefaultClient
		}
		return readURL(ctx, client, s.Location, timeout)
	default:
		return nil, fmt.Errorf("openapi: unsupported source kind %q", s.Kind)
	}
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %q: %w", path, err)
	}
	return data, nil
}

func readURL(ctx context.Context, client *http.Client, location string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("openapi: request %q: %w", location, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openapi: fetch %q: %w", location, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openapi: fetch %q: unexpected status %s", location, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %q: %w", location, err)
	}
	return data, nil
}
