// internal/source/source.go
// Package source fetches benchmark log files by their path relative to the
// data root, either from a local directory or from an HTTP base URL.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned when the requested file does not exist.
var ErrNotFound = errors.New("source not found")

// Fetcher returns the raw bytes of a data file.
type Fetcher interface {
	Fetch(ctx context.Context, rel string) ([]byte, error)
}

// Dir reads files beneath Root.
type Dir struct {
	Root string
}

// NewDir returns a Fetcher rooted at root.
func NewDir(root string) *Dir {
	return &Dir{Root: root}
}

// Fetch implements Fetcher. Paths that escape Root are rejected.
func (d *Dir) Fetch(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := cleanRel(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(clean)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
		}
		return nil, fmt.Errorf("read %s: %w", clean, err)
	}
	return data, nil
}

// HTTP fetches files with GET requests relative to BaseURL.
type HTTP struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTP returns an HTTP fetcher. A zero timeout leaves requests unbounded.
func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch implements Fetcher. Non-2xx responses are errors.
func (h *HTTP) Fetch(ctx context.Context, rel string) ([]byte, error) {
	clean, err := cleanRel(rel)
	if err != nil {
		return nil, err
	}
	endpoint, err := url.JoinPath(h.BaseURL, strings.Split(clean, "/")...)
	if err != nil {
		return nil, fmt.Errorf("build url for %s: %w", clean, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: unexpected status %s", endpoint, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", endpoint, err)
	}
	return data, nil
}

func cleanRel(rel string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(rel, "\\", "/"))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("source path %q escapes the data root", rel)
	}
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." || !fs.ValidPath(clean) {
		return "", fmt.Errorf("invalid source path %q", rel)
	}
	return clean, nil
}
