package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDirFetch(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "model_history"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := "Metric Name,Prompt,Value,Elapsed Time\n"
	if err := os.WriteFile(filepath.Join(root, "model_history", "a_all_metrics.csv"), []byte(want), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	d := NewDir(root)
	got, err := d.Fetch(context.Background(), "model_history/a_all_metrics.csv")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(got) != want {
		t.Fatalf("Fetch = %q, want %q", got, want)
	}

	if _, err := d.Fetch(context.Background(), "/model_history/a_all_metrics.csv"); err != nil {
		t.Fatalf("leading slash should be accepted: %v", err)
	}
	if _, err := d.Fetch(context.Background(), "missing.csv"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := d.Fetch(context.Background(), "../outside.csv"); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Fetch(ctx, "model_history/a_all_metrics.csv"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestHTTPFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/conversation_metrics.csv":
			_, _ = w.Write([]byte("ok"))
		case "/data/broken.csv":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	h := NewHTTP(srv.URL+"/data/", 0)
	got, err := h.Fetch(context.Background(), "conversation_metrics.csv")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(got) != "ok" {
		t.Fatalf("Fetch = %q", got)
	}
	if _, err := h.Fetch(context.Background(), "missing.csv"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := h.Fetch(context.Background(), "broken.csv"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected status error, got %v", err)
	}
}
