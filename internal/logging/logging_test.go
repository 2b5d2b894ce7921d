package logging

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "greenview.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
		SetDebug(false)
	})

	LogEvent("hello %s", "world")
	LogDebug("hidden %d", 1)
	SetDebug(true)
	LogDebug("shown %d", 2)
	LogLoad("history", "model_history/a_all_metrics.csv", "failed", errors.New("boom"))
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if strings.Contains(content, "hidden 1") {
		t.Fatalf("debug output written while disabled: %s", content)
	}
	if !strings.Contains(content, "[DEBUG] shown 2") {
		t.Fatalf("expected LogDebug content, got: %s", content)
	}
	if !strings.Contains(content, "[FAILED] view=history source=model_history/a_all_metrics.csv detail=boom") {
		t.Fatalf("expected LogLoad content, got: %s", content)
	}
}

func TestInitFileOnlySkipsStdout(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "tui.log")
	if err := InitFileOnly(logPath); err != nil {
		t.Fatalf("InitFileOnly error: %v", err)
	}
	LogEvent("to file")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Fatalf("expected file content, got: %s", data)
	}
}

func TestBuildLoadMessageDefaults(t *testing.T) {
	msg := buildLoadMessage(" ", " ", "", map[string]any{"rows": 3})
	if !strings.HasPrefix(msg, "[INFO]") {
		t.Fatalf("expected default state, got: %s", msg)
	}
	if !strings.Contains(msg, "view=unknown") {
		t.Fatalf("expected default view, got: %s", msg)
	}
	if strings.Contains(msg, "source=") {
		t.Fatalf("expected empty source omitted, got: %s", msg)
	}
	if !strings.Contains(msg, `detail={"rows":3}`) {
		t.Fatalf("expected detail json, got: %s", msg)
	}
	if got := buildLoadMessage("conversation", "", "ready", nil); got != "[READY] view=conversation" {
		t.Fatalf("unexpected message: %s", got)
	}
}

func TestFormatDetailVariants(t *testing.T) {
	if got := formatDetail(nil); got != "null" {
		t.Fatalf("nil detail: %s", got)
	}
	if got := formatDetail(" "); got != `""` {
		t.Fatalf("empty string detail: %s", got)
	}
	if got := formatDetail([]byte("hi")); got != "hi" {
		t.Fatalf("byte detail: %s", got)
	}
	if got := formatDetail(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer detail: %s", got)
	}
	if got := formatDetail(errors.New("bad")); got != "bad" {
		t.Fatalf("error detail: %s", got)
	}
}

func TestInitDiscard(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	if err := Init(""); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	LogEvent("discard")
	if buf.Len() != 0 {
		t.Fatalf("expected log output redirected away from buffer, got: %s", buf.String())
	}
}
