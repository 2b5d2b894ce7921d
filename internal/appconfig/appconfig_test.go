// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/greenview/internal/reshape"
	"github.com/spf13/viper"
)

// TestLoad checks that a JSON file overrides defaults, a missing file falls
// back to defaults, and invalid files are rejected.
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	payload := `{
  "dataDir": "data",
  "refreshInterval": 5,
  "pollInterval": 30,
  "rateLimit": 2.5,
  "views": {"history": {"policy": "average"}}
}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.DataDir != "data" {
		t.Fatalf("expected dataDir override, got %q", cfg.DataDir)
	}
	if cfg.RefreshInterval() != 5*time.Second {
		t.Fatalf("expected 5s refresh, got %v", cfg.RefreshInterval())
	}
	if cfg.PollInterval() != 30*time.Second {
		t.Fatalf("expected 30s poll, got %v", cfg.PollInterval())
	}
	if cfg.RateLimit != 2.5 || cfg.RateBurst != defaultRateBurst {
		t.Fatalf("unexpected rate settings: %v/%d", cfg.RateLimit, cfg.RateBurst)
	}
	if cfg.Listen != defaultListen {
		t.Fatalf("expected default listen, got %q", cfg.Listen)
	}
	if cfg.ConfigPath != path {
		t.Fatalf("expected config path %q, got %q", path, cfg.ConfigPath)
	}
	if got := cfg.PolicyFor("history", reshape.IndexExact); got != reshape.PromptAveraged {
		t.Fatalf("expected history override, got %v", got)
	}
	if got := cfg.PolicyFor("conversation", reshape.IndexExact); got != reshape.IndexExact {
		t.Fatalf("expected fallback policy, got %v", got)
	}
	if cfg.ManifestPath() != filepath.Join("data", "file-list.json") {
		t.Fatalf("unexpected manifest path %q", cfg.ManifestPath())
	}

	missing, err := Load(filepath.Join(dir, "absent.json"))
	if err != nil {
		t.Fatalf("Load() with missing file failed: %v", err)
	}
	if missing.DataDir != defaultDataDir || missing.RefreshInterval() != defaultRefreshInterval {
		t.Fatalf("expected defaults, got %+v", missing)
	}
	if missing.ConfigPath != "" {
		t.Fatalf("expected empty config path, got %q", missing.ConfigPath)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write bad config: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatalf("expected error for malformed config")
	}

	invalid := filepath.Join(dir, "invalid.json")
	if err := os.WriteFile(invalid, []byte(`{"views": {"history": {"policy": "median"}}, "pollInterval": -1}`), 0o644); err != nil {
		t.Fatalf("write invalid config: %v", err)
	}
	_, err = Load(invalid)
	if err == nil || !strings.Contains(err.Error(), "views.history") || !strings.Contains(err.Error(), "pollInterval") {
		t.Fatalf("expected validation errors, got %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("dataURL: http://example.test/data\nwatch: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() yaml failed: %v", err)
	}
	if cfg.DataURL != "http://example.test/data" || !cfg.Watch {
		t.Fatalf("unexpected yaml config: %+v", cfg)
	}
}

func TestDecodeFlagsOverrideFile(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("dataDir", "from-flag")
	cfg, err := Decode(v)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if cfg.DataDir != "from-flag" {
		t.Fatalf("expected override, got %q", cfg.DataDir)
	}
}

func TestDefaultsHelpers(t *testing.T) {
	cfg := Defaults()
	if cfg.LogFilePath() != "greenview.log" {
		t.Fatalf("unexpected log path %q", cfg.LogFilePath())
	}
	if cfg.HTTPTimeout() != 0 || cfg.PollInterval() != 0 {
		t.Fatalf("expected no timeout and no polling by default")
	}
	if cfg.ReportsPath() != "reports" {
		t.Fatalf("unexpected reports dir %q", cfg.ReportsPath())
	}
	cfg.LogFile = "logs/x.log"
	if cfg.LogFilePath() != "logs/x.log" {
		t.Fatalf("expected explicit log path")
	}
}

func TestShowConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Views = map[string]ViewConfig{"benchmark": {Policy: "index"}}

	var buf bytes.Buffer
	ShowConfig(&buf, cfg)
	out := buf.String()
	for _, want := range []string{"No config file loaded", "Data Dir:         public", "benchmark: policy=index"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	ShowConfigRaw(&buf, cfg)
	if !strings.Contains(buf.String(), "DataDir") {
		t.Fatalf("expected raw dump to include field names, got %s", buf.String())
	}
}
