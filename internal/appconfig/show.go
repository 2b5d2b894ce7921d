package appconfig

import (
	"fmt"
	"io"
	"sort"

	"github.com/k0kubun/pp"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, cfg Config) {
	if cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Data Dir:         %s\n", cfg.DataDir)
	if cfg.DataURL != "" {
		fmt.Fprintf(out, "  Data URL:         %s\n", cfg.DataURL)
	}
	fmt.Fprintf(out, "  Manifest:         %s\n", cfg.ManifestPath())
	fmt.Fprintf(out, "  Refresh Interval: %s\n", cfg.RefreshInterval())
	fmt.Fprintf(out, "  Watch Files:      %v\n", cfg.Watch)
	fmt.Fprintf(out, "  Poll Interval:    %s\n", cfg.PollInterval())
	fmt.Fprintf(out, "  HTTP Timeout:     %s\n", cfg.HTTPTimeout())
	fmt.Fprintf(out, "  Listen:           %s\n", cfg.Listen)
	fmt.Fprintf(out, "  Rate Limit:       %.1f req/s (burst %d)\n", cfg.RateLimit, cfg.RateBurst)
	fmt.Fprintf(out, "  Reports Dir:      %s\n", cfg.ReportsPath())
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())

	if len(cfg.Views) == 0 {
		return
	}
	names := make([]string, 0, len(cfg.Views))
	for name := range cfg.Views {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(out, "  View Overrides:")
	for _, name := range names {
		fmt.Fprintf(out, "    %s: policy=%s\n", name, cfg.Views[name].Policy)
	}
}

// ShowConfigRaw pretty-prints the whole struct.
func ShowConfigRaw(out io.Writer, cfg Config) {
	pp.Fprintln(out, cfg)
}
