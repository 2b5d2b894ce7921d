// internal/cli/env.go
package greenview

import (
	"fmt"
	"strings"

	"github.com/mwiater/greenview/internal/appconfig"
	"github.com/mwiater/greenview/internal/source"
	"github.com/mwiater/greenview/internal/telemetry"
	"github.com/mwiater/greenview/internal/views"
)

// mustConfig returns the merged config, or the defaults when the root hook
// has not run (as in tests that call entry points directly).
func mustConfig() appconfig.Config {
	if cfg := GetConfig(); cfg != nil {
		return *cfg
	}
	return appconfig.Defaults()
}

// newFetcher reads from dataURL when set, otherwise from dataDir.
func newFetcher(cfg appconfig.Config) source.Fetcher {
	if url := strings.TrimSpace(cfg.DataURL); url != "" {
		return source.NewHTTP(url, cfg.HTTPTimeout())
	}
	return source.NewDir(cfg.DataDir)
}

func newRegistry(cfg appconfig.Config) *views.Registry {
	return views.NewRegistry(cfg.PolicyFor)
}

func newViewSet(cfg appconfig.Config, rec *telemetry.Recorder) *views.Set {
	return views.NewSet(newRegistry(cfg), newFetcher(cfg), cfg.ManifestFileName(), rec)
}

func loaderFor(cfg appconfig.Config, name string) (*views.Loader, error) {
	set := newViewSet(cfg, nil)
	l, ok := set.Loader(name)
	if !ok {
		return nil, fmt.Errorf("unknown view %q (available: %s)", name, strings.Join(set.Registry().Names(), ", "))
	}
	return l, nil
}
