// internal/views/views.go
// Package views configures one Reshaper per report view and runs loads
// through the Idle, Loading, Ready and Failed states.
package views

import (
	"context"
	"fmt"
	"sort"

	"github.com/mwiater/greenview/internal/manifest"
	"github.com/mwiater/greenview/internal/reshape"
	"github.com/mwiater/greenview/internal/source"
)

// Chart selects how a view plots its series.
type Chart string

const (
	ChartBar  Chart = "bar"
	ChartLine Chart = "line"
	// ChartTime plots values against elapsed seconds instead of prompt index.
	ChartTime Chart = "time"
)

// View names.
const (
	Conversation = "conversation"
	History      = "history"
	Benchmark    = "benchmark"
	Monitor      = "monitor"
	BenchmarkLog = "benchmark-log"
)

// Definition is one view's Reshaper configuration.
type Definition struct {
	Name        string
	Title       string
	Description string
	Format      reshape.Format
	Policy      reshape.MatchPolicy
	Chart       Chart
	KeyFunc     reshape.KeyFunc
	// Multi marks views assembled from several manifest entries. A failing
	// source is then treated as absent instead of failing the view.
	Multi bool
	// EnergyTotalsOnly keeps series totals for energy metrics only.
	EnergyTotalsOnly bool
	// Discover lists the sources to load, relative to the data root.
	Discover func(ctx context.Context, f source.Fetcher, manifestName string) ([]string, error)
	// Parse overrides the CSV parser for non-CSV sources.
	Parse func(raw []byte) (reshape.ParseResult, error)
}

// Reshaper returns the configured pipeline.
func (d Definition) Reshaper() reshape.Reshaper {
	return reshape.Reshaper{Format: d.Format, Policy: d.Policy, KeyFunc: d.KeyFunc, EnergyTotalsOnly: d.EnergyTotalsOnly}
}

func (d Definition) parse(raw []byte) (reshape.ParseResult, error) {
	if d.Parse != nil {
		return d.Parse(raw)
	}
	return d.Reshaper().Parse(raw)
}

func fixed(files ...string) func(context.Context, source.Fetcher, string) ([]string, error) {
	return func(context.Context, source.Fetcher, string) ([]string, error) {
		return files, nil
	}
}

func fromManifest(filter func([]string) []string) func(context.Context, source.Fetcher, string) ([]string, error) {
	return func(ctx context.Context, f source.Fetcher, manifestName string) ([]string, error) {
		if manifestName == "" {
			manifestName = manifest.DefaultFile
		}
		raw, err := f.Fetch(ctx, manifestName)
		if err != nil {
			return nil, fmt.Errorf("fetch manifest: %w", err)
		}
		files, err := manifest.Parse(raw)
		if err != nil {
			return nil, err
		}
		return filter(files), nil
	}
}

// Builtin returns the stock views.
func Builtin() []Definition {
	return []Definition{
		{
			Name:        Conversation,
			Title:       "Conversation Report",
			Description: "Energy and emissions for a single conversation",
			Format:      reshape.Headered,
			Policy:      reshape.IndexExact,
			Chart:       ChartBar,
			KeyFunc:     reshape.FlatKey,
			Discover:    fixed("conversation_metrics.csv"),
		},
		{
			Name:        Benchmark,
			Title:       "Benchmark Report",
			Description: "Benchmark suite results by type and model",
			Format:      reshape.Headered,
			Policy:      reshape.PromptAveraged,
			Chart:       ChartLine,
			KeyFunc:     reshape.BenchmarkKey,
			Multi:       true,
			Discover:    fromManifest(manifest.BenchmarkFiles),
		},
		{
			Name:        History,
			Title:       "Model History Report",
			Description: "Accumulated metrics per model",
			Format:      reshape.Headered,
			Policy:      reshape.IndexExact,
			Chart:       ChartLine,
			KeyFunc:     reshape.ModelKey,
			Multi:       true,
			Discover:    fromManifest(manifest.HistoryFiles),
		},
		{
			Name:        Monitor,
			Title:       "Normal Usage Report",
			Description: "Interactive monitor readings over time",
			Format:      reshape.MonitorTriplet,
			Policy:      reshape.IndexExact,
			Chart:       ChartTime,
			KeyFunc:     reshape.FlatKey,
			Discover:    fixed("metrics.csv"),
			// Usage percentages are not summed.
			EnergyTotalsOnly: true,
		},
		{
			Name:             BenchmarkLog,
			Title:            "CPU Benchmark Report",
			Description:      "CPU usage per prompt from the legacy benchmark log",
			Policy:           reshape.IndexExact,
			Chart:            ChartLine,
			KeyFunc:          reshape.FlatKey,
			Discover:         fixed("benchmark_log.json"),
			Parse:            reshape.ParseBenchmarkLog,
			EnergyTotalsOnly: true,
		},
	}
}

// PolicyFunc resolves a view's match policy, given its default.
type PolicyFunc func(view string, fallback reshape.MatchPolicy) reshape.MatchPolicy

// Registry holds the available views in display order.
type Registry struct {
	defs   []Definition
	byName map[string]int
}

// NewRegistry returns the builtin views with policies resolved through
// policyFor. A nil policyFor keeps the defaults.
func NewRegistry(policyFor PolicyFunc) *Registry {
	return NewRegistryWith(policyFor, Builtin()...)
}

// NewRegistryWith builds a registry from explicit definitions.
func NewRegistryWith(policyFor PolicyFunc, defs ...Definition) *Registry {
	r := &Registry{byName: make(map[string]int, len(defs))}
	for _, d := range defs {
		if policyFor != nil {
			d.Policy = policyFor(d.Name, d.Policy)
		}
		r.byName[d.Name] = len(r.defs)
		r.defs = append(r.defs, d)
	}
	return r
}

// Get looks a view up by name.
func (r *Registry) Get(name string) (Definition, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// All returns every view in display order.
func (r *Registry) All() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Names returns the view names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for _, d := range r.defs {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}
