// internal/reshape/types.go
// Package reshape turns benchmark log text into display models: typed samples
// grouped into metric series, energy and carbon totals, and summary tables.
package reshape

import (
	"errors"
	"fmt"
	"strings"
)

// Distinguished metric names written by the benchmarking harness.
const (
	MetricCPU   = "CPU Energy (J)"
	MetricGPU   = "GPU Energy (J)"
	MetricRAM   = "RAM Energy (J)"
	MetricTotal = "Total Energy (J)"
	MetricCO2   = "Carbon Emissions (gCO2)"
)

// DisplayedMetrics lists the summary table columns in display order.
var DisplayedMetrics = []string{MetricCPU, MetricGPU, MetricRAM, MetricTotal, MetricCO2}

// Placeholder is rendered for a summary cell with no matching sample.
const Placeholder = "-"

var (
	// ErrEmptySource is returned when a source holds no text at all.
	ErrEmptySource = errors.New("empty source")
	// ErrMissingColumns is returned when a header row lacks a required column.
	ErrMissingColumns = errors.New("missing required columns")
)

// Sample is one observation read from a benchmark log row.
type Sample struct {
	Metric        string  `json:"metric"`
	Prompt        string  `json:"prompt"`
	Value         float64 `json:"value"`
	ElapsedTime   float64 `json:"elapsedTime"`
	SequenceIndex int     `json:"sequenceIndex"`
}

// Format selects how raw rows map onto Sample fields.
type Format int

const (
	// Positional rows carry metric, prompt, value and elapsed time in that
	// order with no header. A leading "Metric Name" line is discarded.
	Positional Format = iota
	// Headered rows start with a header naming the columns
	// Metric Name, Prompt, Value and Elapsed Time in any order.
	Headered
	// MonitorTriplet rows carry metric, value and elapsed time only, as
	// written by the interactive monitor. Every sample gets MonitorPrompt.
	MonitorTriplet
)

// MonitorPrompt labels samples that come from prompt-less monitor logs.
const MonitorPrompt = "(monitor)"

func (f Format) String() string {
	switch f {
	case Positional:
		return "positional"
	case Headered:
		return "headered"
	case MonitorTriplet:
		return "monitor"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat maps a config value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positional":
		return Positional, nil
	case "headered", "header":
		return Headered, nil
	case "monitor", "triplet":
		return MonitorTriplet, nil
	default:
		return 0, fmt.Errorf("unknown format %q", s)
	}
}

// MatchPolicy selects how summary cells are matched to primary samples.
type MatchPolicy int

const (
	// IndexExact matches cells on (prompt, sequence index).
	IndexExact MatchPolicy = iota
	// PromptAveraged groups by prompt and averages every matching value.
	PromptAveraged
)

func (p MatchPolicy) String() string {
	switch p {
	case IndexExact:
		return "index"
	case PromptAveraged:
		return "average"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// MarshalText lets policies travel through JSON and YAML as their names.
func (p MatchPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePolicy maps a config value onto a MatchPolicy.
func ParsePolicy(s string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "index", "index-exact", "exact":
		return IndexExact, nil
	case "average", "averaged", "prompt-averaged":
		return PromptAveraged, nil
	default:
		return 0, fmt.Errorf("unknown match policy %q", s)
	}
}

// Totals holds running sums over the distinguished metrics.
type Totals struct {
	CPU float64 `json:"cpu"`
	GPU float64 `json:"gpu"`
	RAM float64 `json:"ram"`
	CO2 float64 `json:"co2"`
}

// Energy returns the CPU, GPU and RAM energy combined.
func (t Totals) Energy() float64 {
	return t.CPU + t.GPU + t.RAM
}

// Cell is one displayed-metric column of a summary row.
type Cell struct {
	Metric  string  `json:"metric"`
	Value   float64 `json:"value"`
	Present bool    `json:"present"`
	Display string  `json:"display"`
}

// SummaryRow is one prompt line of a summary table.
type SummaryRow struct {
	Index  int    `json:"index"`
	Prompt string `json:"prompt"`
	Cells  []Cell `json:"cells"`
}

// MetricSummary is the summary table built around one series: a row per
// sample (or per prompt) of Metric, with every displayed metric matched in.
type MetricSummary struct {
	Metric string       `json:"metric"`
	Rows   []SummaryRow `json:"rows"`
}

// Key identifies the dataset a source contributes to.
type Key struct {
	BenchmarkType string `json:"benchmarkType,omitempty"`
	Model         string `json:"model,omitempty"`
}

func (k Key) String() string {
	switch {
	case k.BenchmarkType != "" && k.Model != "":
		return k.BenchmarkType + " / " + k.Model
	case k.Model != "":
		return k.Model
	case k.BenchmarkType != "":
		return k.BenchmarkType
	default:
		return "all"
	}
}
