// internal/reshape/benchmark_log.go
package reshape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Metric names for the legacy CPU-usage benchmark log.
const (
	MetricCPUUsage      = "CPU Usage (%)"
	MetricNovelCPUUsage = "Novel CPU Usage (%)"
)

// BenchmarkLog is the legacy benchmark_log.json payload: parallel arrays of
// prompts, CPU usage readings and elapsed seconds, with an optional second
// run over novel prompts.
type BenchmarkLog struct {
	Prompts        []string  `json:"prompts"`
	Values         []float64 `json:"values"`
	CPUUsages      []float64 `json:"cpu_usages"`
	Times          []float64 `json:"times"`
	NovelPrompts   []string  `json:"novel_prompts"`
	NovelCPUUsages []float64 `json:"novel_cpu_usages"`
	NovelTimes     []float64 `json:"novel_times"`
}

// ParseBenchmarkLog decodes a legacy benchmark log into samples. Positions
// where any of the parallel arrays run short are dropped.
func ParseBenchmarkLog(raw []byte) (ParseResult, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ParseResult{}, ErrEmptySource
	}
	var doc BenchmarkLog
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ParseResult{}, fmt.Errorf("decode benchmark log: %w", err)
	}

	usage := doc.Values
	if len(usage) == 0 {
		usage = doc.CPUUsages
	}

	var result ParseResult
	appendRun(&result, MetricCPUUsage, doc.Prompts, usage, doc.Times)
	appendRun(&result, MetricNovelCPUUsage, doc.NovelPrompts, doc.NovelCPUUsages, doc.NovelTimes)
	return result, nil
}

func appendRun(result *ParseResult, metric string, prompts []string, values, times []float64) {
	n := max(len(prompts), len(values), len(times))
	for i := 0; i < n; i++ {
		if i >= len(prompts) || i >= len(values) || i >= len(times) {
			result.Dropped++
			continue
		}
		prompt := strings.TrimSpace(prompts[i])
		v, t := values[i], times[i]
		if prompt == "" || math.IsNaN(v) || math.IsInf(v, 0) || math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
			result.Dropped++
			continue
		}
		result.Samples = append(result.Samples, Sample{Metric: metric, Prompt: prompt, Value: v, ElapsedTime: t})
	}
}
