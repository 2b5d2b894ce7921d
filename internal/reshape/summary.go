// internal/reshape/summary.go
package reshape

import "fmt"

// AccumulateTotals sums the values of the distinguished metrics. Samples with
// any other metric name do not contribute.
func AccumulateTotals(samples []Sample) Totals {
	var t Totals
	for _, s := range samples {
		switch metricName(s.Metric) {
		case MetricCPU:
			t.CPU += s.Value
		case MetricGPU:
			t.GPU += s.Value
		case MetricRAM:
			t.RAM += s.Value
		case MetricCO2:
			t.CO2 += s.Value
		}
	}
	return t
}

type matchKey struct {
	prompt string
	index  int
}

// BuildSummaryTable derives one row per primary sample (IndexExact) or per
// distinct primary prompt (PromptAveraged), with a cell for every displayed
// metric taken from groups.
func BuildSummaryTable(primary Series, groups *Groups, policy MatchPolicy) []SummaryRow {
	if policy == PromptAveraged {
		return averagedRows(primary, groups)
	}
	return indexedRows(primary, groups)
}

func indexedRows(primary Series, groups *Groups) []SummaryRow {
	lookups := make([]map[matchKey]float64, len(DisplayedMetrics))
	for i, metric := range DisplayedMetrics {
		lookup := make(map[matchKey]float64)
		if series, ok := groups.Series(metric); ok {
			for _, s := range series.Samples {
				lookup[matchKey{s.Prompt, s.SequenceIndex}] = s.Value
			}
		}
		lookups[i] = lookup
	}

	rows := make([]SummaryRow, 0, len(primary.Samples))
	for _, p := range primary.Samples {
		cells := make([]Cell, len(DisplayedMetrics))
		for i, metric := range DisplayedMetrics {
			v, ok := lookups[i][matchKey{p.Prompt, p.SequenceIndex}]
			cells[i] = newCell(metric, v, ok)
		}
		rows = append(rows, SummaryRow{Index: p.SequenceIndex, Prompt: p.Prompt, Cells: cells})
	}
	return rows
}

func averagedRows(primary Series, groups *Groups) []SummaryRow {
	type acc struct {
		sum   float64
		count int
	}
	sums := make([]map[string]acc, len(DisplayedMetrics))
	for i, metric := range DisplayedMetrics {
		byPrompt := make(map[string]acc)
		if series, ok := groups.Series(metric); ok {
			for _, s := range series.Samples {
				a := byPrompt[s.Prompt]
				a.sum += s.Value
				a.count++
				byPrompt[s.Prompt] = a
			}
		}
		sums[i] = byPrompt
	}

	seen := make(map[string]bool)
	var rows []SummaryRow
	for _, p := range primary.Samples {
		if seen[p.Prompt] {
			continue
		}
		seen[p.Prompt] = true
		cells := make([]Cell, len(DisplayedMetrics))
		for i, metric := range DisplayedMetrics {
			a, ok := sums[i][p.Prompt]
			if !ok || a.count == 0 {
				cells[i] = newCell(metric, 0, false)
				continue
			}
			cells[i] = newCell(metric, a.sum/float64(a.count), true)
		}
		rows = append(rows, SummaryRow{Index: len(rows) + 1, Prompt: p.Prompt, Cells: cells})
	}
	return rows
}

func newCell(metric string, value float64, present bool) Cell {
	if !present {
		return Cell{Metric: metric, Display: Placeholder}
	}
	return Cell{Metric: metric, Value: value, Present: true, Display: fmt.Sprintf("%.2f", value)}
}

// SummaryTables builds one summary table per series in first-seen order,
// each using its own series as the primary. A prompt missing from one
// metric still gets rows in the tables of the metrics that recorded it.
func SummaryTables(groups *Groups, policy MatchPolicy) []MetricSummary {
	all := groups.All()
	out := make([]MetricSummary, 0, len(all))
	for _, series := range all {
		out = append(out, MetricSummary{
			Metric: series.Metric,
			Rows:   BuildSummaryTable(series, groups, policy),
		})
	}
	return out
}
