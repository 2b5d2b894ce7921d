// internal/reshape/group.go
package reshape

import (
	"encoding/json"
	"strings"
)

// Series is the ordered run of samples sharing one metric name.
type Series struct {
	Metric  string   `json:"metric"`
	Samples []Sample `json:"samples"`
}

// Values returns the sample values in series order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		out[i] = sample.Value
	}
	return out
}

// Groups is a partition of samples by metric name that remembers the order
// in which each name was first seen.
type Groups struct {
	order  []string
	byName map[string]*Series
}

// metricName is the key a raw metric name is grouped and totalled under.
func metricName(raw string) string {
	return strings.TrimSpace(raw)
}

// GroupByMetric partitions samples by trimmed metric name, keeping encounter
// order inside every series, and assigns each sample its 1-based position in
// its series. The input slice is not modified.
func GroupByMetric(samples []Sample) *Groups {
	g := &Groups{byName: make(map[string]*Series)}
	for _, sample := range samples {
		sample.Metric = metricName(sample.Metric)
		series, ok := g.byName[sample.Metric]
		if !ok {
			series = &Series{Metric: sample.Metric}
			g.byName[sample.Metric] = series
			g.order = append(g.order, sample.Metric)
		}
		series.Samples = append(series.Samples, sample)
	}
	for _, series := range g.byName {
		for i := range series.Samples {
			series.Samples[i].SequenceIndex = i + 1
		}
	}
	return g
}

// Names returns metric names in first-seen order.
func (g *Groups) Names() []string {
	if g == nil {
		return nil
	}
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len reports the number of series.
func (g *Groups) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

// Series returns the series for a metric name.
func (g *Groups) Series(metric string) (Series, bool) {
	if g == nil {
		return Series{}, false
	}
	series, ok := g.byName[metric]
	if !ok {
		return Series{}, false
	}
	return *series, true
}

// All returns every series in first-seen order.
func (g *Groups) All() []Series {
	if g == nil {
		return nil
	}
	out := make([]Series, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, *g.byName[name])
	}
	return out
}

// Samples flattens the groups back into one slice, series by series.
func (g *Groups) Samples() []Sample {
	var out []Sample
	for _, series := range g.All() {
		out = append(out, series.Samples...)
	}
	return out
}

// MarshalJSON encodes the groups as an ordered list of series.
func (g *Groups) MarshalJSON() ([]byte, error) {
	all := g.All()
	if all == nil {
		all = []Series{}
	}
	return json.Marshal(all)
}
