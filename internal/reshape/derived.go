// internal/reshape/derived.go
package reshape

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// SeriesTotal sums one series' values and elapsed seconds.
type SeriesTotal struct {
	Metric  string  `json:"metric"`
	Value   float64 `json:"value"`
	Elapsed float64 `json:"elapsed"`
	Count   int     `json:"count"`
}

func (s SeriesTotal) String() string {
	return fmt.Sprintf("Total %s: %.2f over %.2f seconds", s.Metric, s.Value, s.Elapsed)
}

// SeriesTotals returns one SeriesTotal per series in first-seen order.
func SeriesTotals(groups *Groups) []SeriesTotal {
	all := groups.All()
	out := make([]SeriesTotal, 0, len(all))
	for _, series := range all {
		st := SeriesTotal{Metric: series.Metric, Count: len(series.Samples)}
		for _, s := range series.Samples {
			st.Value += s.Value
			st.Elapsed += s.ElapsedTime
		}
		out = append(out, st)
	}
	return out
}

// EnergyTotals keeps the totals of energy series only.
func EnergyTotals(totals []SeriesTotal) []SeriesTotal {
	out := make([]SeriesTotal, 0, len(totals))
	for _, st := range totals {
		if IsEnergyMetric(st.Metric) {
			out = append(out, st)
		}
	}
	return out
}

// IsEnergyMetric reports whether a metric name reads as an energy measure.
func IsEnergyMetric(name string) bool {
	return strings.Contains(strings.ToLower(name), "energy")
}

// Slice is one wedge of the energy distribution.
type Slice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// EnergyDistribution splits total energy into CPU, GPU and RAM shares.
// Percentages are zero when there is no energy at all.
func EnergyDistribution(t Totals) []Slice {
	total := t.Energy()
	slices := []Slice{
		{Label: "CPU", Value: t.CPU},
		{Label: "GPU", Value: t.GPU},
		{Label: "RAM", Value: t.RAM},
	}
	if total == 0 {
		return slices
	}
	for i := range slices {
		slices[i].Percent = slices[i].Value / total * 100
	}
	return slices
}

// Grams of CO2 per everyday activity.
const (
	gramsPerA4Sheet   = 4.7
	gramsPerKmWalked  = 80.0
	gramsPerEmail     = 0.014
	gramsPerWebSearch = 0.2
)

// CarbonEquivalents restates an emission total as everyday activities.
type CarbonEquivalents struct {
	PaperSheets float64 `json:"paperSheets"`
	WalkingKm   float64 `json:"walkingKm"`
	Emails      int64   `json:"emails"`
	Searches    int64   `json:"searches"`
}

// Equivalents converts grams of CO2 into CarbonEquivalents.
func Equivalents(co2 float64) CarbonEquivalents {
	return CarbonEquivalents{
		PaperSheets: roundTo(co2/gramsPerA4Sheet, 1),
		WalkingKm:   roundTo(co2/gramsPerKmWalked, 2),
		Emails:      int64(math.Round(co2 / gramsPerEmail)),
		Searches:    int64(math.Round(co2 / gramsPerWebSearch)),
	}
}

// Lines renders the equivalents the way reports print them.
func (c CarbonEquivalents) Lines() []string {
	return []string{
		fmt.Sprintf("%.1f sheets of A4 paper", c.PaperSheets),
		fmt.Sprintf("%.2f km walked", c.WalkingKm),
		fmt.Sprintf("%d emails sent", c.Emails),
		fmt.Sprintf("%d web searches", c.Searches),
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// BoxStats is the five-number summary of one series.
type BoxStats struct {
	Metric string  `json:"metric"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Five returns the summary in box plot order.
func (b BoxStats) Five() []float64 {
	return []float64{b.Min, b.Q1, b.Median, b.Q3, b.Max}
}

// Box computes quartiles with linear interpolation between closest ranks.
func Box(metric string, values []float64) BoxStats {
	b := BoxStats{Metric: metric, Count: len(values)}
	if len(values) == 0 {
		return b
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	b.Min = sorted[0]
	b.Max = sorted[len(sorted)-1]
	b.Q1 = quantile(sorted, 0.25)
	b.Median = quantile(sorted, 0.5)
	b.Q3 = quantile(sorted, 0.75)
	return b
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Ranking places one dataset by its carbon emissions.
type Ranking struct {
	Rank   int     `json:"rank"`
	Key    Key     `json:"key"`
	CO2    float64 `json:"co2"`
	Energy float64 `json:"energy"`
}

// RankByCO2 orders datasets from lowest to highest emissions. Ties keep
// their input order.
func RankByCO2(datasets []Dataset) []Ranking {
	out := make([]Ranking, 0, len(datasets))
	for _, ds := range datasets {
		out = append(out, Ranking{Key: ds.Key, CO2: ds.Totals.CO2, Energy: ds.Totals.Energy()})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CO2 < out[j].CO2 })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
