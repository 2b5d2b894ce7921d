package reshape

import (
	"encoding/json"
	"math"
	"math/rand"
	"strings"
	"testing"
)

func sampleSet() []Sample {
	return []Sample{
		{Metric: MetricCPU, Prompt: "p1", Value: 1.25, ElapsedTime: 1},
		{Metric: MetricGPU, Prompt: "p1", Value: 2, ElapsedTime: 1},
		{Metric: "Tokens/s", Prompt: "p1", Value: 40, ElapsedTime: 1},
		{Metric: MetricCPU, Prompt: "p2", Value: 3.5, ElapsedTime: 2},
		{Metric: MetricCO2, Prompt: "p1", Value: 0.02, ElapsedTime: 1},
		{Metric: MetricRAM, Prompt: "p2", Value: 0.75, ElapsedTime: 2},
		{Metric: MetricCPU, Prompt: "p1", Value: 1.75, ElapsedTime: 3},
		{Metric: MetricCO2, Prompt: "p2", Value: 0.03, ElapsedTime: 2},
		{Metric: " " + MetricCPU, Prompt: "p3", Value: 100, ElapsedTime: 4},
	}
}

func TestGroupByMetricIsStablePartition(t *testing.T) {
	input := sampleSet()
	groups := GroupByMetric(input)

	wantOrder := []string{MetricCPU, MetricGPU, "Tokens/s", MetricCO2, MetricRAM}
	if got := groups.Names(); strings.Join(got, "|") != strings.Join(wantOrder, "|") {
		t.Fatalf("names = %q, want %q", got, wantOrder)
	}

	total := 0
	for _, series := range groups.All() {
		total += len(series.Samples)
		last := -1
		for i, s := range series.Samples {
			if s.Metric != series.Metric {
				t.Fatalf("sample %+v in wrong series %s", s, series.Metric)
			}
			if s.SequenceIndex != i+1 {
				t.Fatalf("series %s: index %d at position %d", series.Metric, s.SequenceIndex, i)
			}
			pos := indexOf(input, s)
			if pos <= last {
				t.Fatalf("series %s lost input order", series.Metric)
			}
			last = pos
		}
	}
	if total != len(input) {
		t.Fatalf("partition covers %d samples, input has %d", total, len(input))
	}
	for _, s := range input {
		if s.SequenceIndex != 0 {
			t.Fatalf("input slice was modified: %+v", s)
		}
	}
}

func indexOf(samples []Sample, target Sample) int {
	for i, s := range samples {
		if strings.TrimSpace(s.Metric) == target.Metric && s.Prompt == target.Prompt && s.Value == target.Value && s.ElapsedTime == target.ElapsedTime {
			return i
		}
	}
	return -1
}

func TestGroupsNilSafe(t *testing.T) {
	var g *Groups
	if g.Len() != 0 || g.Names() != nil || g.All() != nil {
		t.Fatalf("nil groups should be empty")
	}
	if _, ok := g.Series("x"); ok {
		t.Fatalf("nil groups should find nothing")
	}
	data, err := json.Marshal(g)
	if err != nil || string(data) != "[]" {
		t.Fatalf("nil groups json = %s, %v", data, err)
	}
}

func TestAccumulateTotalsIgnoresOtherMetrics(t *testing.T) {
	totals := AccumulateTotals(sampleSet())
	want := Totals{CPU: 1.25 + 3.5 + 1.75 + 100, GPU: 2, RAM: 0.75, CO2: 0.05}
	if !closeTotals(totals, want) {
		t.Fatalf("totals = %+v, want %+v", totals, want)
	}
}

func TestAccumulateTotalsOrderIndependent(t *testing.T) {
	base := sampleSet()
	want := AccumulateTotals(base)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]Sample(nil), base...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if got := AccumulateTotals(shuffled); !closeTotals(got, want) {
			t.Fatalf("shuffle %d: totals = %+v, want %+v", i, got, want)
		}
	}
}

func closeTotals(a, b Totals) bool {
	const eps = 1e-9
	return math.Abs(a.CPU-b.CPU) < eps && math.Abs(a.GPU-b.GPU) < eps &&
		math.Abs(a.RAM-b.RAM) < eps && math.Abs(a.CO2-b.CO2) < eps
}

func TestBuildSummaryTablePolicies(t *testing.T) {
	samples := []Sample{
		{Metric: MetricRAM, Prompt: "same", Value: 2, ElapsedTime: 1},
		{Metric: MetricRAM, Prompt: "same", Value: 4, ElapsedTime: 1},
	}
	groups := GroupByMetric(samples)
	primary, ok := groups.Series(MetricRAM)
	if !ok {
		t.Fatalf("missing RAM series")
	}

	exact := BuildSummaryTable(primary, groups, IndexExact)
	if len(exact) != 2 {
		t.Fatalf("index-exact rows = %d, want 2", len(exact))
	}
	if exact[0].Index != 1 || exact[1].Index != 2 {
		t.Fatalf("unexpected indexes: %d, %d", exact[0].Index, exact[1].Index)
	}
	if exact[1].Cells[2].Display != "4.00" {
		t.Fatalf("second row RAM cell = %q", exact[1].Cells[2].Display)
	}

	averaged := BuildSummaryTable(primary, groups, PromptAveraged)
	if len(averaged) != 1 {
		t.Fatalf("averaged rows = %d, want 1", len(averaged))
	}
	ram := averaged[0].Cells[2]
	if ram.Metric != MetricRAM || ram.Value != 3 || ram.Display != "3.00" || !ram.Present {
		t.Fatalf("averaged RAM cell = %+v", ram)
	}
	if cpu := averaged[0].Cells[0]; cpu.Present || cpu.Display != Placeholder {
		t.Fatalf("absent cell should show placeholder, got %+v", cpu)
	}
}

func TestBuildSummaryTableMatchesAcrossSeries(t *testing.T) {
	groups := GroupByMetric(sampleSet())
	primary, ok := groups.Series(MetricCPU)
	if !ok {
		t.Fatalf("missing CPU series")
	}

	rows := BuildSummaryTable(primary, groups, IndexExact)
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	// p1 is CPU sample 1 and GPU sample 1, so both cells match.
	if rows[0].Cells[1].Display != "2.00" || rows[0].Cells[4].Display != "0.02" {
		t.Fatalf("row 1 cells = %+v", rows[0].Cells)
	}
	// p2 is CPU sample 2 but CO2 sample 2, RAM sample 1.
	if rows[1].Cells[4].Display != "0.03" || rows[1].Cells[2].Display != Placeholder {
		t.Fatalf("row 2 cells = %+v", rows[1].Cells)
	}

	avg := BuildSummaryTable(primary, groups, PromptAveraged)
	if len(avg) != 3 {
		t.Fatalf("averaged rows = %d, want 3", len(avg))
	}
	if avg[0].Prompt != "p1" || avg[0].Cells[0].Display != "1.50" {
		t.Fatalf("averaged p1 = %+v", avg[0])
	}
	if avg[1].Index != 2 || avg[1].Cells[2].Display != "0.75" {
		t.Fatalf("averaged p2 = %+v", avg[1])
	}
}

func TestTrimmedMetricNamesAgree(t *testing.T) {
	samples := []Sample{
		{Metric: MetricCPU, Prompt: "p1", Value: 1, ElapsedTime: 1},
		{Metric: " " + MetricCPU + " ", Prompt: "p2", Value: 2, ElapsedTime: 1},
	}
	groups := GroupByMetric(samples)
	cpu, ok := groups.Series(MetricCPU)
	if groups.Len() != 1 || !ok || len(cpu.Samples) != 2 {
		t.Fatalf("padded name should join the CPU series: %v", groups.Names())
	}
	if cpu.Samples[1].Metric != MetricCPU || cpu.Samples[1].SequenceIndex != 2 {
		t.Fatalf("unexpected sample %+v", cpu.Samples[1])
	}

	rows := BuildSummaryTable(cpu, groups, IndexExact)
	var column float64
	for _, row := range rows {
		column += row.Cells[0].Value
	}
	if total := AccumulateTotals(samples).CPU; column != total || total != 3 {
		t.Fatalf("CPU column sums to %v, totals say %v", column, total)
	}
}

func TestSummaryTablesKeepPromptsMissingFromOneMetric(t *testing.T) {
	raw := "Metric Name,Prompt,Value,Elapsed Time\n" + strings.Join([]string{
		"CPU Energy (J),p1,1,1",
		"GPU Energy (J),p1,2,1",
		"CPU Energy (J),p2,oops,1",
		"GPU Energy (J),p2,4,1",
	}, "\n")
	ds, err := Reshaper{Format: Headered, Policy: IndexExact}.Reshape(Key{}, []byte(raw))
	if err != nil {
		t.Fatalf("Reshape error: %v", err)
	}
	if ds.Dropped != 1 || len(ds.Summaries) != 2 {
		t.Fatalf("dropped %d, summaries %d", ds.Dropped, len(ds.Summaries))
	}
	if ds.Summaries[0].Metric != MetricCPU || ds.Summaries[1].Metric != MetricGPU {
		t.Fatalf("tables out of series order: %s, %s", ds.Summaries[0].Metric, ds.Summaries[1].Metric)
	}

	cpu, _ := ds.SummaryFor(MetricCPU)
	if len(cpu) != 1 || cpu[0].Prompt != "p1" {
		t.Fatalf("CPU table = %+v", cpu)
	}
	gpu, ok := ds.SummaryFor(MetricGPU)
	if !ok || len(gpu) != 2 {
		t.Fatalf("GPU table = %+v", gpu)
	}
	p2 := gpu[1]
	if p2.Prompt != "p2" || p2.Cells[1].Display != "4.00" || p2.Cells[0].Present {
		t.Fatalf("p2 row = %+v", p2)
	}
	if _, ok := ds.SummaryFor("Tokens/s"); ok {
		t.Fatalf("no table expected for an absent metric")
	}
}

func TestReshaperEnergyTotalsOnly(t *testing.T) {
	raw := []byte("CPU Usage (%),a,40,1\nCPU Energy (J),a,2,1\n")

	all, err := Reshaper{Format: Positional}.Reshape(Key{}, raw)
	if err != nil {
		t.Fatalf("Reshape error: %v", err)
	}
	if len(all.SeriesTotals) != 2 {
		t.Fatalf("series totals = %+v", all.SeriesTotals)
	}

	energy, err := Reshaper{Format: Positional, EnergyTotalsOnly: true}.Reshape(Key{}, raw)
	if err != nil {
		t.Fatalf("Reshape error: %v", err)
	}
	if len(energy.SeriesTotals) != 1 || energy.SeriesTotals[0].Metric != MetricCPU {
		t.Fatalf("energy-only totals = %+v", energy.SeriesTotals)
	}
	if len(energy.Summaries) != 2 {
		t.Fatalf("summary tables should not be filtered: %d", len(energy.Summaries))
	}
}

func TestReshaperMergesSourcesInOrder(t *testing.T) {
	r := Reshaper{Format: Positional, Policy: IndexExact}
	ds, err := r.Reshape(Key{Model: "llama"},
		[]byte("CPU Energy (J),a,1,1\nbad row\n"),
		[]byte("CPU Energy (J),b,2,1\nCarbon Emissions (gCO2),b,9.4,1\n"),
	)
	if err != nil {
		t.Fatalf("Reshape error: %v", err)
	}
	cpu, ok := ds.Groups.Series(MetricCPU)
	if !ok || len(cpu.Samples) != 2 || cpu.Samples[1].Prompt != "b" || cpu.Samples[1].SequenceIndex != 2 {
		t.Fatalf("unexpected CPU series: %+v", cpu)
	}
	if ds.Dropped != 1 {
		t.Fatalf("dropped = %d, want 1", ds.Dropped)
	}
	if ds.Totals.CPU != 3 || ds.Totals.CO2 != 9.4 {
		t.Fatalf("totals = %+v", ds.Totals)
	}
	if ds.Equivalents.PaperSheets != 2.0 {
		t.Fatalf("paper sheets = %v", ds.Equivalents.PaperSheets)
	}
	if len(ds.Summaries) != 2 || len(ds.SeriesTotals) != 2 || len(ds.Box) != 2 {
		t.Fatalf("derived sizes: summaries %d, totals %d, box %d", len(ds.Summaries), len(ds.SeriesTotals), len(ds.Box))
	}

	if _, err := r.Reshape(Key{}, []byte("")); err == nil {
		t.Fatalf("expected error for empty source")
	}
}
