// internal/reshape/reshaper.go
package reshape

// Dataset is the display model for one grouping key.
type Dataset struct {
	Key          Key               `json:"key"`
	Sources      []string          `json:"sources,omitempty"`
	Groups       *Groups           `json:"series"`
	Totals       Totals            `json:"totals"`
	Summaries    []MetricSummary   `json:"summaries"`
	SeriesTotals []SeriesTotal     `json:"seriesTotals"`
	Box          []BoxStats        `json:"box"`
	Distribution []Slice           `json:"distribution"`
	Equivalents  CarbonEquivalents `json:"equivalents"`
	Dropped      int               `json:"dropped"`
}

// SummaryFor returns the summary table built around metric.
func (d Dataset) SummaryFor(metric string) ([]SummaryRow, bool) {
	for _, ms := range d.Summaries {
		if ms.Metric == metric {
			return ms.Rows, true
		}
	}
	return nil, false
}

// Reshaper runs the parse, group, total and summarise pipeline with one
// parse strategy, one matching policy and one grouping key function.
type Reshaper struct {
	Format  Format
	Policy  MatchPolicy
	KeyFunc KeyFunc
	// EnergyTotalsOnly limits SeriesTotals to energy series.
	EnergyTotalsOnly bool
}

// Source is one parsed input and its path relative to the data root.
type Source struct {
	Path   string
	Result ParseResult
}

// Parse reads one source with the configured format.
func (r Reshaper) Parse(raw []byte) (ParseResult, error) {
	return ParseRows(raw, r.Format)
}

// Reshape parses raw sources that share a key and builds their dataset.
// Sources are merged in the order given. A source that fails to parse stops
// the reshape and its error is returned.
func (r Reshaper) Reshape(key Key, raws ...[]byte) (Dataset, error) {
	parsed := make([]ParseResult, 0, len(raws))
	for _, raw := range raws {
		res, err := r.Parse(raw)
		if err != nil {
			return Dataset{}, err
		}
		parsed = append(parsed, res)
	}
	return r.Build(key, parsed...), nil
}

// Build derives a dataset from already parsed sources.
func (r Reshaper) Build(key Key, parsed ...ParseResult) Dataset {
	var (
		samples []Sample
		dropped int
	)
	for _, p := range parsed {
		samples = append(samples, p.Samples...)
		dropped += p.Dropped
	}

	groups := GroupByMetric(samples)
	ds := Dataset{
		Key:          key,
		Groups:       groups,
		Totals:       AccumulateTotals(samples),
		Summaries:    SummaryTables(groups, r.Policy),
		SeriesTotals: SeriesTotals(groups),
		Dropped:      dropped,
	}
	if r.EnergyTotalsOnly {
		ds.SeriesTotals = EnergyTotals(ds.SeriesTotals)
	}
	for _, series := range groups.All() {
		ds.Box = append(ds.Box, Box(series.Metric, series.Values()))
	}
	ds.Distribution = EnergyDistribution(ds.Totals)
	ds.Equivalents = Equivalents(ds.Totals.CO2)
	return ds
}

// BuildAll groups sources by key in first-seen order and builds one dataset
// per key. Sources the key function rejects are skipped. A nil KeyFunc puts
// everything into one dataset.
func (r Reshaper) BuildAll(sources []Source) []Dataset {
	keyFn := r.KeyFunc
	if keyFn == nil {
		keyFn = FlatKey
	}
	var (
		order   []Key
		parsed  = make(map[Key][]ParseResult)
		origins = make(map[Key][]string)
	)
	for _, src := range sources {
		key, ok := keyFn(src.Path)
		if !ok {
			continue
		}
		if _, seen := parsed[key]; !seen {
			order = append(order, key)
		}
		parsed[key] = append(parsed[key], src.Result)
		origins[key] = append(origins[key], src.Path)
	}

	out := make([]Dataset, 0, len(order))
	for _, key := range order {
		ds := r.Build(key, parsed[key]...)
		ds.Sources = origins[key]
		out = append(out, ds)
	}
	return out
}
