// internal/report/charts.go
package report

import (
	"fmt"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mwiater/greenview/internal/reshape"
	"github.com/mwiater/greenview/internal/views"
)

var chartSize = opts.Initialization{
	Width:  "100%",
	Height: "450px",
}

func distributionChart(ds reshape.Dataset) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Energy distribution",
			Subtitle: fmt.Sprintf("%s | %.2f J", ds.Key, ds.Totals.Energy()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithInitializationOpts(chartSize),
	)

	data := make([]opts.PieData, 0, 3)
	for _, s := range reshape.EnergyDistribution(ds.Totals) {
		data = append(data, opts.PieData{Name: s.Label, Value: s.Value})
	}
	pie.AddSeries("Energy (J)", data)
	return pie
}

// seriesChart plots one metric. Time charts use elapsed seconds on the x
// axis; the others use the sample's position in its series.
func seriesChart(kind views.Chart, ds reshape.Dataset, series reshape.Series) components.Charter {
	labels := make([]string, len(series.Samples))
	for i, s := range series.Samples {
		if kind == views.ChartTime {
			labels[i] = strconv.FormatFloat(s.ElapsedTime, 'f', 2, 64)
		} else {
			labels[i] = strconv.Itoa(s.SequenceIndex)
		}
	}
	xName := "Prompt"
	if kind == views.ChartTime {
		xName = "Elapsed (s)"
	}
	global := []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{
			Title:    series.Metric,
			Subtitle: ds.Key.String(),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: xName,
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: series.Metric,
			Type: "value",
		}),
		charts.WithInitializationOpts(chartSize),
	}

	if kind == views.ChartBar {
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		data := make([]opts.BarData, len(series.Samples))
		for i, s := range series.Samples {
			data[i] = opts.BarData{Name: s.Prompt, Value: s.Value}
		}
		bar.SetXAxis(labels).AddSeries(series.Metric, data)
		return bar
	}

	line := charts.NewLine()
	line.SetGlobalOptions(append(global, charts.WithDataZoomOpts(opts.DataZoom{
		Type:  "slider",
		Start: 0,
		End:   100,
	}))...)
	data := make([]opts.LineData, len(series.Samples))
	for i, s := range series.Samples {
		data[i] = opts.LineData{Name: s.Prompt, Value: s.Value}
	}
	line.SetXAxis(labels).AddSeries(series.Metric, data,
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(true),
			ShowSymbol: opts.Bool(true),
		}),
	)
	return line
}

// comparisonChart draws one box per dataset for a metric. It reports false
// when no dataset carries the metric.
func comparisonChart(metric string, datasets []reshape.Dataset) (*charts.BoxPlot, bool) {
	var (
		names []string
		data  []opts.BoxPlotData
	)
	for _, ds := range datasets {
		for _, b := range ds.Box {
			if b.Metric != metric || b.Count == 0 {
				continue
			}
			names = append(names, ds.Key.String())
			data = append(data, opts.BoxPlotData{Name: ds.Key.String(), Value: b.Five()})
		}
	}
	if len(data) == 0 {
		return nil, false
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    metric,
			Subtitle: "Per dataset spread",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithInitializationOpts(chartSize),
	)
	box.SetXAxis(names).AddSeries(metric, data)
	return box, true
}
