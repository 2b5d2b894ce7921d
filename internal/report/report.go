// internal/report/report.go
// Package report renders view models as standalone HTML pages and PNG
// snapshots.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/go-echarts/go-echarts/v2/components"

	"github.com/mwiater/greenview/internal/reshape"
	"github.com/mwiater/greenview/internal/views"
)

// HTML renders the model as one page: the summary fragment followed by the
// charts for every dataset.
func HTML(m *views.Model) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("report: nil model")
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("greenview: %s", m.Title)
	for _, ds := range m.Datasets {
		page.AddCharts(distributionChart(ds))
		for _, series := range ds.Groups.All() {
			page.AddCharts(seriesChart(m.Chart, ds, series))
		}
	}
	if len(m.Datasets) > 1 {
		for _, metric := range reshape.DisplayedMetrics {
			if chart, ok := comparisonChart(metric, m.Datasets); ok {
				page.AddCharts(chart)
			}
		}
	}

	var buf strings.Builder
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("render charts: %w", err)
	}

	fragment, err := summaryFragment(m)
	if err != nil {
		return nil, err
	}
	html := buf.String()
	html = strings.Replace(html, "</head>", pageCSS+"</head>", 1)
	html = strings.Replace(html, "<body>", "<body>\n"+fragment, 1)
	return []byte(html), nil
}

type summaryPage struct {
	Title       string
	View        string
	Policy      string
	LoadedAt    string
	Dropped     int
	Headers     []string
	Datasets    []datasetSection
	Rankings    []reshape.Ranking
	Diagnostics []views.Diagnostic
}

type datasetSection struct {
	Name         string
	Sources      []string
	Totals       reshape.Totals
	Energy       float64
	Equivalents  []string
	Tables       []reshape.MetricSummary
	SeriesTotals []string
	Dropped      int
}

func summaryFragment(m *views.Model) (string, error) {
	data := summaryPage{
		Title:       m.Title,
		View:        m.View,
		Policy:      m.Policy.String(),
		LoadedAt:    m.LoadedAt.Format("2006-01-02 15:04:05"),
		Dropped:     m.Dropped(),
		Headers:     reshape.DisplayedMetrics,
		Rankings:    m.Rankings,
		Diagnostics: m.Diagnostics,
	}
	for _, ds := range m.Datasets {
		section := datasetSection{
			Name:        ds.Key.String(),
			Sources:     ds.Sources,
			Totals:      ds.Totals,
			Energy:      ds.Totals.Energy(),
			Equivalents: ds.Equivalents.Lines(),
			Tables:      ds.Summaries,
			Dropped:     ds.Dropped,
		}
		for _, st := range ds.SeriesTotals {
			section.SeriesTotals = append(section.SeriesTotals, st.String())
		}
		data.Datasets = append(data.Datasets, section)
	}

	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return buf.String(), nil
}

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"two": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(summaryTemplateHTML))

const pageCSS = `<style>
.gv-summary { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 16px 24px; color: #1f2933; }
.gv-summary h1 { font-size: 22px; margin-bottom: 4px; }
.gv-summary h3 { font-size: 15px; margin: 12px 0 0; }
.gv-summary .meta { color: #616e7c; font-size: 13px; }
.gv-summary table { border-collapse: collapse; margin: 8px 0 16px; font-size: 13px; }
.gv-summary th, .gv-summary td { border: 1px solid #cbd2d9; padding: 4px 8px; text-align: right; }
.gv-summary th:first-child, .gv-summary td.prompt { text-align: left; }
.gv-summary .missing { color: #9aa5b1; }
.gv-summary .diag { color: #ab091e; }
</style>
`

const summaryTemplateHTML = `<div class="gv-summary">
<h1>{{.Title}}</h1>
<p class="meta">view {{.View}} | policy {{.Policy}} | loaded {{.LoadedAt}}{{if .Dropped}} | {{.Dropped}} rows skipped{{end}}</p>
{{- if .Rankings}}
<h2>Ranking by emissions</h2>
<table>
<tr><th>#</th><th>Dataset</th><th>gCO2</th><th>Energy (J)</th></tr>
{{- range .Rankings}}
<tr><td>{{.Rank}}</td><td class="prompt">{{.Key}}</td><td>{{two .CO2}}</td><td>{{two .Energy}}</td></tr>
{{- end}}
</table>
{{- end}}
{{- $headers := .Headers}}
{{- range .Datasets}}
<section class="dataset">
<h2>{{.Name}}</h2>
{{- if .Sources}}<p class="meta">{{range $i, $s := .Sources}}{{if $i}}, {{end}}{{$s}}{{end}}</p>{{end}}
<p>CPU {{two .Totals.CPU}} J | GPU {{two .Totals.GPU}} J | RAM {{two .Totals.RAM}} J | energy {{two .Energy}} J | {{two .Totals.CO2}} gCO2</p>
<ul>{{range .Equivalents}}<li>{{.}}</li>{{end}}</ul>
{{- range .Tables}}
<h3>{{.Metric}}</h3>
<table>
<tr><th>#</th><th>Prompt</th>{{range $headers}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
<tr><td>{{.Index}}</td><td class="prompt">{{.Prompt}}</td>{{range .Cells}}<td{{if not .Present}} class="missing"{{end}}>{{.Display}}</td>{{end}}</tr>
{{- end}}
</table>
{{- end}}
<ul>{{range .SeriesTotals}}<li>{{.}}</li>{{end}}</ul>
{{- if .Dropped}}<p class="meta">{{.Dropped}} rows skipped</p>{{end}}
</section>
{{- end}}
{{- if .Diagnostics}}
<h2>Unavailable sources</h2>
<ul class="diag">{{range .Diagnostics}}<li>{{.Source}}: {{.Error}}</li>{{end}}</ul>
{{- end}}
</div>
`
