package report

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/greenview/internal/reshape"
	"github.com/mwiater/greenview/internal/views"
)

const header = "Metric Name,Prompt,Value,Elapsed Time\n"

func dataset(t *testing.T, key reshape.Key, body string) reshape.Dataset {
	t.Helper()
	r := reshape.Reshaper{Format: reshape.Headered, Policy: reshape.IndexExact}
	ds, err := r.Reshape(key, []byte(header+body))
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	return ds
}

func historyModel(t *testing.T) *views.Model {
	t.Helper()
	llama := dataset(t, reshape.Key{Model: "llama"},
		"CPU Energy (J),hello,10,1\nGPU Energy (J),hello,4,1\nCarbon Emissions (gCO2),hello,40,1\nCPU Energy (J),bye,6,2\n")
	phi := dataset(t, reshape.Key{Model: "phi"},
		"CPU Energy (J),hello,2,1\nCarbon Emissions (gCO2),hello,1,1\n")
	datasets := []reshape.Dataset{llama, phi}
	return &views.Model{
		View:        views.History,
		Title:       "Model History Report",
		Policy:      reshape.IndexExact,
		Chart:       views.ChartLine,
		Datasets:    datasets,
		Rankings:    reshape.RankByCO2(datasets),
		Diagnostics: []views.Diagnostic{{Source: "model_history/broken_all_metrics.csv", Error: "connection reset"}},
		LoadedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestHTMLRendersSummaryAndCharts(t *testing.T) {
	out, err := HTML(historyModel(t))
	if err != nil {
		t.Fatalf("HTML error: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`<div class="gv-summary">`,
		"Model History Report",
		"loaded 2024-05-01 12:00:00",
		"Ranking by emissions",
		"<th>Carbon Emissions (gCO2)</th>",
		`class="missing">-</td>`,
		"8.5 sheets of A4 paper",
		"Total CPU Energy (J): 16.00 over 3.00 seconds",
		"model_history/broken_all_metrics.csv: connection reset",
		"Energy distribution",
		"Per dataset spread",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Index(html, "gv-summary") > strings.Index(html, "Energy distribution") {
		t.Errorf("summary fragment should precede the charts")
	}
	for _, metric := range []string{"CPU Energy (J)", "GPU Energy (J)", "Carbon Emissions (gCO2)"} {
		if !strings.Contains(html, "<h3>"+metric+"</h3>") {
			t.Errorf("report missing the %s table", metric)
		}
	}
}

func TestHTMLTableForMetricWithoutPrimaryPrompts(t *testing.T) {
	m := historyModel(t)
	m.Datasets = []reshape.Dataset{dataset(t, reshape.Key{Model: "llama"},
		"CPU Energy (J),p1,1,1\nGPU Energy (J),p1,2,1\nCPU Energy (J),p2,oops,1\nGPU Energy (J),p2,4,1\n")}
	m.Rankings = nil

	out, err := HTML(m)
	if err != nil {
		t.Fatalf("HTML error: %v", err)
	}
	html := string(out)
	gpu := strings.Index(html, "<h3>GPU Energy (J)</h3>")
	if gpu < 0 {
		t.Fatalf("missing GPU table")
	}
	if !strings.Contains(html[gpu:], `<td class="prompt">p2</td>`) {
		t.Fatalf("p2 should be listed under the GPU table")
	}
	if strings.Contains(html[:gpu], `<td class="prompt">p2</td>`) {
		t.Fatalf("p2 has no CPU sample and should not appear in the CPU table")
	}
}

func TestHTMLSingleDatasetHasNoComparison(t *testing.T) {
	m := historyModel(t)
	m.Datasets = m.Datasets[:1]
	m.Rankings = nil
	m.Diagnostics = nil
	m.Chart = views.ChartBar

	out, err := HTML(m)
	if err != nil {
		t.Fatalf("HTML error: %v", err)
	}
	html := string(out)
	if strings.Contains(html, "Per dataset spread") || strings.Contains(html, "Ranking by emissions") {
		t.Fatalf("single dataset report should not compare datasets")
	}
	if strings.Contains(html, "Unavailable sources") {
		t.Fatalf("no diagnostics expected")
	}
}

func TestHTMLNilModel(t *testing.T) {
	if _, err := HTML(nil); err == nil {
		t.Fatalf("expected error for nil model")
	}
}

func TestPNGSnapshot(t *testing.T) {
	m := historyModel(t)
	var buf bytes.Buffer
	if err := PNG(m.Title, m.Datasets[0], &buf); err != nil {
		t.Fatalf("PNG error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != SnapshotWidth || b.Dy() != SnapshotHeight {
		t.Fatalf("unexpected size %v", b)
	}
}

func TestPNGWithoutEnergy(t *testing.T) {
	var buf bytes.Buffer
	if err := PNG("empty", reshape.Dataset{}, &buf); err != nil {
		t.Fatalf("PNG error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected image bytes")
	}
}

func TestIndexListsViews(t *testing.T) {
	out, err := Index(views.NewRegistry(nil).All())
	if err != nil {
		t.Fatalf("Index error: %v", err)
	}
	html := string(out)
	for _, name := range []string{views.Conversation, views.History, views.Benchmark, views.Monitor, views.BenchmarkLog} {
		if !strings.Contains(html, `href="/reports/`+name+`"`) {
			t.Errorf("index missing link to %s", name)
		}
	}
	if !strings.Contains(html, "policy average") || !strings.Contains(html, "policy index") {
		t.Errorf("index missing policy labels: %s", html)
	}
}
