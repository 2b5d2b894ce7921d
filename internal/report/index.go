// internal/report/index.go
package report

import (
	"bytes"
	"html/template"

	"github.com/mwiater/greenview/internal/views"
)

type indexEntry struct {
	Name        string
	Title       string
	Description string
	Policy      string
}

// Index renders the home page listing every view with links to its report
// and JSON model.
func Index(defs []views.Definition) ([]byte, error) {
	entries := make([]indexEntry, 0, len(defs))
	for _, d := range defs {
		entries = append(entries, indexEntry{
			Name:        d.Name,
			Title:       d.Title,
			Description: d.Description,
			Policy:      d.Policy.String(),
		})
	}
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>greenview</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 32px; color: #1f2933; }
li { margin: 12px 0; }
.meta { color: #616e7c; font-size: 13px; }
</style>
</head>
<body>
<h1>greenview</h1>
<p class="meta">Energy and carbon reports for benchmark runs.</p>
<ul>
{{- range .}}
<li><a href="/reports/{{.Name}}">{{.Title}}</a> <span class="meta">{{.Description}} | policy {{.Policy}} | <a href="/api/views/{{.Name}}">json</a></span></li>
{{- end}}
</ul>
</body>
</html>
`))
