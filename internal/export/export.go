// internal/export/export.go
// Package export writes view models as JSON, YAML or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/mwiater/greenview/internal/reshape"
	"github.com/mwiater/greenview/internal/views"
)

// Format names an export encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	CSV  Format = "csv"
)

// Formats lists the supported encodings.
var Formats = []Format{JSON, YAML, CSV}

// ParseFormat maps a flag value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case JSON, YAML, CSV:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want json, yaml or csv)", s)
	}
}

// Write encodes m to w.
func Write(w io.Writer, m *views.Model, format Format) error {
	if m == nil {
		return fmt.Errorf("export: nil model")
	}
	switch format {
	case JSON:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case YAML:
		node, err := yamlNode(m)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return err
		}
		return enc.Close()
	case CSV:
		return writeCSV(w, m)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// yamlNode reuses the JSON field names and order. JSON parses as flow
// style YAML, so styles are cleared to emit block style.
func yamlNode(m *views.Model) (*yaml.Node, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	clearStyle(&doc)
	return &doc, nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

// writeCSV emits one line per summary row, prefixed with its dataset and the
// metric whose table it belongs to.
func writeCSV(w io.Writer, m *views.Model) error {
	cw := csv.NewWriter(w)
	head := append([]string{"Dataset", "Metric", "Index", "Prompt"}, reshape.DisplayedMetrics...)
	if err := cw.Write(head); err != nil {
		return err
	}
	for _, ds := range m.Datasets {
		for _, table := range ds.Summaries {
			for _, row := range table.Rows {
				record := []string{ds.Key.String(), table.Metric, strconv.Itoa(row.Index), row.Prompt}
				for _, cell := range row.Cells {
					record = append(record, cell.Display)
				}
				if err := cw.Write(record); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
