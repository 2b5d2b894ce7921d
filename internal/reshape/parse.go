// internal/reshape/parse.go
package reshape

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const headerMetricName = "Metric Name"

// ParseResult is the outcome of reading one source.
type ParseResult struct {
	Samples []Sample
	// Dropped counts rows that were skipped because a field was missing,
	// empty or not a finite number.
	Dropped int
}

// columns holds record positions for each Sample field. A negative prompt
// position means the format carries no prompt.
type columns struct {
	metric, prompt, value, elapsed int
}

var (
	positionalColumns = columns{metric: 0, prompt: 1, value: 2, elapsed: 3}
	monitorColumns    = columns{metric: 0, prompt: -1, value: 1, elapsed: 2}
)

// ParseRows reads raw delimited text into samples in input order. Malformed
// rows are counted and skipped. Only an empty source, an unusable header or a
// read failure is returned as an error.
func ParseRows(raw []byte, format Format) (ParseResult, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ParseResult{}, ErrEmptySource
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var (
		result ParseResult
		cols   columns
		first  = true
	)
	switch format {
	case Positional:
		cols = positionalColumns
	case MonitorTriplet:
		cols = monitorColumns
	case Headered:
	default:
		return ParseResult{}, fmt.Errorf("unsupported format %s", format)
	}

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Lazy quotes and a variable field count leave only I/O failures.
			return ParseResult{}, fmt.Errorf("read rows: %w", err)
		}

		if first {
			first = false
			if len(record) > 0 {
				record[0] = strings.TrimPrefix(record[0], "\ufeff")
			}
			if format == Headered {
				cols, err = headerColumns(record)
				if err != nil {
					return ParseResult{}, err
				}
				continue
			}
			if isHeaderRecord(record) {
				continue
			}
		}

		sample, ok := sampleFromRecord(record, cols)
		if !ok {
			result.Dropped++
			continue
		}
		result.Samples = append(result.Samples, sample)
	}

	return result, nil
}

func isHeaderRecord(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), headerMetricName)
}

func headerColumns(record []string) (columns, error) {
	cols := columns{metric: -1, prompt: -1, value: -1, elapsed: -1}
	for i, name := range record {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "metric name":
			cols.metric = i
		case "prompt":
			cols.prompt = i
		case "value":
			cols.value = i
		case "elapsed time":
			cols.elapsed = i
		}
	}

	var missing []string
	if cols.metric < 0 {
		missing = append(missing, "Metric Name")
	}
	if cols.prompt < 0 {
		missing = append(missing, "Prompt")
	}
	if cols.value < 0 {
		missing = append(missing, "Value")
	}
	if cols.elapsed < 0 {
		missing = append(missing, "Elapsed Time")
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return cols, nil
}

func sampleFromRecord(record []string, cols columns) (Sample, bool) {
	field := func(i int) (string, bool) {
		if i < 0 || i >= len(record) {
			return "", false
		}
		v := strings.TrimSpace(record[i])
		return v, v != ""
	}

	metric, ok := field(cols.metric)
	if !ok {
		return Sample{}, false
	}
	prompt := MonitorPrompt
	if cols.prompt >= 0 {
		if prompt, ok = field(cols.prompt); !ok {
			return Sample{}, false
		}
	}
	value, ok := finiteField(field(cols.value))
	if !ok {
		return Sample{}, false
	}
	elapsed, ok := finiteField(field(cols.elapsed))
	if !ok || elapsed < 0 {
		return Sample{}, false
	}

	return Sample{
		Metric:      metric,
		Prompt:      prompt,
		Value:       value,
		ElapsedTime: elapsed,
	}, true
}

func finiteField(raw string, present bool) (float64, bool) {
	if !present {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
