// internal/manifest/manifest.go
// Package manifest builds, validates and filters the file-list.json manifest
// that tells views which benchmark logs exist.
package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// DefaultFile is the manifest name under the data root.
const DefaultFile = "file-list.json"

var schemaLoader = gojsonschema.NewGoLoader(map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string", "minLength": 1},
})

// Scan walks root and returns every .csv file (case-insensitive) as a
// slash-separated path relative to root, sorted.
func Scan(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsDataFile(p) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Strings(files)
	if files == nil {
		files = []string{}
	}
	return files, nil
}

// IsDataFile reports whether a path names a CSV log.
func IsDataFile(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".csv")
}

// Encode renders the manifest as indented JSON.
func Encode(files []string) ([]byte, error) {
	if files == nil {
		files = []string{}
	}
	data, err := json.MarshalIndent(files, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("unable to marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile writes the manifest to a temp file next to dest and renames it
// into place, so readers see either the old or the new listing.
func WriteFile(dest string, files []string) error {
	data, err := Encode(files)
	if err != nil {
		return err
	}
	dir := filepath.Dir(dest)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create directory for %s: %w", dest, err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp manifest: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp manifest: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		cleanup()
		return fmt.Errorf("replace manifest %s: %w", dest, err)
	}
	return nil
}

// Generate scans root and writes the manifest to dest. It returns the listed files.
func Generate(root, dest string) ([]string, error) {
	files, err := Scan(root)
	if err != nil {
		return nil, err
	}
	if err := WriteFile(dest, files); err != nil {
		return nil, err
	}
	return files, nil
}

// Parse validates a manifest payload against its schema and decodes it.
func Parse(raw []byte) ([]string, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("manifest is not valid JSON: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("manifest failed validation: %s", strings.Join(problems, "; "))
	}

	var files []string
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return files, nil
}

// Filter keeps entries under prefix (a directory, matched by path segment)
// that end with suffix, in manifest order. Empty prefix or suffix matches all.
func Filter(files []string, prefix, suffix string) []string {
	prefix = strings.Trim(prefix, "/")
	var out []string
	for _, f := range files {
		clean := strings.TrimPrefix(path.Clean("/"+f), "/")
		if prefix != "" && !strings.HasPrefix(clean, prefix+"/") {
			continue
		}
		if suffix != "" && !strings.HasSuffix(clean, suffix) {
			continue
		}
		out = append(out, clean)
	}
	return out
}

// HistoryFiles returns model_history/**/*_all_metrics.csv entries.
func HistoryFiles(files []string) []string {
	return Filter(files, "model_history", "_all_metrics.csv")
}

// BenchmarkFiles returns benchmark_results/**/*_benchmark_log.csv entries.
func BenchmarkFiles(files []string) []string {
	return Filter(files, "benchmark_results", "_benchmark_log.csv")
}
