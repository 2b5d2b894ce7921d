// internal/reshape/keys.go
package reshape

import (
	"path"
	"strings"
)

// KeyFunc derives the dataset key for a source from its slash-separated path
// relative to the data root. It reports false when the path does not belong
// to the view.
type KeyFunc func(rel string) (Key, bool)

const (
	historyDir      = "model_history"
	historySuffix   = "_all_metrics.csv"
	benchmarkDir    = "benchmark_results"
	benchmarkSuffix = "_benchmark_log.csv"
	uncategorized   = "uncategorized"
)

// FlatKey puts every source into one dataset.
func FlatKey(string) (Key, bool) {
	return Key{}, true
}

// ModelKey maps model_history/.../<model>_all_metrics.csv to its model.
func ModelKey(rel string) (Key, bool) {
	rel = path.Clean(strings.TrimPrefix(rel, "/"))
	file := path.Base(rel)
	if !strings.HasPrefix(rel, historyDir+"/") || !strings.HasSuffix(file, historySuffix) {
		return Key{}, false
	}
	model := strings.TrimSuffix(file, historySuffix)
	if model == "" {
		return Key{}, false
	}
	return Key{Model: model}, true
}

// BenchmarkKey maps benchmark_results/<type>/.../<model>_benchmark_log.csv to
// its benchmark type and model. Files directly under benchmark_results get
// the type "uncategorized".
func BenchmarkKey(rel string) (Key, bool) {
	rel = path.Clean(strings.TrimPrefix(rel, "/"))
	parts := strings.Split(rel, "/")
	if len(parts) < 2 || parts[0] != benchmarkDir {
		return Key{}, false
	}
	file := parts[len(parts)-1]
	if !strings.HasSuffix(file, benchmarkSuffix) {
		return Key{}, false
	}
	model := strings.TrimSuffix(file, benchmarkSuffix)
	if model == "" {
		return Key{}, false
	}
	benchType := uncategorized
	if len(parts) > 2 {
		benchType = parts[1]
	}
	return Key{BenchmarkType: benchType, Model: model}, true
}
