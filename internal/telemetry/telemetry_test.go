package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	r := New()
	r.ObserveLoad("history", "ready", 20*time.Millisecond)
	r.ObserveLoad("history", "ready", 10*time.Millisecond)
	r.ObserveLoad("history", "failed", time.Millisecond)
	r.AddDropped("history", 3)
	r.AddDropped("history", 0)
	r.SourceFailed("history")
	r.ObserveRefresh(true, 12)
	r.ObserveRefresh(false, 0)

	if got := testutil.ToFloat64(r.loads.WithLabelValues("history", "ready")); got != 2 {
		t.Fatalf("ready loads = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.droppedRows.WithLabelValues("history")); got != 3 {
		t.Fatalf("dropped rows = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.sourceErrors.WithLabelValues("history")); got != 1 {
		t.Fatalf("source errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.manifestFiles); got != 12 {
		t.Fatalf("manifest files = %v, want 12", got)
	}
	if got := testutil.ToFloat64(r.refreshes.WithLabelValues("false")); got != 1 {
		t.Fatalf("failed refreshes = %v, want 1", got)
	}

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "greenview_view_load_duration_seconds" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected load duration histogram in gathered families")
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveLoad("x", "ready", time.Second)
	r.AddDropped("x", 1)
	r.SourceFailed("x")
	r.ObserveRefresh(true, 1)
	if _, err := r.Gatherer().Gather(); err != nil {
		t.Fatalf("Gather on nil recorder: %v", err)
	}
}
