package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_ObserveTick(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.ObserveTick("proc", 120, 3, 20*time.Millisecond, nil)
	r.ObserveTick("proc", 118, 0, 30*time.Millisecond, nil)
	r.ObserveTick("proc", 0, 0, 10*time.Millisecond, errors.New("readdir failed"))

	if got := testutil.ToFloat64(r.ticks.WithLabelValues("proc", ResultOK)); got != 2 {
		t.Errorf("ok ticks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.ticks.WithLabelValues("proc", ResultError)); got != 1 {
		t.Errorf("error ticks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.rows.WithLabelValues("proc")); got != 238 {
		t.Errorf("rows = %v, want 238", got)
	}
	if got := testutil.ToFloat64(r.skipped.WithLabelValues("proc")); got != 3 {
		t.Errorf("skipped = %v, want 3", got)
	}
}

func TestRecorder_Summary(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.ObserveTick("sys", 1, 0, 10*time.Millisecond, nil)
	r.ObserveTick("sys", 1, 0, 30*time.Millisecond, nil)
	r.ObserveTick("sys", 0, 0, 20*time.Millisecond, errors.New("meminfo"))

	s, err := r.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.Ticks != 3 || s.FailedTicks != 1 || s.Rows != 2 || s.Skipped != 0 {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.MeanTick < 19*time.Millisecond || s.MeanTick > 21*time.Millisecond {
		t.Errorf("MeanTick = %v, want about 20ms", s.MeanTick)
	}
	if s.Runtime.Sys == 0 {
		t.Error("runtime snapshot should be populated")
	}
}

func TestRecorder_EmptySummary(t *testing.T) {
	t.Parallel()
	s, err := NewRecorder().Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.Ticks != 0 || s.MeanTick != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestRecorder_RegistryContents(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.ObserveTick("mount", 30, 1, time.Millisecond, nil)

	families, err := r.registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	joined := strings.Join(names, " ")
	for _, want := range []string{"statsdump_ticks_total", "statsdump_rows_total", "statsdump_skipped_entities_total", "statsdump_tick_duration_seconds", "go_goroutines"} {
		if !strings.Contains(joined, want) {
			t.Errorf("registry should contain %s", want)
		}
	}
}

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	snap := mc.Snapshot()

	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
}
