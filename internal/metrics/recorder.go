// Package metrics records statsdump's own activity: ticks, rows and skipped
// entities per collector, and tick durations. The registry is private and
// never served; Summary reads it back for the shutdown log line.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "statsdump"

// Tick results.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Recorder accumulates sampling metrics in its own registry.
type Recorder struct {
	registry *prometheus.Registry
	ticks    *prometheus.CounterVec
	rows     *prometheus.CounterVec
	skipped  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with a fresh registry that also carries the
// Go runtime collector.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Sampling ticks by collector and result.",
		}, []string{"collector", "result"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "CSV rows written by collector.",
		}, []string{"collector"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_entities_total",
			Help:      "Processes or mount lines skipped because they vanished or could not be parsed.",
		}, []string{"collector"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent collecting and writing one tick.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"collector"}),
	}
	r.registry.MustRegister(r.ticks, r.rows, r.skipped, r.duration, collectors.NewGoCollector())
	return r
}

// ObserveTick records one tick. A non-nil err marks the tick as failed.
func (r *Recorder) ObserveTick(collector string, rows, skipped int, d time.Duration, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	r.ticks.WithLabelValues(collector, result).Inc()
	r.rows.WithLabelValues(collector).Add(float64(rows))
	r.skipped.WithLabelValues(collector).Add(float64(skipped))
	r.duration.WithLabelValues(collector).Observe(d.Seconds())
}

// Summary aggregates the recorded metrics over all collectors.
type Summary struct {
	Ticks       uint64
	FailedTicks uint64
	Rows        uint64
	Skipped     uint64
	MeanTick    time.Duration
	Runtime     MemorySnapshot
}

// Summary gathers the registry and totals every statsdump series.
func (r *Recorder) Summary() (Summary, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return Summary{}, err
	}

	var (
		s          Summary
		sumSeconds float64
		count      uint64
	)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch mf.GetName() {
			case namespace + "_ticks_total":
				v := uint64(m.GetCounter().GetValue())
				s.Ticks += v
				if labelValue(m, "result") == ResultError {
					s.FailedTicks += v
				}
			case namespace + "_rows_total":
				s.Rows += uint64(m.GetCounter().GetValue())
			case namespace + "_skipped_entities_total":
				s.Skipped += uint64(m.GetCounter().GetValue())
			case namespace + "_tick_duration_seconds":
				sumSeconds += m.GetHistogram().GetSampleSum()
				count += m.GetHistogram().GetSampleCount()
			}
		}
	}
	if count > 0 {
		s.MeanTick = time.Duration(sumSeconds / float64(count) * float64(time.Second))
	}
	s.Runtime = NewMemoryCollector().Snapshot()
	return s, nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
