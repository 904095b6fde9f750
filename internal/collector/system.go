package collector

import (
	"context"

	apperrors "github.com/agbru/statsdump/internal/errors"
	"github.com/agbru/statsdump/internal/logging"
	"github.com/agbru/statsdump/internal/source"
)

// SystemHeader is the header of system rows.
var SystemHeader = []string{
	"id", "time_ms", "mem_total", "mem_free", "mem_buffers", "mem_cached",
	"load_avg_1", "load_avg_5", "load_avg_15",
}

// System emits one row per tick with memory counters in bytes and the load
// averages.
type System struct {
	src    source.SystemInfoSource
	id     string
	logger logging.Logger
}

// NewSystem returns a system collector tagging rows with id.
func NewSystem(src source.SystemInfoSource, id string, logger logging.Logger) *System {
	return &System{src: src, id: id, logger: orNop(logger)}
}

func (s *System) Name() string     { return "sys" }
func (s *System) Header() []string { return SystemHeader }

// Check reads meminfo and the load averages once.
func (s *System) Check(ctx context.Context) error {
	if _, err := s.src.Memory(ctx); err != nil {
		return sourceError(s.src, err)
	}
	if _, err := s.src.LoadAverage(ctx); err != nil {
		return sourceError(s.src, err)
	}
	return nil
}

// Collect implements Collector. Meminfo fields the source does not report
// are emitted as 0.
func (s *System) Collect(ctx context.Context, timeMs int64) (Batch, error) {
	mem, err := s.src.Memory(ctx)
	if err != nil {
		return Batch{}, apperrors.WrapError(err, "memory")
	}
	if len(mem.Missing) > 0 {
		s.logger.Debug("meminfo fields missing, reported as 0", logging.Strings("fields", mem.Missing))
	}
	load, err := s.src.LoadAverage(ctx)
	if err != nil {
		return Batch{}, apperrors.WrapError(err, "load average")
	}

	sample := SystemSample{
		ID:         s.id,
		TimeMs:     timeMs,
		MemTotal:   mem.TotalKiB * 1024,
		MemFree:    mem.FreeKiB * 1024,
		MemBuffers: mem.BuffersKiB * 1024,
		MemCached:  mem.CachedKiB * 1024,
		LoadAvg1:   load.Load1,
		LoadAvg5:   load.Load5,
		LoadAvg15:  load.Load15,
	}
	return Batch{Rows: []Row{sample.Row()}}, nil
}

// SystemSample is one system row.
type SystemSample struct {
	ID         string
	TimeMs     int64
	MemTotal   uint64
	MemFree    uint64
	MemBuffers uint64
	MemCached  uint64
	LoadAvg1   float64
	LoadAvg5   float64
	LoadAvg15  float64
}

// Row renders the sample in header order.
func (s SystemSample) Row() Row {
	return Row{
		s.ID,
		formatInt(s.TimeMs),
		formatUint(s.MemTotal),
		formatUint(s.MemFree),
		formatUint(s.MemBuffers),
		formatUint(s.MemCached),
		formatFloat(s.LoadAvg1),
		formatFloat(s.LoadAvg5),
		formatFloat(s.LoadAvg15),
	}
}
