package collector

import (
	"context"
	"strings"

	apperrors "github.com/agbru/statsdump/internal/errors"
	"github.com/agbru/statsdump/internal/logging"
	"github.com/agbru/statsdump/internal/source"
)

// MountHeader is the header of mount rows.
var MountHeader = []string{"time_ms", "source", "dest", "fstype", "options", "dump", "pass"}

// UsageHeader lists the columns appended with --usage.
var UsageHeader = []string{"used_kb", "available_kb", "total_kb", "use_pc"}

// Mount emits one row per mount table entry.
type Mount struct {
	src    source.SystemInfoSource
	usage  bool
	logger logging.Logger
}

// NewMount returns a mount collector. With usage set, rows carry statfs
// usage of each mount point.
func NewMount(src source.SystemInfoSource, usage bool, logger logging.Logger) *Mount {
	return &Mount{src: src, usage: usage, logger: orNop(logger)}
}

func (m *Mount) Name() string { return "mount" }

func (m *Mount) Header() []string {
	if !m.usage {
		return MountHeader
	}
	h := make([]string, 0, len(MountHeader)+len(UsageHeader))
	h = append(h, MountHeader...)
	return append(h, UsageHeader...)
}

// Check reads the mount table once.
func (m *Mount) Check(ctx context.Context) error {
	if _, err := m.src.Mounts(ctx); err != nil {
		return sourceError(m.src, err)
	}
	return nil
}

// Collect implements Collector. Entries keep the mount table order.
func (m *Mount) Collect(ctx context.Context, timeMs int64) (Batch, error) {
	table, err := m.src.Mounts(ctx)
	if err != nil {
		return Batch{}, apperrors.WrapError(err, "mount table")
	}
	if table.Malformed > 0 {
		m.logger.Debug("malformed mount lines skipped", logging.Int("count", table.Malformed))
	}

	batch := Batch{Rows: make([]Row, 0, len(table.Entries)), Skipped: table.Malformed}
	for _, e := range table.Entries {
		sample := NewMountSample(timeMs, e)
		if m.usage {
			u, err := m.src.FilesystemUsage(ctx, e.Dest)
			if err != nil {
				m.logger.Debug("filesystem usage unavailable", logging.String("dest", e.Dest), logging.Err(err))
				u = source.UnreadableUsage
			}
			sample.Usage = &u
		}
		batch.Rows = append(batch.Rows, sample.Row())
	}
	return batch, nil
}

// MountSample is one mount row.
type MountSample struct {
	TimeMs  int64
	Source  string
	Dest    string
	FSType  string
	Options string
	Dump    int
	Pass    int
	// Usage is nil unless usage columns were requested.
	Usage *source.FSUsage
}

// NewMountSample builds the row for e; options are joined with ';'.
func NewMountSample(timeMs int64, e source.MountEntry) MountSample {
	return MountSample{
		TimeMs:  timeMs,
		Source:  e.Source,
		Dest:    e.Dest,
		FSType:  e.FSType,
		Options: JoinOptions(e.Options),
		Dump:    e.Dump,
		Pass:    e.Pass,
	}
}

// JoinOptions re-delimits mount options with ';' so they fit in one column.
func JoinOptions(opts []string) string { return strings.Join(opts, ";") }

// Row renders the sample in header order.
func (s MountSample) Row() Row {
	row := Row{
		formatInt(s.TimeMs),
		s.Source,
		s.Dest,
		s.FSType,
		s.Options,
		formatInt(int64(s.Dump)),
		formatInt(int64(s.Pass)),
	}
	if s.Usage != nil {
		row = append(row,
			formatUint(s.Usage.UsedKiB),
			formatUint(s.Usage.AvailableKiB),
			formatUint(s.Usage.TotalKiB),
			formatUint(uint64(s.Usage.UsePercent)),
		)
	}
	return row
}
