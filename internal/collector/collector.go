// Package collector turns SystemInfoSource snapshots into CSV rows.
//
// Each collector produces a fixed header and, per tick, zero or more rows
// that all carry the tick's timestamp. Rows are plain string slices; the
// csvout package decides how they are written.
package collector

import (
	"context"
	"fmt"
	"strconv"

	"github.com/agbru/statsdump/internal/config"
	apperrors "github.com/agbru/statsdump/internal/errors"
	"github.com/agbru/statsdump/internal/logging"
	"github.com/agbru/statsdump/internal/source"
)

// Row is one CSV record.
type Row []string

// Batch is the result of one tick. Skipped counts entities that vanished or
// could not be read and were left out of Rows.
type Batch struct {
	Rows    []Row
	Skipped int
}

// Collector produces the rows of one kind of statistics.
type Collector interface {
	// Name identifies the collector in logs and metrics.
	Name() string
	// Header returns the CSV column names.
	Header() []string
	// Check reads the primary data once so that an unusable source is
	// reported before sampling starts.
	Check(ctx context.Context) error
	// Collect samples the source. Every row carries timeMs.
	Collect(ctx context.Context, timeMs int64) (Batch, error)
}

// Options configures the collector built by New.
type Options struct {
	// ID is prepended to system rows.
	ID string
	// Usage appends filesystem usage columns to mount rows.
	Usage  bool
	Logger logging.Logger
}

// New returns the collector for kind, reading from src.
//
// Parameters:
//   - kind: The collector selected on the command line.
//   - src: The data source.
//   - opts: Collector specific settings.
//
// Returns:
//   - Collector: The collector.
//   - error: A ConfigError if kind is unknown.
func New(kind config.Kind, src source.SystemInfoSource, opts Options) (Collector, error) {
	logger := opts.Logger
	switch kind {
	case config.KindSystem:
		return NewSystem(src, opts.ID, logger), nil
	case config.KindProcess:
		return NewProcess(src, logger), nil
	case config.KindMount:
		return NewMount(src, opts.Usage, logger), nil
	default:
		return nil, apperrors.NewConfigError("unknown collector %q", kind)
	}
}

func orNop(l logging.Logger) logging.Logger {
	if l == nil {
		return logging.Nop()
	}
	return l
}

func sourceError(src source.SystemInfoSource, err error) error {
	return apperrors.SourceError{Source: src.Name(), Cause: err}
}

func formatInt(v int64) string   { return strconv.FormatInt(v, 10) }
func formatUint(v uint64) string { return strconv.FormatUint(v, 10) }

// formatFloat uses the shortest representation that parses back to v.
func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func fieldCountError(kind string, want, got int) error {
	return fmt.Errorf("%s row: expected %d fields, got %d", kind, want, got)
}
