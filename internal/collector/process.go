package collector

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/agbru/statsdump/internal/errors"
	"github.com/agbru/statsdump/internal/logging"
	"github.com/agbru/statsdump/internal/source"
)

// ProcessHeader is the header of process rows.
var ProcessHeader = []string{
	"time_ms", "pid", "owner", "open_fd_count", "num_threads",
	"starttime", "utime", "stime", "cmdline",
}

// Process emits one row per live process.
type Process struct {
	src    source.SystemInfoSource
	logger logging.Logger
}

// NewProcess returns a process collector.
func NewProcess(src source.SystemInfoSource, logger logging.Logger) *Process {
	return &Process{src: src, logger: orNop(logger)}
}

func (p *Process) Name() string     { return "proc" }
func (p *Process) Header() []string { return ProcessHeader }

// Check enumerates the process table once.
func (p *Process) Check(ctx context.Context) error {
	if _, err := p.src.ProcessIDs(ctx); err != nil {
		return sourceError(p.src, err)
	}
	return nil
}

// Collect implements Collector. Processes that exit between enumeration and
// the detail read are skipped.
func (p *Process) Collect(ctx context.Context, timeMs int64) (Batch, error) {
	pids, err := p.src.ProcessIDs(ctx)
	if err != nil {
		return Batch{}, apperrors.WrapError(err, "enumerate processes")
	}

	batch := Batch{Rows: make([]Row, 0, len(pids))}
	for _, pid := range pids {
		if err := ctx.Err(); err != nil {
			return Batch{}, err
		}
		info, err := p.src.Process(ctx, pid)
		if err != nil {
			batch.Skipped++
			if !errors.Is(err, source.ErrVanished) {
				p.logger.Debug("process skipped", logging.Int("pid", pid), logging.Err(err))
			}
			continue
		}
		batch.Rows = append(batch.Rows, NewProcessSample(timeMs, info).Row())
	}
	return batch, nil
}

// ProcessSample is one process row.
type ProcessSample struct {
	TimeMs      int64
	PID         int
	Owner       uint32
	OpenFDCount int64
	NumThreads  int64
	StartTime   uint64
	UTime       uint64
	STime       uint64
	Cmdline     string
}

// NewProcessSample builds the row for info. An empty argument vector is
// rendered as the bracketed command name, like ps does for kernel threads.
func NewProcessSample(timeMs int64, info source.ProcessInfo) ProcessSample {
	cmdline := strings.Join(info.Cmdline, " ")
	if strings.TrimSpace(cmdline) == "" {
		cmdline = "[" + info.Comm + "]"
	}
	return ProcessSample{
		TimeMs:      timeMs,
		PID:         info.PID,
		Owner:       info.Owner,
		OpenFDCount: info.OpenFDs,
		NumThreads:  info.NumThreads,
		StartTime:   info.StartTime,
		UTime:       info.UTime,
		STime:       info.STime,
		Cmdline:     cmdline,
	}
}

// Row renders the sample in header order. The command line is written as
// is, so a comma inside it produces extra columns.
func (s ProcessSample) Row() Row {
	return Row{
		formatInt(s.TimeMs),
		formatInt(int64(s.PID)),
		formatUint(uint64(s.Owner)),
		formatInt(s.OpenFDCount),
		formatInt(s.NumThreads),
		formatUint(s.StartTime),
		formatUint(s.UTime),
		formatUint(s.STime),
		s.Cmdline,
	}
}
