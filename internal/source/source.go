// Package source reads operating-system state for the collectors.
//
// The data is inherently racy: processes and mounts may appear or vanish
// between enumeration and detail reads. Implementations report a process that
// disappeared with ErrVanished so callers can skip it for the current tick.
package source

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks github.com/agbru/statsdump/internal/source SystemInfoSource

import (
	"context"
	"errors"
	"fmt"
)

// ErrVanished reports that an entity went away between enumeration and read.
var ErrVanished = errors.New("entity vanished")

// ErrUnsupportedPlatform is returned by sources that cannot run on this OS.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// SystemInfoSource is the capability set the collectors need.
type SystemInfoSource interface {
	// Name identifies the implementation in logs and errors.
	Name() string
	Memory(ctx context.Context) (MemoryInfo, error)
	LoadAverage(ctx context.Context) (LoadAverage, error)
	// ProcessIDs lists the live pids in enumeration order.
	ProcessIDs(ctx context.Context) ([]int, error)
	// Process reads the details of one pid. It returns an error wrapping
	// ErrVanished when the process no longer exists.
	Process(ctx context.Context, pid int) (ProcessInfo, error)
	Mounts(ctx context.Context) (MountTable, error)
	FilesystemUsage(ctx context.Context, path string) (FSUsage, error)
}

// MemoryInfo holds meminfo counters in kB, as the kernel reports them.
// Fields absent from the source are zero and listed in Missing.
type MemoryInfo struct {
	TotalKiB   uint64
	FreeKiB    uint64
	BuffersKiB uint64
	CachedKiB  uint64
	Missing    []string
}

// LoadAverage holds the 1, 5 and 15 minute load averages.
type LoadAverage struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

// ProcessInfo is a snapshot of one process.
type ProcessInfo struct {
	PID   int
	Owner uint32
	// OpenFDs is -1 when the fd directory could not be listed.
	OpenFDs    int64
	NumThreads int64
	// StartTime, UTime and STime are in clock ticks (USER_HZ).
	StartTime uint64
	UTime     uint64
	STime     uint64
	Cmdline   []string
	Comm      string
}

// MountEntry is one line of the mount table.
type MountEntry struct {
	Source  string
	Dest    string
	FSType  string
	Options []string
	Dump    int
	Pass    int
}

// MountTable is the parsed mount table. Malformed counts lines that were
// skipped because they could not be parsed.
type MountTable struct {
	Entries   []MountEntry
	Malformed int
}

// FSUsage is the statfs usage of a mounted filesystem, in KiB.
type FSUsage struct {
	UsedKiB      uint64
	AvailableKiB uint64
	TotalKiB     uint64
	UsePercent   uint32
}

// Source names accepted by Open.
const (
	NameProcFS   = "procfs"
	NamePortable = "portable"
)

// Open returns the source registered under name. root is the procfs mount
// point and is ignored by the portable source.
func Open(name, root string) (SystemInfoSource, error) {
	switch name {
	case NameProcFS:
		p, err := NewProcFS(root)
		if err != nil {
			return nil, err
		}
		return p, nil
	case NamePortable:
		return NewPortable(), nil
	default:
		return nil, fmt.Errorf("unknown source %q", name)
	}
}

// usagePercent is used / (used + available), the share of the space
// available to unprivileged users, truncated.
func usagePercent(used, avail uint64) uint32 {
	total := used + avail
	if total == 0 {
		return 0
	}
	return uint32(used * 100 / total)
}

// UnreadableUsage is reported for a mount point that cannot be statfs'd.
var UnreadableUsage = FSUsage{UsePercent: 100}
