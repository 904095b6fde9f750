//go:build linux

package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

// ProcFS reads a procfs mount (normally /proc) through prometheus/procfs.
type ProcFS struct {
	root string
	fs   procfs.FS
}

// NewProcFS opens the procfs mounted at root.
func NewProcFS(root string) (*ProcFS, error) {
	pfs, err := procfs.NewFS(root)
	if err != nil {
		return nil, fmt.Errorf("open procfs %s: %w", root, err)
	}
	return &ProcFS{root: root, fs: pfs}, nil
}

// Name implements SystemInfoSource.
func (p *ProcFS) Name() string { return NameProcFS }

// Memory reads MemTotal, MemFree, Buffers and Cached from meminfo.
func (p *ProcFS) Memory(ctx context.Context) (MemoryInfo, error) {
	if err := ctx.Err(); err != nil {
		return MemoryInfo{}, err
	}
	mi, err := p.fs.Meminfo()
	if err != nil {
		return MemoryInfo{}, fmt.Errorf("read meminfo: %w", err)
	}

	var out MemoryInfo
	for _, f := range []struct {
		name string
		src  *uint64
		dst  *uint64
	}{
		{"MemTotal", mi.MemTotal, &out.TotalKiB},
		{"MemFree", mi.MemFree, &out.FreeKiB},
		{"Buffers", mi.Buffers, &out.BuffersKiB},
		{"Cached", mi.Cached, &out.CachedKiB},
	} {
		if f.src == nil {
			out.Missing = append(out.Missing, f.name)
			continue
		}
		*f.dst = *f.src
	}
	return out, nil
}

// LoadAverage reads loadavg.
func (p *ProcFS) LoadAverage(ctx context.Context) (LoadAverage, error) {
	if err := ctx.Err(); err != nil {
		return LoadAverage{}, err
	}
	la, err := p.fs.LoadAvg()
	if err != nil {
		return LoadAverage{}, fmt.Errorf("read loadavg: %w", err)
	}
	return LoadAverage{Load1: la.Load1, Load5: la.Load5, Load15: la.Load15}, nil
}

// ProcessIDs lists the numeric entries of the procfs root.
func (p *ProcFS) ProcessIDs(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	procs, err := p.fs.AllProcs()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	pids := make([]int, 0, len(procs))
	for _, proc := range procs {
		pids = append(pids, proc.PID)
	}
	return pids, nil
}

// Process reads stat, cmdline and the fd directory of one pid. The owner is
// the uid of the pid directory.
func (p *ProcFS) Process(ctx context.Context, pid int) (ProcessInfo, error) {
	if err := ctx.Err(); err != nil {
		return ProcessInfo{}, err
	}
	proc, err := p.fs.Proc(pid)
	if err != nil {
		return ProcessInfo{}, vanished(pid, err)
	}

	var st unix.Stat_t
	if err := unix.Stat(filepath.Join(p.root, strconv.Itoa(pid)), &st); err != nil {
		return ProcessInfo{}, vanished(pid, err)
	}

	stat, err := proc.Stat()
	if err != nil {
		return ProcessInfo{}, vanished(pid, err)
	}

	info := ProcessInfo{
		PID:        pid,
		Owner:      st.Uid,
		OpenFDs:    -1,
		NumThreads: int64(stat.NumThreads),
		StartTime:  stat.Starttime,
		UTime:      uint64(stat.UTime),
		STime:      uint64(stat.STime),
		Comm:       stat.Comm,
	}
	if n, err := proc.FileDescriptorsLen(); err == nil {
		info.OpenFDs = int64(n)
	}
	if args, err := proc.CmdLine(); err == nil {
		info.Cmdline = args
	}
	return info, nil
}

// Mounts parses <root>/mounts. procfs only exposes mountinfo, which does not
// carry the dump and pass columns.
func (p *ProcFS) Mounts(ctx context.Context) (MountTable, error) {
	if err := ctx.Err(); err != nil {
		return MountTable{}, err
	}
	f, err := os.Open(filepath.Join(p.root, "mounts"))
	if err != nil {
		return MountTable{}, fmt.Errorf("open mount table: %w", err)
	}
	defer f.Close()
	return ParseMounts(f)
}

// FilesystemUsage implements SystemInfoSource with statfs(2).
func (p *ProcFS) FilesystemUsage(ctx context.Context, path string) (FSUsage, error) {
	if err := ctx.Err(); err != nil {
		return FSUsage{}, err
	}
	return statfsUsage(path)
}

func statfsUsage(path string) (FSUsage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return FSUsage{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	frsize := uint64(st.Frsize)
	if frsize == 0 {
		frsize = uint64(st.Bsize)
	}
	total := st.Blocks * frsize / 1024
	free := st.Bfree * frsize / 1024
	avail := st.Bavail * frsize / 1024
	used := total - free
	return FSUsage{
		UsedKiB:      used,
		AvailableKiB: avail,
		TotalKiB:     total,
		UsePercent:   usagePercent(used, avail),
	}, nil
}

func vanished(pid int, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("pid %d: %w: %w", pid, ErrVanished, err)
	}
	return fmt.Errorf("pid %d: %w", pid, err)
}
