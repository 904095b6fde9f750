package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// userHZ is the clock tick rate used to express process times, matching
// the USER_HZ the procfs source reports on Linux.
const userHZ = 100

// Portable reads system state through gopsutil and works on every platform
// gopsutil supports. Mount dump/pass numbers are not available and are
// reported as 0.
type Portable struct{}

// NewPortable returns the gopsutil-backed source.
func NewPortable() *Portable { return &Portable{} }

// Name implements SystemInfoSource.
func (p *Portable) Name() string { return NamePortable }

// Memory implements SystemInfoSource. gopsutil reports bytes; values are
// converted back to kB.
func (p *Portable) Memory(ctx context.Context) (MemoryInfo, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryInfo{}, fmt.Errorf("read virtual memory: %w", err)
	}
	return MemoryInfo{
		TotalKiB:   vm.Total / 1024,
		FreeKiB:    vm.Free / 1024,
		BuffersKiB: vm.Buffers / 1024,
		CachedKiB:  vm.Cached / 1024,
	}, nil
}

// LoadAverage implements SystemInfoSource.
func (p *Portable) LoadAverage(ctx context.Context) (LoadAverage, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return LoadAverage{}, fmt.Errorf("read load average: %w", err)
	}
	return LoadAverage{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}, nil
}

// ProcessIDs implements SystemInfoSource.
func (p *Portable) ProcessIDs(ctx context.Context) ([]int, error) {
	raw, err := process.PidsWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	pids := make([]int, len(raw))
	for i, pid := range raw {
		pids[i] = int(pid)
	}
	return pids, nil
}

// Process implements SystemInfoSource.
func (p *Portable) Process(ctx context.Context, pid int) (ProcessInfo, error) {
	proc, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return ProcessInfo{}, portableVanished(pid, err)
	}

	times, err := proc.TimesWithContext(ctx)
	if err != nil {
		return ProcessInfo{}, p.processErr(ctx, proc, err)
	}
	threads, err := proc.NumThreadsWithContext(ctx)
	if err != nil {
		return ProcessInfo{}, p.processErr(ctx, proc, err)
	}
	created, err := proc.CreateTimeWithContext(ctx)
	if err != nil {
		return ProcessInfo{}, p.processErr(ctx, proc, err)
	}

	info := ProcessInfo{
		PID:        pid,
		OpenFDs:    -1,
		NumThreads: int64(threads),
		UTime:      uint64(times.User * userHZ),
		STime:      uint64(times.System * userHZ),
	}
	if boot, err := host.BootTimeWithContext(ctx); err == nil {
		sinceBootMs := created - int64(boot)*1000
		if sinceBootMs > 0 {
			info.StartTime = uint64(sinceBootMs) * userHZ / 1000
		}
	}
	if uids, err := proc.UidsWithContext(ctx); err == nil && len(uids) > 0 {
		info.Owner = uids[0]
		if len(uids) > 1 {
			info.Owner = uids[1]
		}
	}
	if n, err := proc.NumFDsWithContext(ctx); err == nil {
		info.OpenFDs = int64(n)
	}
	if args, err := proc.CmdlineSliceWithContext(ctx); err == nil {
		info.Cmdline = args
	}
	if name, err := proc.NameWithContext(ctx); err == nil {
		info.Comm = name
	}
	return info, nil
}

func (p *Portable) processErr(ctx context.Context, proc *process.Process, err error) error {
	if running, rerr := proc.IsRunningWithContext(ctx); rerr == nil && !running {
		return fmt.Errorf("pid %d: %w: %w", proc.Pid, ErrVanished, err)
	}
	return portableVanished(int(proc.Pid), err)
}

func portableVanished(pid int, err error) error {
	if errors.Is(err, process.ErrorProcessNotRunning) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("pid %d: %w: %w", pid, ErrVanished, err)
	}
	return fmt.Errorf("pid %d: %w", pid, err)
}

// Mounts implements SystemInfoSource with every partition, including
// pseudo filesystems.
func (p *Portable) Mounts(ctx context.Context) (MountTable, error) {
	parts, err := disk.PartitionsWithContext(ctx, true)
	if err != nil {
		return MountTable{}, fmt.Errorf("list partitions: %w", err)
	}
	out := MountTable{Entries: make([]MountEntry, 0, len(parts))}
	for _, part := range parts {
		out.Entries = append(out.Entries, MountEntry{
			Source:  part.Device,
			Dest:    part.Mountpoint,
			FSType:  part.Fstype,
			Options: part.Opts,
		})
	}
	return out, nil
}

// FilesystemUsage implements SystemInfoSource.
func (p *Portable) FilesystemUsage(ctx context.Context, path string) (FSUsage, error) {
	u, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return FSUsage{}, fmt.Errorf("usage %s: %w", path, err)
	}
	used := u.Used / 1024
	avail := u.Free / 1024
	return FSUsage{
		UsedKiB:      used,
		AvailableKiB: avail,
		TotalKiB:     u.Total / 1024,
		UsePercent:   usagePercent(used, avail),
	}, nil
}
