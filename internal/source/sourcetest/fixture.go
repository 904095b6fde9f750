// Package sourcetest builds fake procfs trees on disk for tests.
package sourcetest

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Fixture is a temporary directory laid out like /proc.
type Fixture struct {
	t    testing.TB
	Root string
}

// Proc describes one fake process directory.
type Proc struct {
	PID        int
	Comm       string
	Cmdline    []string
	NumThreads int
	UTime      uint64
	STime      uint64
	StartTime  uint64
	// FDs is the number of entries created under fd/. A negative value
	// makes fd a regular file so that it cannot be listed.
	FDs int
	// NoStat omits the stat file.
	NoStat bool
}

// New creates an empty fixture in t.TempDir().
func New(t testing.TB) *Fixture {
	t.Helper()
	return &Fixture{t: t, Root: t.TempDir()}
}

// WriteFile writes a file relative to the fixture root.
func (f *Fixture) WriteFile(name, content string) *Fixture {
	f.t.Helper()
	path := filepath.Join(f.Root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		f.t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		f.t.Fatalf("write %s: %v", path, err)
	}
	return f
}

// Meminfo writes a meminfo file with the given kB values. Keys follow the
// kernel spelling (MemTotal, MemFree, Buffers, Cached, ...).
func (f *Fixture) Meminfo(kb map[string]uint64) *Fixture {
	f.t.Helper()
	var b strings.Builder
	for _, key := range []string{"MemTotal", "MemFree", "MemAvailable", "Buffers", "Cached", "SwapTotal", "SwapFree"} {
		if v, ok := kb[key]; ok {
			fmt.Fprintf(&b, "%-16s%8d kB\n", key+":", v)
		}
	}
	return f.WriteFile("meminfo", b.String())
}

// LoadAvg writes a loadavg file.
func (f *Fixture) LoadAvg(l1, l5, l15 float64) *Fixture {
	f.t.Helper()
	return f.WriteFile("loadavg", fmt.Sprintf("%.2f %.2f %.2f 2/345 6789\n", l1, l5, l15))
}

// Mounts writes the mount table verbatim.
func (f *Fixture) Mounts(lines ...string) *Fixture {
	f.t.Helper()
	return f.WriteFile("mounts", strings.Join(lines, "\n")+"\n")
}

// Process creates <root>/<pid> with stat, comm, cmdline and fd entries.
func (f *Fixture) Process(p Proc) *Fixture {
	f.t.Helper()
	dir := strconv.Itoa(p.PID)
	if err := os.MkdirAll(filepath.Join(f.Root, dir), 0o755); err != nil {
		f.t.Fatalf("mkdir pid %d: %v", p.PID, err)
	}
	comm := p.Comm
	if comm == "" {
		comm = "proc" + dir
	}
	f.WriteFile(filepath.Join(dir, "comm"), comm+"\n")

	var cmdline string
	if len(p.Cmdline) > 0 {
		cmdline = strings.Join(p.Cmdline, "\x00") + "\x00"
	}
	f.WriteFile(filepath.Join(dir, "cmdline"), cmdline)

	if !p.NoStat {
		f.WriteFile(filepath.Join(dir, "stat"), statLine(p, comm))
	}

	switch {
	case p.FDs < 0:
		f.WriteFile(filepath.Join(dir, "fd"), "")
	default:
		fdDir := filepath.Join(f.Root, dir, "fd")
		if err := os.MkdirAll(fdDir, 0o755); err != nil {
			f.t.Fatalf("mkdir fd: %v", err)
		}
		for i := 0; i < p.FDs; i++ {
			target := filepath.Join(fdDir, strconv.Itoa(i))
			if err := os.Symlink("/dev/null", target); err != nil {
				f.t.Fatalf("symlink fd %d: %v", i, err)
			}
		}
	}
	return f
}

// Remove deletes a process directory, simulating an exited process.
func (f *Fixture) Remove(pid int) *Fixture {
	f.t.Helper()
	if err := os.RemoveAll(filepath.Join(f.Root, strconv.Itoa(pid))); err != nil {
		f.t.Fatalf("remove pid %d: %v", pid, err)
	}
	return f
}

// statLine renders a /proc/<pid>/stat line with 52 fields.
func statLine(p Proc, comm string) string {
	threads := p.NumThreads
	if threads == 0 {
		threads = 1
	}
	head := fmt.Sprintf("%d (%s) S 1 %d %d 0 -1 4194560 1200 0 3 0 %d %d 0 0 20 0 %d 0 %d 12345678 300 18446744073709551615",
		p.PID, comm, p.PID, p.PID, p.UTime, p.STime, threads, p.StartTime)
	tail := strings.Repeat(" 0", 27)
	return head + tail + "\n"
}
