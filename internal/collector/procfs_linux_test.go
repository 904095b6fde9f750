//go:build linux

package collector

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"testing"

	apperrors "github.com/agbru/statsdump/internal/errors"
	"github.com/agbru/statsdump/internal/source"
	"github.com/agbru/statsdump/internal/source/sourcetest"
)

func openFixture(t *testing.T, fx *sourcetest.Fixture) source.SystemInfoSource {
	t.Helper()
	src, err := source.Open(source.NameProcFS, fx.Root)
	if err != nil {
		t.Fatalf("open procfs fixture: %v", err)
	}
	return src
}

func TestSystem_ProcFSFixture(t *testing.T) {
	t.Parallel()
	fx := sourcetest.New(t).
		Meminfo(map[string]uint64{"MemTotal": 2048, "MemFree": 1024, "Buffers": 16, "Cached": 32}).
		LoadAvg(0.25, 0.5, 1)

	batch, err := NewSystem(openFixture(t, fx), "fixture", nil).Collect(context.Background(), 10)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := "fixture,10,2097152,1048576,16384,32768,0.25,0.5,1"
	if got := joinRow(batch.Rows[0]); got != want {
		t.Errorf("row = %q, want %q", got, want)
	}
}

func TestSystemCheck_ProcFSFixtureWithoutLoadAvg(t *testing.T) {
	t.Parallel()
	fx := sourcetest.New(t).
		Meminfo(map[string]uint64{"MemTotal": 2048, "MemFree": 1024, "Buffers": 16, "Cached": 32})

	err := NewSystem(openFixture(t, fx), "", nil).Check(context.Background())
	var srcErr apperrors.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("Check error = %v, want SourceError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Check error = %v, want it to wrap fs.ErrNotExist", err)
	}
}

func TestProcess_ProcFSFixture(t *testing.T) {
	t.Parallel()
	fx := sourcetest.New(t).
		Process(sourcetest.Proc{PID: 100, Comm: "bash", Cmdline: []string{"/bin/bash", "--login"}, NumThreads: 1, UTime: 12, STime: 3, StartTime: 900, FDs: 4}).
		Process(sourcetest.Proc{PID: 200, Comm: "sealed", Cmdline: []string{"sealed"}, NumThreads: 2, FDs: -1}).
		Process(sourcetest.Proc{PID: 300, Comm: "awk", Cmdline: []string{"awk", "-F,", "{print $1}"}, NumThreads: 1, FDs: 1}).
		Process(sourcetest.Proc{PID: 400, NoStat: true})

	batch, err := NewProcess(openFixture(t, fx), nil).Collect(context.Background(), 5)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if batch.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1 (pid without stat)", batch.Skipped)
	}

	uid := strconv.Itoa(os.Getuid())
	want := map[string]string{
		"100": "5,100," + uid + ",4,1,900,12,3,/bin/bash --login",
		"200": "5,200," + uid + ",-1,2,0,0,0,sealed",
		"300": "5,300," + uid + ",1,1,0,0,0,awk -F, {print $1}",
	}
	if len(batch.Rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(batch.Rows), len(want))
	}
	for _, row := range batch.Rows {
		line := joinRow(row)
		if line != want[row[1]] {
			t.Errorf("pid %s row = %q, want %q", row[1], line, want[row[1]])
		}
		if row[1] == "200" {
			// Unlistable fd directory: -1 with every other field populated.
			if row[3] != "-1" || row[4] != "2" || row[8] == "" {
				t.Errorf("unexpected fields for pid 200: %v", row)
			}
		}
		if row[1] == "300" && len(strings.Split(line, ",")) <= len(ProcessHeader) {
			t.Errorf("comma in cmdline should produce extra fields: %q", line)
		}
	}
}

func TestMount_ProcFSFixture(t *testing.T) {
	t.Parallel()
	fx := sourcetest.New(t).Mounts(
		"proc /proc proc rw,nosuid,nodev,noexec,relatime 0 0",
		`//srv/share /mnt/team\040docs cifs rw,vers=3.0 0 0`,
		"garbage",
	)

	batch, err := NewMount(openFixture(t, fx), false, nil).Collect(context.Background(), 8)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{
		"8,proc,/proc,proc,rw;nosuid;nodev;noexec;relatime,0,0",
		"8,//srv/share,/mnt/team docs,cifs,rw;vers=3.0,0,0",
	}
	if len(batch.Rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(batch.Rows), len(want))
	}
	for i, row := range batch.Rows {
		if got := joinRow(row); got != want[i] {
			t.Errorf("row %d = %q, want %q", i, got, want[i])
		}
	}
	if batch.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", batch.Skipped)
	}
}

func TestMount_EscapedNewlineStaysOnOneLine(t *testing.T) {
	t.Parallel()
	fx := sourcetest.New(t).Mounts(
		`/dev/sdc1 /mnt/a\012b ext4 rw,relatime 0 2`,
		`/dev/sdd1 /mnt/x\134y ext4 rw 0 2`,
	)

	batch, err := NewMount(openFixture(t, fx), false, nil).Collect(context.Background(), 3)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{
		`3,/dev/sdc1,/mnt/a\012b,ext4,rw;relatime,0,2`,
		`3,/dev/sdd1,/mnt/x\134y,ext4,rw,0,2`,
	}
	if len(batch.Rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(batch.Rows), len(want))
	}
	for i, row := range batch.Rows {
		got := joinRow(row)
		if strings.ContainsAny(got, "\n\r") {
			t.Errorf("row %d spans several lines: %q", i, got)
		}
		if got != want[i] {
			t.Errorf("row %d = %q, want %q", i, got, want[i])
		}
	}
}
