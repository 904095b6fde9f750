package collector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agbru/statsdump/internal/source"
)

// ParseSystemRow parses a verbatim system row back into its typed values.
func ParseSystemRow(line string) (SystemSample, error) {
	f := strings.Split(strings.TrimRight(line, "\r\n"), ",")
	if len(f) != len(SystemHeader) {
		return SystemSample{}, fieldCountError("system", len(SystemHeader), len(f))
	}
	p := fieldParser{fields: f}
	s := SystemSample{
		ID:         f[0],
		TimeMs:     p.i64(1),
		MemTotal:   p.u64(2),
		MemFree:    p.u64(3),
		MemBuffers: p.u64(4),
		MemCached:  p.u64(5),
		LoadAvg1:   p.f64(6),
		LoadAvg5:   p.f64(7),
		LoadAvg15:  p.f64(8),
	}
	if p.err != nil {
		return SystemSample{}, fmt.Errorf("system row: %w", p.err)
	}
	return s, nil
}

// ParseProcessRow parses a verbatim process row. The command line is the
// last column and keeps any commas it contains.
func ParseProcessRow(line string) (ProcessSample, error) {
	f := strings.SplitN(strings.TrimRight(line, "\r\n"), ",", len(ProcessHeader))
	if len(f) != len(ProcessHeader) {
		return ProcessSample{}, fieldCountError("process", len(ProcessHeader), len(f))
	}
	p := fieldParser{fields: f}
	s := ProcessSample{
		TimeMs:      p.i64(0),
		PID:         int(p.i64(1)),
		Owner:       uint32(p.uBits(2, 32)),
		OpenFDCount: p.i64(3),
		NumThreads:  p.i64(4),
		StartTime:   p.u64(5),
		UTime:       p.u64(6),
		STime:       p.u64(7),
		Cmdline:     f[8],
	}
	if p.err != nil {
		return ProcessSample{}, fmt.Errorf("process row: %w", p.err)
	}
	return s, nil
}

// ParseMountRow parses a verbatim mount row, with or without usage columns.
func ParseMountRow(line string) (MountSample, error) {
	f := strings.Split(strings.TrimRight(line, "\r\n"), ",")
	withUsage := len(MountHeader) + len(UsageHeader)
	if len(f) != len(MountHeader) && len(f) != withUsage {
		return MountSample{}, fieldCountError("mount", len(MountHeader), len(f))
	}
	p := fieldParser{fields: f}
	s := MountSample{
		TimeMs:  p.i64(0),
		Source:  f[1],
		Dest:    f[2],
		FSType:  f[3],
		Options: f[4],
		Dump:    int(p.i64(5)),
		Pass:    int(p.i64(6)),
	}
	if len(f) == withUsage {
		s.Usage = &source.FSUsage{
			UsedKiB:      p.u64(7),
			AvailableKiB: p.u64(8),
			TotalKiB:     p.u64(9),
			UsePercent:   uint32(p.uBits(10, 32)),
		}
	}
	if p.err != nil {
		return MountSample{}, fmt.Errorf("mount row: %w", p.err)
	}
	return s, nil
}

// SplitOptions reverses JoinOptions.
func SplitOptions(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ";")
}

// fieldParser keeps the first conversion error so that rows can be parsed
// without checking every field.
type fieldParser struct {
	fields []string
	err    error
}

func (p *fieldParser) i64(i int) int64 {
	v, err := strconv.ParseInt(p.fields[i], 10, 64)
	p.fail(i, err)
	return v
}

func (p *fieldParser) u64(i int) uint64 { return p.uBits(i, 64) }

func (p *fieldParser) uBits(i, bits int) uint64 {
	v, err := strconv.ParseUint(p.fields[i], 10, bits)
	p.fail(i, err)
	return v
}

func (p *fieldParser) f64(i int) float64 {
	v, err := strconv.ParseFloat(p.fields[i], 64)
	p.fail(i, err)
	return v
}

func (p *fieldParser) fail(i int, err error) {
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("field %d: %w", i, err)
	}
}
