package source

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseMounts parses a mount table in the fstab(5) layout used by
// /proc/mounts: source, dest, fstype, options, dump, pass. Lines that do
// not have six fields or whose dump/pass are not integers are skipped and
// counted in MountTable.Malformed.
func ParseMounts(r io.Reader) (MountTable, error) {
	var out MountTable
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := parseMountLine(line)
		if err != nil {
			out.Malformed++
			continue
		}
		out.Entries = append(out.Entries, entry)
	}
	if err := s.Err(); err != nil {
		return MountTable{}, fmt.Errorf("scan mount table: %w", err)
	}
	return out, nil
}

func parseMountLine(line string) (MountEntry, error) {
	parts := strings.Fields(line)
	if len(parts) < 6 {
		return MountEntry{}, fmt.Errorf("expected 6 fields, got %d", len(parts))
	}
	dump, err := strconv.Atoi(parts[4])
	if err != nil {
		return MountEntry{}, fmt.Errorf("dump: %w", err)
	}
	pass, err := strconv.Atoi(parts[5])
	if err != nil {
		return MountEntry{}, fmt.Errorf("pass: %w", err)
	}
	return MountEntry{
		Source:  unescapeOctal(parts[0]),
		Dest:    unescapeOctal(parts[1]),
		FSType:  parts[2],
		Options: strings.Split(parts[3], ","),
		Dump:    dump,
		Pass:    pass,
	}, nil
}

// unescapeOctal decodes the \ooo escapes the kernel uses in mount paths.
// Newline (\012) and backslash (\134) stay escaped so that a path can
// neither split a CSV record nor make a kept escape ambiguous. Invalid
// sequences are kept as is.
func unescapeOctal(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && s[i+1] <= '3' && isOctal(s[i+1]) && isOctal(s[i+2]) && isOctal(s[i+3]) {
			c := (s[i+1]-'0')<<6 | (s[i+2]-'0')<<3 | (s[i+3] - '0')
			if c == '\n' || c == '\\' {
				b.WriteString(s[i : i+4])
			} else {
				b.WriteByte(c)
			}
			i += 3
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isOctal(c byte) bool { return c >= '0' && c <= '7' }
