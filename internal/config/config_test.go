package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/pflag"

	apperrors "github.com/agbru/statsdump/internal/errors"
)

func newFlagSet(t *testing.T, c *AppConfig) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("statsdump", pflag.ContinueOnError)
	BindPersistentFlags(fs, c)
	BindFlags(fs, c)
	return fs
}

func TestDefault(t *testing.T) {
	t.Parallel()
	c := Default(KindProcess)
	if c.Kind != KindProcess {
		t.Errorf("Kind = %q, want %q", c.Kind, KindProcess)
	}
	if c.Source != SourceProcFS {
		t.Errorf("Source = %q, want %q", c.Source, SourceProcFS)
	}
	if c.ProcRoot != "/proc" {
		t.Errorf("ProcRoot = %q, want /proc", c.ProcRoot)
	}
	if c.ID != "" {
		t.Errorf("ID should default to empty, got %q", c.ID)
	}
	if !c.Header() {
		t.Error("header should be printed by default")
	}
}

func TestInterval(t *testing.T) {
	t.Parallel()
	c := AppConfig{IntervalSecs: 5}
	if got := c.Interval(); got != 5*time.Second {
		t.Errorf("Interval() = %v, want 5s", got)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	valid := func() AppConfig {
		c := Default(KindSystem)
		c.IntervalSecs = 1
		return c
	}

	tests := []struct {
		name      string
		mutate    func(*AppConfig)
		wantField string
		wantCfg   bool
	}{
		{name: "valid", mutate: func(*AppConfig) {}},
		{name: "zero interval", mutate: func(c *AppConfig) { c.IntervalSecs = 0 }, wantField: "interval-secs"},
		{name: "negative interval", mutate: func(c *AppConfig) { c.IntervalSecs = -3 }, wantField: "interval-secs"},
		{name: "negative count", mutate: func(c *AppConfig) { c.Count = -1 }, wantField: "count"},
		{name: "unknown source", mutate: func(c *AppConfig) { c.Source = "wmi" }, wantField: "source"},
		{name: "empty proc root", mutate: func(c *AppConfig) { c.ProcRoot = " " }, wantField: "proc-root"},
		{name: "empty proc root with portable source", mutate: func(c *AppConfig) {
			c.Source = SourcePortable
			c.ProcRoot = ""
		}},
		{name: "unknown kind", mutate: func(c *AppConfig) { c.Kind = "net" }, wantCfg: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := valid()
			tt.mutate(&c)
			err := c.Validate()

			switch {
			case tt.wantField != "":
				var ve apperrors.ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if ve.Field != tt.wantField {
					t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
				}
			case tt.wantCfg:
				var ce apperrors.ConfigError
				if !errors.As(err, &ce) {
					t.Fatalf("expected ConfigError, got %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			if err != nil && apperrors.ExitCode(err) != apperrors.ExitErrorConfig {
				t.Errorf("ExitCode = %d, want %d", apperrors.ExitCode(err), apperrors.ExitErrorConfig)
			}
		})
	}
}

func TestBindFlagsPerKind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		kind    Kind
		present []string
		absent  []string
	}{
		{KindSystem, []string{"interval-secs", "id"}, []string{"usage"}},
		{KindProcess, []string{"interval-secs"}, []string{"id", "usage"}},
		{KindMount, []string{"interval-secs", "usage"}, []string{"id"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			c := Default(tt.kind)
			fs := newFlagSet(t, &c)
			for _, name := range tt.present {
				if fs.Lookup(name) == nil {
					t.Errorf("flag --%s should be registered", name)
				}
			}
			for _, name := range tt.absent {
				if fs.Lookup(name) != nil {
					t.Errorf("flag --%s should not be registered", name)
				}
			}
		})
	}
}

func TestFinalize_FlagsParsed(t *testing.T) {
	t.Parallel()
	c := Default(KindSystem)
	fs := newFlagSet(t, &c)
	if err := fs.Parse([]string{"-s", "2", "-i", "web-01", "--count", "3", "--no-header"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	got, err := Finalize(c, fs)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if got.IntervalSecs != 2 || got.ID != "web-01" || got.Count != 3 || got.Header() {
		t.Errorf("unexpected config %+v", got)
	}
}

func TestFinalize_MissingInterval(t *testing.T) {
	t.Setenv(EnvPrefix+"INTERVAL_SECS", "")
	c := Default(KindMount)
	fs := newFlagSet(t, &c)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := Finalize(c, fs); err == nil {
		t.Fatal("expected an error when --interval-secs is missing")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"INTERVAL_SECS", "7")
	t.Setenv(EnvPrefix+"ID", "from-env")
	t.Setenv(EnvPrefix+"COUNT", "4")
	t.Setenv(EnvPrefix+"NO_HEADER", "yes")
	t.Setenv(EnvPrefix+"SOURCE", " PORTABLE ")
	t.Setenv(EnvPrefix+"USAGE", "true")

	c := Default(KindSystem)
	fs := newFlagSet(t, &c)
	if err := fs.Parse([]string{"--id", "from-flag"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	got, err := Finalize(c, fs)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if got.IntervalSecs != 7 {
		t.Errorf("IntervalSecs = %d, want 7 from env", got.IntervalSecs)
	}
	if got.ID != "from-flag" {
		t.Errorf("ID = %q, the explicit flag must win over env", got.ID)
	}
	if got.Count != 4 {
		t.Errorf("Count = %d, want 4", got.Count)
	}
	if got.Header() {
		t.Error("STATSDUMP_NO_HEADER=yes should disable the header")
	}
	if got.Source != SourcePortable {
		t.Errorf("Source = %q, want %q", got.Source, SourcePortable)
	}
	if got.Usage {
		t.Error("STATSDUMP_USAGE must be ignored when the collector has no --usage flag")
	}
}

func TestApplyEnvOverrides_InvalidNumberIgnored(t *testing.T) {
	t.Setenv(EnvPrefix+"INTERVAL_SECS", "five")

	c := Default(KindProcess)
	fs := newFlagSet(t, &c)
	if err := fs.Parse([]string{"--interval-secs", "3"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	applyEnvOverrides(&c, fs)
	if c.IntervalSecs != 3 {
		t.Errorf("IntervalSecs = %d, want 3", c.IntervalSecs)
	}

	c2 := Default(KindProcess)
	fs2 := newFlagSet(t, &c2)
	_ = fs2.Parse(nil)
	applyEnvOverrides(&c2, fs2)
	if c2.IntervalSecs != 0 {
		t.Errorf("unparsable env value should leave the default, got %d", c2.IntervalSecs)
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"Off", true, false},
		{"maybe", true, true},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
				t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
			}
		})
	}
}
