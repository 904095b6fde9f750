// Package config holds the statsdump run configuration: the selected
// collector, sampling interval, output policy and data source. Values come
// from command-line flags, then STATSDUMP_* environment variables, then
// defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	apperrors "github.com/agbru/statsdump/internal/errors"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "STATSDUMP_"

// Kind selects one of the collectors.
type Kind string

const (
	KindSystem  Kind = "sys"
	KindProcess Kind = "proc"
	KindMount   Kind = "mount"
)

// Data source implementations.
const (
	SourceProcFS   = "procfs"
	SourcePortable = "portable"
)

// Defaults.
const (
	DefaultProcRoot = "/proc"
	DefaultLogLevel = "info"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Kind is the collector selected by the subcommand.
	Kind Kind
	// IntervalSecs is the pause between two ticks, in seconds. Required, > 0.
	IntervalSecs int
	// ID is attached to every system row (e.g. the hostname). Empty by default.
	ID string
	// Count stops sampling after that many ticks; 0 samples forever.
	Count int
	// NoHeader suppresses the CSV header line printed once at start.
	NoHeader bool
	// Quote switches rows to RFC 4180 quoting instead of verbatim fields.
	Quote bool
	// Usage appends statfs usage columns to mount rows.
	Usage bool
	// Source is the data source implementation ("procfs" or "portable").
	Source string
	// ProcRoot is the procfs mount point used by the procfs source.
	ProcRoot string
	// LogLevel is the minimum level written to stderr.
	LogLevel string
}

// Default returns the configuration used when no flag or variable is set.
func Default(kind Kind) AppConfig {
	return AppConfig{
		Kind:     kind,
		Source:   SourceProcFS,
		ProcRoot: DefaultProcRoot,
		LogLevel: DefaultLogLevel,
	}
}

// Interval returns IntervalSecs as a duration.
func (c AppConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSecs) * time.Second
}

// Header reports whether the CSV header should be printed.
func (c AppConfig) Header() bool { return !c.NoHeader }

// BindPersistentFlags registers the flags shared by every subcommand.
func BindPersistentFlags(fs *pflag.FlagSet, c *AppConfig) {
	fs.IntVar(&c.Count, "count", c.Count, "stop after N ticks (0 = run until interrupted)")
	fs.BoolVar(&c.NoHeader, "no-header", c.NoHeader, "do not print the CSV header line")
	fs.BoolVar(&c.Quote, "quote", c.Quote, "quote fields containing delimiters (changes the output format)")
	fs.StringVar(&c.Source, "source", c.Source, "data source: procfs or portable")
	fs.StringVar(&c.ProcRoot, "proc-root", c.ProcRoot, "procfs mount point used by the procfs source")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level on stderr: debug, info, warn, error")
}

// BindFlags registers the flags of the subcommand selected by c.Kind.
func BindFlags(fs *pflag.FlagSet, c *AppConfig) {
	fs.IntVarP(&c.IntervalSecs, "interval-secs", "s", c.IntervalSecs, "interval in seconds between writes (required)")
	switch c.Kind {
	case KindSystem:
		fs.StringVarP(&c.ID, "id", "i", c.ID, "identifier of the stats, use hostname or similar")
	case KindMount:
		fs.BoolVar(&c.Usage, "usage", c.Usage, "append used/available/total KiB and use% columns")
	}
}

// Finalize applies environment overrides for every flag left unset on the
// command line, then validates the result.
//
// Parameters:
//   - c: The configuration populated by flag parsing.
//   - fs: The merged flag set of the executed command.
//
// Returns:
//   - AppConfig: The final configuration.
//   - error: A ConfigError or ValidationError if the configuration is unusable.
func Finalize(c AppConfig, fs *pflag.FlagSet) (AppConfig, error) {
	applyEnvOverrides(&c, fs)
	if err := c.Validate(); err != nil {
		return AppConfig{}, err
	}
	return c, nil
}

// Validate checks the configuration for consistency.
func (c AppConfig) Validate() error {
	switch c.Kind {
	case KindSystem, KindProcess, KindMount:
	default:
		return apperrors.NewConfigError("unknown collector %q", c.Kind)
	}
	if c.IntervalSecs <= 0 {
		return apperrors.ValidationError{Field: "interval-secs", Message: fmt.Sprintf("must be a positive integer, got %d", c.IntervalSecs)}
	}
	if c.Count < 0 {
		return apperrors.ValidationError{Field: "count", Message: "must not be negative"}
	}
	switch c.Source {
	case SourceProcFS, SourcePortable:
	default:
		return apperrors.ValidationError{Field: "source", Message: fmt.Sprintf("unsupported source %q (accepted values: procfs, portable)", c.Source)}
	}
	if c.Source == SourceProcFS && strings.TrimSpace(c.ProcRoot) == "" {
		return apperrors.ValidationError{Field: "proc-root", Message: "must not be empty"}
	}
	return nil
}
