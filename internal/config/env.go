// This file contains environment variable utilities for configuration override.

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// isFlagSet checks if a flag was explicitly set on the command line.
// Flags that are not registered for the current subcommand count as unset.
func isFlagSet(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}

// hasFlag reports whether the flag exists for the current subcommand, so
// that e.g. STATSDUMP_ID is ignored by the proc collector.
func hasFlag(fs *pflag.FlagSet, name string) bool {
	return fs.Lookup(name) != nil
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the STATSDUMP_ prefix) to the CLI flag
// it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flag   string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// Numeric overrides
	{"INTERVAL_SECS", "interval-secs", func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.IntervalSecs = parsed
		}
	}},
	{"COUNT", "count", func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Count = parsed
		}
	}},

	// String overrides
	{"ID", "id", func(c *AppConfig, v string) {
		c.ID = v
	}},
	{"SOURCE", "source", func(c *AppConfig, v string) {
		c.Source = strings.ToLower(strings.TrimSpace(v))
	}},
	{"PROC_ROOT", "proc-root", func(c *AppConfig, v string) {
		c.ProcRoot = v
	}},
	{"LOG_LEVEL", "log-level", func(c *AppConfig, v string) {
		c.LogLevel = v
	}},

	// Boolean overrides
	{"NO_HEADER", "no-header", func(c *AppConfig, v string) {
		c.NoHeader = parseBoolEnv(v, c.NoHeader)
	}},
	{"QUOTE", "quote", func(c *AppConfig, v string) {
		c.Quote = parseBoolEnv(v, c.Quote)
	}},
	{"USAGE", "usage", func(c *AppConfig, v string) {
		c.Usage = parseBoolEnv(v, c.Usage)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes", "on" as true; "false", "0", "no", "off" as false
// (case-insensitive). Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables (all prefixed with STATSDUMP_):
//   - INTERVAL_SECS, COUNT, ID, SOURCE, PROC_ROOT, LOG_LEVEL,
//     NO_HEADER, QUOTE, USAGE
func applyEnvOverrides(config *AppConfig, fs *pflag.FlagSet) {
	for _, o := range envOverrides {
		if !hasFlag(fs, o.flag) || isFlagSet(fs, o.flag) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
