// Package logging provides a unified logging interface for statsdump.
// Components depend on the Logger interface; entries are written as JSON
// lines by zerolog.
//
// Logs always go to the error stream: standard output carries CSV rows only.
package logging
