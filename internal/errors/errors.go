package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// An interrupt (SIGINT/SIGTERM) is a normal way to stop sampling and exits with
// ExitSuccess.
const (
	ExitSuccess      = 0 // Indicates successful execution or a clean interrupt.
	ExitErrorGeneric = 1 // Indicates a generic error.
	ExitErrorSource  = 3 // Indicates the OS data source could not be opened at startup.
	ExitErrorConfig  = 4 // Indicates a configuration error.
	ExitErrorOutput  = 5 // Indicates the output stream could not be written.
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// SourceError reports that the OS data source needed by the selected collector
// is missing or unreadable. It is only raised at startup; read failures during
// sampling are absorbed tick by tick.
type SourceError struct {
	// Source names the data source (e.g. "procfs", "/proc/meminfo").
	Source string
	// Cause is the underlying error.
	Cause error
}

// Error returns a formatted message naming the source and the cause.
func (e SourceError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Cause)
}

// Unwrap returns the original wrapped error.
func (e SourceError) Unwrap() error { return e.Cause }

// OutputError reports a failure writing rows to the output stream.
type OutputError struct {
	Cause error
}

// Error returns the error message from the underlying cause.
func (e OutputError) Error() string { return "write output: " + e.Cause.Error() }

// Unwrap returns the original wrapped error.
func (e OutputError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error returned by the application to a process exit code.
// A nil error and context errors map to ExitSuccess.
func ExitCode(err error) int {
	if err == nil || IsContextError(err) {
		return ExitSuccess
	}

	var (
		configErr     ConfigError
		validationErr ValidationError
		sourceErr     SourceError
		outputErr     OutputError
	)
	switch {
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		return ExitErrorConfig
	case errors.As(err, &sourceErr):
		return ExitErrorSource
	case errors.As(err, &outputErr):
		return ExitErrorOutput
	default:
		return ExitErrorGeneric
	}
}
