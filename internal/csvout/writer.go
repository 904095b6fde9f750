// Package csvout writes collector rows to the output stream.
//
// By default fields are joined with ',' and written as is, without quoting:
// a field that contains a comma shifts the following columns. The quoting
// mode uses encoding/csv and follows RFC 4180 instead.
package csvout

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	apperrors "github.com/agbru/statsdump/internal/errors"
)

// Writer writes a header at most once, then rows, each newline terminated.
// Write errors are returned as apperrors.OutputError.
type Writer struct {
	buf        *bufio.Writer
	csv        *csv.Writer
	headerDone bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithQuoting makes the writer quote fields containing separators,
// quotes or newlines.
func WithQuoting() Option {
	return func(w *Writer) {
		w.csv = csv.NewWriter(w.buf)
	}
}

// New returns a Writer on out.
func New(out io.Writer, opts ...Option) *Writer {
	w := &Writer{buf: bufio.NewWriter(out)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteHeader writes cols once; later calls are ignored.
func (w *Writer) WriteHeader(cols []string) error {
	if w.headerDone {
		return nil
	}
	w.headerDone = true
	return w.write(cols)
}

// WriteRow writes one record.
func (w *Writer) WriteRow(fields []string) error {
	return w.write(fields)
}

// Flush pushes buffered rows to the underlying stream.
func (w *Writer) Flush() error {
	if w.csv != nil {
		w.csv.Flush()
		if err := w.csv.Error(); err != nil {
			return apperrors.OutputError{Cause: err}
		}
	}
	if err := w.buf.Flush(); err != nil {
		return apperrors.OutputError{Cause: err}
	}
	return nil
}

func (w *Writer) write(fields []string) error {
	if w.csv != nil {
		if err := w.csv.Write(fields); err != nil {
			return apperrors.OutputError{Cause: err}
		}
		return nil
	}
	if _, err := w.buf.WriteString(strings.Join(fields, ",")); err != nil {
		return apperrors.OutputError{Cause: err}
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return apperrors.OutputError{Cause: err}
	}
	return nil
}
