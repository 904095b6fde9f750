// Package sampler drives a collector at a fixed interval: take the time,
// collect, write the rows, flush, sleep, repeat.
package sampler

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/statsdump/internal/collector"
	apperrors "github.com/agbru/statsdump/internal/errors"
	"github.com/agbru/statsdump/internal/logging"
)

const tracerName = "github.com/agbru/statsdump/internal/sampler"

// RowWriter receives the header and rows. csvout.Writer implements it.
type RowWriter interface {
	WriteHeader(cols []string) error
	WriteRow(fields []string) error
	Flush() error
}

// TickObserver is notified after every tick. metrics.Recorder implements it.
type TickObserver interface {
	ObserveTick(collector string, rows, skipped int, d time.Duration, err error)
}

// Sampler runs one collector until its context is cancelled or the tick
// budget is spent.
type Sampler struct {
	collector collector.Collector
	out       RowWriter
	interval  time.Duration
	count     int
	header    bool
	logger    logging.Logger
	observer  TickObserver
	tracer    trace.Tracer
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) bool
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithCount stops the sampler after n ticks. 0 runs until cancelled.
func WithCount(n int) Option { return func(s *Sampler) { s.count = n } }

// WithHeader controls whether the header is written before the first tick.
func WithHeader(enabled bool) Option { return func(s *Sampler) { s.header = enabled } }

// WithLogger sets the logger used for tick failures. The logger is expected
// to carry the collector name already.
func WithLogger(l logging.Logger) Option { return func(s *Sampler) { s.logger = l } }

// WithObserver registers a TickObserver.
func WithObserver(o TickObserver) Option { return func(s *Sampler) { s.observer = o } }

// WithClock replaces time.Now and the inter-tick sleep. sleep returns false
// when ctx was cancelled before d elapsed.
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) bool) Option {
	return func(s *Sampler) {
		s.now = now
		s.sleep = sleep
	}
}

// New returns a Sampler that writes c's rows to out every interval.
func New(c collector.Collector, out RowWriter, interval time.Duration, opts ...Option) *Sampler {
	s := &Sampler{
		collector: c,
		out:       out,
		interval:  interval,
		header:    true,
		logger:    logging.Nop(),
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
		sleep:     sleepWithContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run samples until ctx is cancelled or the configured count is reached.
// Cancellation is a normal stop and returns nil. Only output errors end the
// run early; a failed collection skips the tick.
func (s *Sampler) Run(ctx context.Context) error {
	if s.header {
		if err := s.out.WriteHeader(s.collector.Header()); err != nil {
			return asOutputError(err)
		}
		if err := s.out.Flush(); err != nil {
			return asOutputError(err)
		}
	}

	for n := 1; ; n++ {
		if ctx.Err() != nil {
			return nil
		}
		if err := s.tick(ctx, n); err != nil {
			return err
		}
		if s.count > 0 && n >= s.count {
			return nil
		}
		if !s.sleep(ctx, s.interval) {
			return nil
		}
	}
}

func (s *Sampler) tick(ctx context.Context, n int) error {
	start := s.now()
	name := s.collector.Name()

	ctx, span := s.tracer.Start(ctx, "sampler.tick", trace.WithAttributes(
		attribute.String("collector", name),
		attribute.Int("tick", n),
	))
	defer span.End()

	batch, err := s.collector.Collect(ctx, start.UnixMilli())
	if err != nil {
		if apperrors.IsContextError(err) && ctx.Err() != nil {
			return nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "collect failed")
		s.logger.Warn("collection failed, tick skipped",
			logging.Int("tick", n), logging.Int64("time_ms", start.UnixMilli()), logging.Err(err))
		s.observe(name, collector.Batch{}, start, err)
		return nil
	}

	for _, row := range batch.Rows {
		if err := s.out.WriteRow(row); err != nil {
			return s.outputFailed(span, err)
		}
	}
	if err := s.out.Flush(); err != nil {
		return s.outputFailed(span, err)
	}

	span.SetAttributes(attribute.Int("rows", len(batch.Rows)), attribute.Int("skipped", batch.Skipped))
	if batch.Skipped > 0 {
		s.logger.Debug("entities skipped", logging.Int("tick", n), logging.Int("skipped", batch.Skipped))
	}
	s.observe(name, batch, start, nil)
	return nil
}

func (s *Sampler) observe(name string, b collector.Batch, start time.Time, err error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveTick(name, len(b.Rows), b.Skipped, s.now().Sub(start), err)
}

func (s *Sampler) outputFailed(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "write failed")
	return asOutputError(err)
}

func asOutputError(err error) error {
	var outErr apperrors.OutputError
	if errors.As(err, &outErr) {
		return err
	}
	return apperrors.OutputError{Cause: err}
}

// sleepWithContext waits for d or until ctx is done. It reports whether the
// full duration elapsed.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
