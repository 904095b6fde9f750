package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/statsdump/internal/collector"
	"github.com/agbru/statsdump/internal/config"
	"github.com/agbru/statsdump/internal/csvout"
	apperrors "github.com/agbru/statsdump/internal/errors"
	"github.com/agbru/statsdump/internal/logging"
	"github.com/agbru/statsdump/internal/metrics"
	"github.com/agbru/statsdump/internal/sampler"
	"github.com/agbru/statsdump/internal/source"
)

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/agbru/statsdump/internal/app.Version=...".
var Version = "dev"

// SourceOpener opens the data source named by --source.
type SourceOpener func(name, root string) (source.SystemInfoSource, error)

// Application represents the statsdump application instance.
type Application struct {
	Config     config.AppConfig
	Args       []string
	ErrWriter  io.Writer
	OpenSource SourceOpener
	Recorder   *metrics.Recorder

	// started is set once a collector command got past flag validation.
	started bool
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSourceOpener replaces source.Open, e.g. to inject a mock source.
func WithSourceOpener(fn SourceOpener) AppOption {
	return func(a *Application) { a.OpenSource = fn }
}

// WithRecorder sets the metrics recorder the sampler reports to.
func WithRecorder(r *metrics.Recorder) AppOption {
	return func(a *Application) { a.Recorder = r }
}

// New creates a new Application for the given command line. args[0] is the
// program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) *Application {
	// Args is never nil: cobra falls back to os.Args for a nil slice.
	app := &Application{ErrWriter: errWriter, Args: []string{}}
	if len(args) > 1 {
		app.Args = args[1:]
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.OpenSource == nil {
		app.OpenSource = source.Open
	}
	if app.Recorder == nil {
		app.Recorder = metrics.NewRecorder()
	}
	return app
}

// Run parses the command line, runs the selected collector and returns the
// process exit code. CSV goes to out; errors and logs go to ErrWriter.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	root := a.newRootCommand(out)
	root.SetArgs(a.Args)

	if err := root.ExecuteContext(ctx); err != nil {
		// Untyped errors raised by cobra before a collector starts are
		// flag or argument errors.
		if !a.started && apperrors.ExitCode(err) == apperrors.ExitErrorGeneric {
			err = apperrors.ConfigError{Message: err.Error()}
		}
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitSuccess
}

// runCollector is the body shared by the sys, proc and mount commands.
func (a *Application) runCollector(ctx context.Context, cfg config.AppConfig, out io.Writer) error {
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		return apperrors.ValidationError{Field: "log-level", Message: err.Error()}
	}
	a.Config = cfg
	logger := logging.NewLogger(a.ErrWriter, "statsdump").With(logging.String("collector", string(cfg.Kind)))

	src, err := a.OpenSource(cfg.Source, cfg.ProcRoot)
	if err != nil {
		return apperrors.SourceError{Source: cfg.Source, Cause: err}
	}

	c, err := collector.New(cfg.Kind, src, collector.Options{ID: cfg.ID, Usage: cfg.Usage, Logger: logger})
	if err != nil {
		return err
	}
	if err := c.Check(ctx); err != nil {
		return err
	}

	var wopts []csvout.Option
	if cfg.Quote {
		wopts = append(wopts, csvout.WithQuoting())
	}
	w := csvout.New(out, wopts...)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logger.Info("sampling started",
		logging.String("source", src.Name()),
		logging.Int("interval_secs", cfg.IntervalSecs),
		logging.Int("count", cfg.Count))

	s := sampler.New(c, w, cfg.Interval(),
		sampler.WithCount(cfg.Count),
		sampler.WithHeader(cfg.Header()),
		sampler.WithLogger(logger),
		sampler.WithObserver(a.Recorder),
	)
	runErr := s.Run(ctx)
	if runErr != nil {
		logger.Error("sampling aborted", runErr)
	}
	a.logSummary(logger)
	return runErr
}

func (a *Application) logSummary(logger logging.Logger) {
	sum, err := a.Recorder.Summary()
	if err != nil {
		logger.Warn("metrics summary unavailable", logging.Err(err))
		return
	}
	logger.Info("sampling stopped",
		logging.Uint64("ticks", sum.Ticks),
		logging.Uint64("failed_ticks", sum.FailedTicks),
		logging.Uint64("rows", sum.Rows),
		logging.Uint64("skipped", sum.Skipped),
		logging.Float64("mean_tick_seconds", sum.MeanTick.Seconds()),
		logging.Uint64("heap_alloc", sum.Runtime.HeapAlloc))
}
