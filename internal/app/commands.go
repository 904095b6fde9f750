package app

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agbru/statsdump/internal/config"
	apperrors "github.com/agbru/statsdump/internal/errors"
)

// newRootCommand builds the statsdump command tree. Each subcommand owns a
// copy of the configuration so that its flags only bind its own fields.
func (a *Application) newRootCommand(out io.Writer) *cobra.Command {
	shared := config.Default("")

	root := &cobra.Command{
		Use:   "statsdump",
		Short: "Periodically dump system, process or mount statistics as CSV",
		Long: `statsdump samples operating-system statistics at a fixed interval and
writes them as CSV rows to standard output until interrupted.

Logs and errors are written to standard error.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return apperrors.NewConfigError("a collector is required: sys, proc or mount (see --help)")
		},
	}
	root.SetOut(out)
	root.SetErr(a.ErrWriter)
	root.SetVersionTemplate("statsdump {{.Version}}\n")
	config.BindPersistentFlags(root.PersistentFlags(), &shared)

	root.AddCommand(
		a.newCollectorCommand(config.KindSystem, &shared, out,
			"Dump memory counters and load averages, one row per tick"),
		a.newCollectorCommand(config.KindProcess, &shared, out,
			"Dump one row per process per tick"),
		a.newCollectorCommand(config.KindMount, &shared, out,
			"Dump one row per mounted filesystem per tick"),
	)
	return root
}

func (a *Application) newCollectorCommand(kind config.Kind, shared *config.AppConfig, out io.Writer, short string) *cobra.Command {
	local := config.Default(kind)

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *shared
			cfg.Kind = kind
			cfg.IntervalSecs = local.IntervalSecs
			cfg.ID = local.ID
			cfg.Usage = local.Usage

			cfg, err := config.Finalize(cfg, cmd.Flags())
			if err != nil {
				return err
			}
			a.started = true
			return a.runCollector(cmd.Context(), cfg, out)
		},
	}
	config.BindFlags(cmd.Flags(), &local)
	return cmd
}
