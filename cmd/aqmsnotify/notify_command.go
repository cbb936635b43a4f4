package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"aqmsnotify/internal/config"
	"aqmsnotify/internal/history"
	"aqmsnotify/internal/logging"
	"aqmsnotify/internal/metrics"
	"aqmsnotify/internal/notify"
)

func newNotifyCommand(ctx *commandContext) *cobra.Command {
	var cancel bool

	cmd := &cobra.Command{
		Use:   "notify [-c|--cancel] EVENTID [args...]",
		Short: "Run the notification command for a processed event",
		Long: "Run the first configured notification action for EVENTID.\n\n" +
			"With --cancel the action's undo_command is run instead. Flags must come\n" +
			"before EVENTID; everything after it, including a later -c, is accepted\n" +
			"for compatibility with ShakeMap and ignored.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			runCtx := logging.WithRunID(cmd.Context(), "")
			report, err := notify.NewRunner(cfg, logger).Run(runCtx, notify.Request{
				EventID:     args[0],
				Cancel:      cancel,
				Passthrough: args[1:],
			})
			if err != nil {
				return err
			}

			recordReport(runCtx, cfg, logger, report)
			return nil
		},
	}

	// Everything after EVENTID passes through untouched, flags included.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVarP(&cancel, "cancel", "c", false, "Run the undo command for the event")
	return cmd
}

// recordReport journals and exports a finished run. Failures here never fail
// the notification itself.
func recordReport(ctx context.Context, cfg *config.Config, logger *slog.Logger, report *notify.Report) {
	logger = logging.WithContext(ctx, logger)

	if cfg.History.Enabled {
		if err := journal(ctx, cfg.History.Path, report); err != nil {
			logger.Warn("history journal failed",
				logging.String("path", cfg.History.Path),
				logging.Error(err),
			)
		}
	}

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, report, time.Now()); err != nil {
			logger.Warn("metrics textfile write failed",
				logging.String("path", cfg.Metrics.Textfile),
				logging.Error(err),
			)
		}
	}
}

func journal(ctx context.Context, path string, report *notify.Report) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.RecordReport(ctx, report)
}
