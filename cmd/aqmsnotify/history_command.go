package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"aqmsnotify/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [EVENTID]",
		Short: "Show journaled notification attempts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("history is disabled; set history.enabled = true in the config")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			var entries []history.Entry
			if len(args) == 1 {
				entries, err = store.ForEvent(cmd.Context(), strings.TrimSpace(args[0]), limit)
			} else {
				entries, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No attempts recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Event", "Action", "Mode", "Command", "Exit", "Launched"},
				historyRows(entries),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of attempts to show")
	return cmd
}

func historyRows(entries []history.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		exit := fmt.Sprintf("%d", entry.ExitCode)
		if entry.LaunchError != "" {
			exit = "-"
		}
		rows = append(rows, []string{
			entry.StartedAt.Local().Format("2006-01-02 15:04:05"),
			entry.EventID,
			entry.Action,
			entry.Mode,
			entry.Command,
			exit,
			yesNo(entry.LaunchError == ""),
		})
	}
	return rows
}
