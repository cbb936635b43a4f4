package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"aqmsnotify/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories and notification commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cfg)
			for _, line := range renderSectionHeader("Readiness", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range results {
				kind := statusOK
				switch {
				case !result.Passed:
					kind = statusError
				case result.Warning:
					kind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
