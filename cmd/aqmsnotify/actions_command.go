package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newActionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List configured notify actions in execution order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			actions := cfg.Actions()
			if len(actions) == 0 {
				fmt.Fprintln(out, "No notify actions configured")
				return nil
			}

			rows := make([][]string, 0, len(actions))
			for i, action := range actions {
				undo := action.UndoCommand
				if !action.HasUndo() {
					undo = "-"
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					action.Name,
					action.Command,
					undo,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Action", "Command", "Undo"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
