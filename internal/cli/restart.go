package cli

import (
	"github.com/spf13/cobra"
)

// NewRestartCommand creates the restart command.
func NewRestartCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restart <player>...",
		Short: "Archive the live session and start over with a new roster",
		Long: `Archive current progress as finalized, clear the table, and start a new
session with the given roster in one step.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			st, err := ctrl.Restart(cmd.Context(), args)
			if err != nil {
				return out.Failure(err)
			}
			return renderStateResult(cmd, ctrl, out, st)
		},
	}
}
