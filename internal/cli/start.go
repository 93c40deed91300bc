package cli

import (
	"github.com/spf13/cobra"
)

// NewStartCommand creates the start command.
func NewStartCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start <player>...",
		Short: "Start a new session with the given roster",
		Long: `Start a new scoring session.

Between 2 and 20 distinct, non-blank player names. If a session with any
progress is already live, it is archived (unfinalized) first - progress is
never discarded.

Example:
  rackscore start Alice Bob
  rackscore start "Ana Maria" Bruno Carla`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			st, err := ctrl.Start(cmd.Context(), args)
			if err != nil {
				return out.Failure(err)
			}
			return renderStateResult(cmd, ctrl, out, st)
		},
	}
}
