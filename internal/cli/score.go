package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score <player> <points>",
		Short: "Apply a scoring delta to a player",
		Long: `Apply points to a player in the live session.

Points may be negative for corrections or penalties. Under strict turn mode
only the current player may score. With auto-next-turn enabled the turn
advances immediately after the score lands.

Example:
  rackscore score Alice 5
  rackscore score Bob -- -2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := strconv.Atoi(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "points must be an integer", err)
			}

			_, ctrl, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)

			playerID, err := resolvePlayer(cmd.Context(), ctrl, args[0])
			if err != nil {
				return out.Failure(err)
			}

			st, err := ctrl.Score(cmd.Context(), playerID, points)
			if err != nil {
				return out.Failure(err)
			}
			return renderStateResult(cmd, ctrl, out, st)
		},
	}
}
