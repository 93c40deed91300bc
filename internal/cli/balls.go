package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewBallsCommand creates the balls command.
func NewBallsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balls <number>...",
		Short: "Set the balls remaining on the table",
		Long: `Replace the set of balls still on the table. Ball numbers are 1 through
15; duplicates are collapsed. The remaining set is the capacity model for
elimination math.

Example:
  rackscore balls 1 2 3 8 14 15`,
		Args: cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			balls := make([]int, 0, len(args))
			for _, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil {
					return WrapExitError(ExitCommandError, "ball numbers must be integers", err)
				}
				balls = append(balls, n)
			}

			_, ctrl, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			st, err := ctrl.UpdateBalls(cmd.Context(), balls)
			if err != nil {
				return out.Failure(err)
			}
			return renderStateResult(cmd, ctrl, out, st)
		},
	}
}
