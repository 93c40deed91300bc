package cli

import (
	"github.com/spf13/cobra"
)

// NewPlayerCommand creates the player command group.
func NewPlayerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Manage players in the live session",
	}

	cmd.AddCommand(newPlayerActiveCommand(rootOpts, "activate", true))
	cmd.AddCommand(newPlayerActiveCommand(rootOpts, "deactivate", false))
	cmd.AddCommand(newPlayerRenameCommand(rootOpts))
	cmd.AddCommand(newPlayerTurnCommand(rootOpts))

	return cmd
}

func newPlayerActiveCommand(rootOpts *RootOptions, verb string, active bool) *cobra.Command {
	short := "Return a player to the rotation"
	long := `Return a previously deactivated player to the turn rotation.`
	if !active {
		short = "Remove a player from the rotation"
		long = `Remove a player from the turn rotation without deleting them; their
score and history stay intact. Rejected under strict turn mode, or when it
would leave fewer than 2 active players.`
	}

	return &cobra.Command{
		Use:   verb + " <player>",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			st, err := ctrl.SetPlayerActive(cmd.Context(), playerID, active)
			if err != nil {
				return out.Failure(err)
			}
			return renderStateResult(cmd, ctrl, out, st)
		},
	}
}

func newPlayerRenameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <player> <new-name>",
		Short: "Rename a player everywhere",
		Long: `Rename a player in the live session and in every archived session where
the old name appears. Event log entries keep the name that was current when
they were recorded.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			st, err := ctrl.RenamePlayer(cmd.Context(), playerID, args[1])
			if err != nil {
				return out.Failure(err)
			}
			return renderStateResult(cmd, ctrl, out, st)
		},
	}
}

func newPlayerTurnCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "turn <player>",
		Short: "Hand the turn to a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			st, err := ctrl.SetCurrentPlayer(cmd.Context(), playerID)
			if err != nil {
				return out.Failure(err)
			}
			return renderStateResult(cmd, ctrl, out, st)
		},
	}
}
