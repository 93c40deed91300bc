package cli

import (
	"github.com/spf13/cobra"
)

// NewArchiveCommand creates the archive command.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	var finalized, force bool

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive the live session and clear the table",
		Long: `Move the live session into history and clear the live slot.

A session without any progress leaves no trace unless --force is set.
Guest mode suppresses the history write; --force overrides that too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			if err := ctrl.Archive(cmd.Context(), finalized, force); err != nil {
				return out.Failure(err)
			}
			return out.Success("session archived\n", map[string]any{"finalized": finalized})
		},
	}

	cmd.Flags().BoolVar(&finalized, "finalized", true, "mark the archived session as finalized")
	cmd.Flags().BoolVar(&force, "force", false, "archive even without progress, overriding guest mode")
	return cmd
}
