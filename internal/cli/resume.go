package cli

import (
	"github.com/spf13/cobra"
)

// NewResumeCommand creates the resume command.
func NewResumeCommand(rootOpts *RootOptions) *cobra.Command {
	var branch bool

	cmd := &cobra.Command{
		Use:   "resume <session-id>",
		Short: "Bring an archived session back to the table",
		Long: `Resume an archived session. By default the session keeps its id and its
history record is removed (a true resume). With --branch it is cloned under
a new id with a fresh start time and the archived record stays.

Any in-flight progress is archived first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			st, err := ctrl.Resume(cmd.Context(), args[0], !branch)
			if err != nil {
				return out.Failure(err)
			}
			return renderStateResult(cmd, ctrl, out, st)
		},
	}

	cmd.Flags().BoolVar(&branch, "branch", false, "clone as a new independent session instead of a true resume")
	return cmd
}
