package cli

import (
	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	var timeline bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the live session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)

			st, ok, err := ctrl.Current(cmd.Context())
			if err != nil {
				return out.Failure(err)
			}
			if !ok {
				return out.Success("no active session\n", nil)
			}

			cfg, err := ctrl.Settings(cmd.Context())
			if err != nil {
				return out.Failure(err)
			}

			text := RenderState(&st, cfg)
			if timeline {
				text += "\n" + RenderTimeline(st.Events)
			}
			return out.Success(text, st)
		},
	}

	cmd.Flags().BoolVar(&timeline, "timeline", false, "include the event timeline")
	return cmd
}
