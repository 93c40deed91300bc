package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmorrow/rackscore/internal/engine"
)

// NewSnapshotCommand creates the snapshot command group.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage full backups of sessions and settings",
	}

	cmd.AddCommand(newSnapshotCreateCommand(rootOpts))
	cmd.AddCommand(newSnapshotListCommand(rootOpts))
	cmd.AddCommand(newSnapshotRestoreCommand(rootOpts))
	cmd.AddCommand(newSnapshotDeleteCommand(rootOpts))

	return cmd
}

func newSnapshotCreateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <label>",
		Short: "Store a labeled backup of everything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			if err := st.CreateSnapshot(cmd.Context(), args[0]); err != nil {
				return out.Failure(engine.NewPersistenceError("create snapshot", err))
			}
			return out.Success(fmt.Sprintf("snapshot %q created\n", args[0]), map[string]any{"label": args[0]})
		},
	}
}

func newSnapshotListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			infos, err := st.ListSnapshots(cmd.Context())
			if err != nil {
				return out.Failure(engine.NewPersistenceError("list snapshots", err))
			}

			if len(infos) == 0 {
				return out.Success("no snapshots\n", infos)
			}
			var b strings.Builder
			for _, info := range infos {
				fmt.Fprintf(&b, "%s  %s\n", info.CreatedAt, info.Label)
			}
			return out.Success(b.String(), infos)
		},
	}
}

func newSnapshotRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <label>",
		Short: "Replace everything with a snapshot's contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			if err := st.RestoreSnapshot(cmd.Context(), args[0]); err != nil {
				return out.Failure(engine.NewPersistenceError("restore snapshot", err))
			}
			return out.Success(fmt.Sprintf("snapshot %q restored\n", args[0]), map[string]any{"label": args[0]})
		},
	}
}

func newSnapshotDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <label>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			if err := st.DeleteSnapshot(cmd.Context(), args[0]); err != nil {
				return out.Failure(engine.NewPersistenceError("delete snapshot", err))
			}
			return out.Success(fmt.Sprintf("snapshot %q deleted\n", args[0]), map[string]any{"label": args[0]})
		},
	}
}
