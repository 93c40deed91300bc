package cli

import (
	"github.com/spf13/cobra"

	"github.com/kmorrow/rackscore/internal/engine"
	"github.com/kmorrow/rackscore/internal/game"
	"github.com/kmorrow/rackscore/internal/store"
)

// NewHistoryCommand creates the history command group.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and inspect archived sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			sessions, err := st.History(cmd.Context())
			if err != nil {
				return out.Failure(engine.NewPersistenceError("read history", err))
			}
			return out.Success(RenderHistory(sessions), sessions)
		},
	}

	cmd.AddCommand(newHistoryShowCommand(rootOpts))
	cmd.AddCommand(newHistoryVerifyCommand(rootOpts))
	cmd.AddCommand(newHistoryDeleteCommand(rootOpts))

	return cmd
}

func newHistoryShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show an archived session's event timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			session, ok, err := lookupHistory(cmd, st, args[0])
			if err != nil {
				return out.Failure(err)
			}
			if !ok {
				return out.Failure(engine.NewValidationError("no archived session with id %q", args[0]))
			}

			text := RenderState(&session, cfgOrDefault(cmd, st)) + "\n" + RenderTimeline(session.Events)
			return out.Success(text, session)
		},
	}
}

func newHistoryVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <session-id>",
		Short: "Replay an archived session's log against its stored scores",
		Long: `Recompute every player's score from the session's event log and compare
with the stored values. A mismatch means the materialized scores and the
authoritative log disagree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			session, ok, err := lookupHistory(cmd, st, args[0])
			if err != nil {
				return out.Failure(err)
			}
			if !ok {
				return out.Failure(engine.NewValidationError("no archived session with id %q", args[0]))
			}

			if err := engine.VerifyLog(&session); err != nil {
				return out.Failure(engine.NewRuleError("", "log mismatch: %v", err))
			}
			return out.Success("log verified: scores match\n", map[string]any{"verified": true})
		},
	}
}

func newHistoryDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete an archived session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			if err := st.DeleteFromHistory(cmd.Context(), args[0]); err != nil {
				return out.Failure(engine.NewPersistenceError("delete history session", err))
			}
			return out.Success("deleted\n", map[string]any{"deleted": args[0]})
		},
	}
}

func lookupHistory(cmd *cobra.Command, st *store.Store, id string) (game.State, bool, error) {
	session, ok, err := st.HistorySession(cmd.Context(), id)
	if err != nil {
		return session, false, engine.NewPersistenceError("read history", err)
	}
	return session, ok, nil
}

// cfgOrDefault reads settings for rendering, falling back to defaults when
// the read fails; display never blocks on configuration.
func cfgOrDefault(cmd *cobra.Command, st *store.Store) game.Settings {
	cfg, err := st.Settings(cmd.Context())
	if err != nil {
		return game.DefaultSettings()
	}
	return cfg
}
