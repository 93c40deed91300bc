package cli

import (
	"github.com/spf13/cobra"

	"github.com/kmorrow/rackscore/internal/engine"
	"github.com/kmorrow/rackscore/internal/game"
	"github.com/kmorrow/rackscore/internal/settle"
)

// NewSettleCommand creates the settle command.
func NewSettleCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		cost   float64
		rule   string
		groups int
	)

	cmd := &cobra.Command{
		Use:   "settle [session-id]...",
		Short: "Split table cost across archived sessions",
		Long: `Assign shared cost to players over a set of finalized sessions.

With no ids, every finalized session in history contributes. Rules:

  all_split          everyone in the session splits equally
  losers_pay         non-top-scorers split; all-equal sessions split equally
  bottom_groups_pay  the lowest N distinct score groups split (see --groups)

Example:
  rackscore settle --cost 30 --rule losers_pay
  rackscore settle --cost 45 --rule bottom_groups_pay --groups 2 9b3f 10ac`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)

			history, err := st.History(cmd.Context())
			if err != nil {
				return out.Failure(engine.NewPersistenceError("read history", err))
			}

			var sessions []game.State
			if len(args) == 0 {
				for _, h := range history {
					if h.IsFinalized {
						sessions = append(sessions, h)
					}
				}
			} else {
				byID := make(map[string]game.State, len(history))
				for _, h := range history {
					byID[h.ID] = h
				}
				for _, id := range args {
					h, ok := byID[id]
					if !ok {
						return out.Failure(engine.NewValidationError("no archived session with id %q", id))
					}
					sessions = append(sessions, h)
				}
			}

			res, err := settle.Settle(sessions, cost, settle.Rule(rule), groups)
			if err != nil {
				return out.Failure(err)
			}
			return out.Success(RenderSettlement(res), res)
		},
	}

	cmd.Flags().Float64Var(&cost, "cost", 0, "cost per session (required)")
	cmd.Flags().StringVar(&rule, "rule", string(settle.RuleAllSplit), "settlement rule")
	cmd.Flags().IntVar(&groups, "groups", 1, "distinct score groups that pay (bottom_groups_pay)")
	_ = cmd.MarkFlagRequired("cost")

	return cmd
}
