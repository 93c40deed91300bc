package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kmorrow/rackscore/internal/engine"
	"github.com/kmorrow/rackscore/internal/game"
	"github.com/kmorrow/rackscore/internal/session"
)

// resolvePlayer maps a command-line player reference (id or name) to a
// player id in the live session.
func resolvePlayer(ctx context.Context, ctrl *session.Controller, ref string) (string, error) {
	st, ok, err := ctrl.Current(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", engine.NewRuleError("", "no active session")
	}
	return findPlayerRef(&st, ref)
}

func findPlayerRef(st *game.State, ref string) (string, error) {
	if idx := st.FindPlayer(ref); idx != -1 {
		return st.Players[idx].ID, nil
	}
	name := engine.NormalizeName(ref)
	for i := range st.Players {
		if st.Players[i].Name == name {
			return st.Players[i].ID, nil
		}
	}
	return "", engine.NewValidationError("no player matching %q", ref)
}

// renderStateResult prints the updated session in the configured format.
func renderStateResult(cmd *cobra.Command, ctrl *session.Controller, out *OutputFormatter, st game.State) error {
	cfg, err := ctrl.Settings(cmd.Context())
	if err != nil {
		return out.Failure(err)
	}
	return out.Success(RenderState(&st, cfg), st)
}
