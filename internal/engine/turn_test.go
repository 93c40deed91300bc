package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kmorrow/rackscore/internal/game"
)

// gatedSettings enables elimination-based skipping during rotation.
func gatedSettings() game.Settings {
	cfg := game.DefaultSettings()
	cfg.EliminationEnabled = true
	cfg.AllowEliminatedInput = false
	return cfg
}

func TestNextTurn_CircularWrap(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")
	st.CurrentPlayerID = "p-3"

	assert.Equal(t, "p-1", NextTurn(&st, game.DefaultSettings(), true))
}

func TestNextTurn_KeepsCurrentWithoutForce(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")

	assert.Equal(t, "p-1", NextTurn(&st, game.DefaultSettings(), false))
}

func TestNextTurn_SkipsInactivePlayers(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")
	st.Players[1].IsActive = false

	assert.Equal(t, "p-3", NextTurn(&st, game.DefaultSettings(), true))
}

func TestNextTurn_SkipsEliminated(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")
	st.BallsOnTable = []int{14, 15} // capacity 2
	st.Players[0].Score = 5
	st.Players[2].Score = 4

	// Ben (0 + 2 < 5) is eliminated; Cal (4 + 2 >= 5) is not.
	assert.Equal(t, "p-3", NextTurn(&st, gatedSettings(), true))
}

func TestNextTurn_NeverStalls(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")
	st.BallsOnTable = []int{15} // capacity 1
	st.Players[0].Score = 9

	// Everyone after the leader is eliminated: the turn stays with the
	// leader rather than pointing at nobody.
	assert.Equal(t, "p-1", NextTurn(&st, gatedSettings(), true))
}

func TestNextTurn_NoGatingWhenEliminatedInputAllowed(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")
	st.BallsOnTable = []int{15}
	st.Players[0].Score = 9

	cfg := game.DefaultSettings()
	cfg.EliminationEnabled = true // allowEliminatedInput stays true

	assert.Equal(t, "p-2", NextTurn(&st, cfg, true),
		"eliminated players stay in the rotation when they may still score")
}

func TestNextTurn_StrictModeAloneGates(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")
	st.BallsOnTable = []int{15}
	st.Players[0].Score = 9
	st.Players[2].Score = 9

	cfg := game.DefaultSettings()
	cfg.EliminationEnabled = true
	cfg.StrictTurnMode = true

	// Ben is eliminated and skipped; Cal ties the lead and keeps playing.
	assert.Equal(t, "p-3", NextTurn(&st, cfg, true))
}

func TestNextTurn_MissingCurrentStartsAtTop(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")
	st.CurrentPlayerID = "ghost"

	assert.Equal(t, "p-1", NextTurn(&st, game.DefaultSettings(), true))
}

func TestNextTurn_NoActivePlayers(t *testing.T) {
	st := testState("Ann", "Ben")
	st.Players[0].IsActive = false
	st.Players[1].IsActive = false

	assert.Equal(t, "p-1", NextTurn(&st, game.DefaultSettings(), true))
}
