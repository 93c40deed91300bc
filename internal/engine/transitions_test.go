package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorrow/rackscore/internal/game"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// testState builds an active session with players p-1, p-2, ... holding the
// given names, a full rack, and the first player on the turn.
func testState(names ...string) game.State {
	st := game.State{
		ID:           "s-1",
		IsGameActive: true,
		StartTime:    testNow,
		LastUpdate:   testNow,
	}
	for i, n := range names {
		st.Players = append(st.Players, game.Player{
			ID:       fmt.Sprintf("p-%d", i+1),
			Name:     n,
			IsActive: true,
		})
	}
	if len(st.Players) > 0 {
		st.CurrentPlayerID = st.Players[0].ID
	}
	for b := game.MinBall; b <= game.MaxBall; b++ {
		st.BallsOnTable = append(st.BallsOnTable, b)
	}
	return st
}

func TestApplyScore_AdvancesTurn(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")

	out, err := ApplyScore(st, "p-1", 5, game.DefaultSettings(), testNow)
	require.NoError(t, err)

	assert.Equal(t, 5, out.Players[0].Score)
	assert.Equal(t, "p-2", out.CurrentPlayerID, "auto-advance should hand the turn to the next player")
	assert.True(t, out.CanUndo)

	require.Len(t, out.Events, 1)
	ev := out.Events[0]
	assert.Equal(t, int64(1), ev.Seq)
	assert.Equal(t, game.EventScore, ev.Type)
	assert.Equal(t, "p-1", ev.PlayerID)
	assert.Equal(t, "Ann", ev.PlayerName)
	assert.Equal(t, 5, ev.Points)
	assert.Equal(t, "p-1", ev.PreviousPlayerID)
	require.NotNil(t, ev.PreviousScore)
	require.NotNil(t, ev.NewScore)
	assert.Equal(t, 0, *ev.PreviousScore)
	assert.Equal(t, 5, *ev.NewScore)
}

func TestApplyScore_NegativePoints(t *testing.T) {
	st := testState("Ann", "Ben")

	out, err := ApplyScore(st, "p-1", -2, game.DefaultSettings(), testNow)
	require.NoError(t, err)

	assert.Equal(t, -2, out.Players[0].Score)
	require.Len(t, out.Events, 1)
	assert.Equal(t, -2, out.Events[0].Points)
}

func TestApplyScore_UnknownPlayer(t *testing.T) {
	st := testState("Ann", "Ben")

	_, err := ApplyScore(st, "ghost", 3, game.DefaultSettings(), testNow)
	assert.True(t, IsValidation(err))
}

func TestApplyScore_StrictRejectsOutOfTurn(t *testing.T) {
	st := testState("Ann", "Ben")
	cfg := game.DefaultSettings()
	cfg.StrictTurnMode = true

	out, err := ApplyScore(st, "p-2", 3, cfg, testNow)
	require.True(t, IsRuleViolation(err))
	assert.Equal(t, 0, out.Players[1].Score, "rejected intent must leave the state unchanged")
	assert.Empty(t, out.Events)
}

func TestApplyScore_StrictAllowsCurrentPlayer(t *testing.T) {
	st := testState("Ann", "Ben")
	cfg := game.DefaultSettings()
	cfg.StrictTurnMode = true

	out, err := ApplyScore(st, "p-1", 3, cfg, testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Players[0].Score)
}

func TestApplyScore_NoAutoAdvance(t *testing.T) {
	st := testState("Ann", "Ben")
	cfg := game.DefaultSettings()
	cfg.AutoNextTurn = false

	out, err := ApplyScore(st, "p-1", 3, cfg, testNow)
	require.NoError(t, err)
	assert.Equal(t, "p-1", out.CurrentPlayerID)
}

func TestApplyScore_BoundedHistories(t *testing.T) {
	st := testState("Ann", "Ben")
	cfg := game.DefaultSettings()
	cfg.AutoNextTurn = false

	var err error
	for i := 0; i < game.ScoreHistoryCap+3; i++ {
		st, err = ApplyScore(st, "p-1", 1, cfg, testNow)
		require.NoError(t, err)
	}

	p := st.Players[0]
	assert.Len(t, p.ScoreHistory, game.ScoreHistoryCap)
	// Most recent previous score first.
	assert.Equal(t, game.ScoreHistoryCap+2, p.ScoreHistory[0])
	assert.Len(t, p.EventHistory, game.ScoreHistoryCap+3)
	assert.Equal(t, 1, p.EventHistory[0].Points)
}

func TestApplyScore_DoesNotMutateInput(t *testing.T) {
	st := testState("Ann", "Ben")

	_, err := ApplyScore(st, "p-1", 7, game.DefaultSettings(), testNow)
	require.NoError(t, err)

	assert.Equal(t, 0, st.Players[0].Score)
	assert.Empty(t, st.Events)
	assert.False(t, st.CanUndo)
	assert.Equal(t, "p-1", st.CurrentPlayerID)
}

func TestApplyUndo_RoundTrip(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")

	scored, err := ApplyScore(st, "p-1", 5, game.DefaultSettings(), testNow)
	require.NoError(t, err)
	require.Equal(t, "p-2", scored.CurrentPlayerID)

	undone, err := ApplyUndo(scored, game.DefaultSettings(), testNow)
	require.NoError(t, err)

	assert.Equal(t, 0, undone.Players[0].Score)
	assert.Equal(t, "p-1", undone.CurrentPlayerID, "undo rewinds the turn, not just the score")
	assert.False(t, undone.CanUndo)
	assert.Empty(t, undone.Players[0].ScoreHistory)
	assert.Empty(t, undone.Players[0].EventHistory)

	// The undone event stays; a compensating entry is appended.
	require.Len(t, undone.Events, 2)
	comp := undone.Events[1]
	assert.Equal(t, game.EventUndo, comp.Type)
	assert.Equal(t, -5, comp.Points)
	assert.Equal(t, "p-1", comp.PlayerID)

	assert.NoError(t, VerifyLog(&undone))
}

func TestApplyUndo_SingleShot(t *testing.T) {
	st := testState("Ann", "Ben")

	scored, err := ApplyScore(st, "p-1", 5, game.DefaultSettings(), testNow)
	require.NoError(t, err)

	undone, err := ApplyUndo(scored, game.DefaultSettings(), testNow)
	require.NoError(t, err)

	_, err = ApplyUndo(undone, game.DefaultSettings(), testNow)
	assert.True(t, IsRuleViolation(err), "a second undo must be rejected")
}

func TestApplyUndo_NothingToUndo(t *testing.T) {
	st := testState("Ann", "Ben")

	_, err := ApplyUndo(st, game.DefaultSettings(), testNow)
	assert.True(t, IsRuleViolation(err))
}

func TestApplyUndo_NewScoreReenablesUndo(t *testing.T) {
	st := testState("Ann", "Ben")
	cfg := game.DefaultSettings()

	st, err := ApplyScore(st, "p-1", 5, cfg, testNow)
	require.NoError(t, err)
	st, err = ApplyUndo(st, cfg, testNow)
	require.NoError(t, err)

	st, err = ApplyScore(st, "p-1", 2, cfg, testNow)
	require.NoError(t, err)
	require.True(t, st.CanUndo)

	st, err = ApplyUndo(st, cfg, testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Players[0].Score)
	assert.NoError(t, VerifyLog(&st))
}

func TestApplyUndo_DeactivatedScorerDoesNotRetakeTurn(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")
	cfg := game.DefaultSettings()

	scored, err := ApplyScore(st, "p-1", 5, cfg, testNow)
	require.NoError(t, err)
	require.Equal(t, "p-2", scored.CurrentPlayerID)

	// Ann leaves the rotation after scoring; the turn is already Ben's.
	left, err := SetActive(scored, "p-1", false, cfg, testNow)
	require.NoError(t, err)
	require.Equal(t, "p-2", left.CurrentPlayerID)

	undone, err := ApplyUndo(left, cfg, testNow)
	require.NoError(t, err)

	assert.Equal(t, 0, undone.Players[0].Score, "the score still rewinds")
	assert.NotEqual(t, "p-1", undone.CurrentPlayerID, "the turn must not return to an inactive player")
	assert.Equal(t, "p-2", undone.CurrentPlayerID)
	idx := undone.FindPlayer(undone.CurrentPlayerID)
	require.NotEqual(t, -1, idx)
	assert.True(t, undone.Players[idx].IsActive)
}

func TestSetActive_FloorOfTwo(t *testing.T) {
	st := testState("Ann", "Ben")

	_, err := SetActive(st, "p-2", false, game.DefaultSettings(), testNow)
	assert.True(t, IsRuleViolation(err), "dropping below two active players must be rejected")
}

func TestSetActive_StrictModeLocksRoster(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")
	cfg := game.DefaultSettings()
	cfg.StrictTurnMode = true

	_, err := SetActive(st, "p-3", false, cfg, testNow)
	assert.True(t, IsRuleViolation(err))

	// Reactivation stays allowed.
	st.Players[2].IsActive = false
	out, err := SetActive(st, "p-3", true, cfg, testNow)
	require.NoError(t, err)
	assert.True(t, out.Players[2].IsActive)
}

func TestSetActive_DeactivateCurrentAdvancesTurn(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")

	out, err := SetActive(st, "p-1", false, game.DefaultSettings(), testNow)
	require.NoError(t, err)

	assert.False(t, out.Players[0].IsActive)
	assert.Equal(t, "p-2", out.CurrentPlayerID)

	require.Len(t, out.Events, 1)
	ev := out.Events[0]
	assert.Equal(t, game.EventStatusChange, ev.Type)
	assert.Equal(t, "Ann left the rotation", ev.Message)
}

func TestSetActive_RejoinMessage(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")
	st.Players[2].IsActive = false

	out, err := SetActive(st, "p-3", true, game.DefaultSettings(), testNow)
	require.NoError(t, err)
	require.Len(t, out.Events, 1)
	assert.Equal(t, "Cal rejoined the rotation", out.Events[0].Message)
}

func TestSetCurrentPlayer_RequiresActive(t *testing.T) {
	st := testState("Ann", "Ben", "Cal")
	st.Players[2].IsActive = false

	_, err := SetCurrentPlayer(st, "p-3", testNow)
	assert.True(t, IsRuleViolation(err))

	out, err := SetCurrentPlayer(st, "p-2", testNow)
	require.NoError(t, err)
	assert.Equal(t, "p-2", out.CurrentPlayerID)
}

func TestSetCurrentPlayer_UnknownPlayer(t *testing.T) {
	st := testState("Ann", "Ben")

	_, err := SetCurrentPlayer(st, "ghost", testNow)
	assert.True(t, IsValidation(err))
}

func TestSetBallsOnTable_CleansInput(t *testing.T) {
	st := testState("Ann", "Ben")

	out, err := SetBallsOnTable(st, []int{15, 3, 3, 1}, testNow)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 15}, out.BallsOnTable)

	_, err = SetBallsOnTable(st, []int{0}, testNow)
	assert.True(t, IsValidation(err))
	_, err = SetBallsOnTable(st, []int{16}, testNow)
	assert.True(t, IsValidation(err))
}
