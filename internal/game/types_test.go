package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone_DeepCopies(t *testing.T) {
	end := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	st := State{
		ID: "s-1",
		Players: []Player{
			{ID: "p-1", Name: "Ann", Score: 5, IsActive: true, ScoreHistory: []int{3, 0}, EventHistory: []PlayerEvent{{Points: 2}}},
			{ID: "p-2", Name: "Ben", IsActive: true},
		},
		CurrentPlayerID: "p-1",
		BallsOnTable:    []int{1, 2, 3},
		Events:          []Event{{Seq: 1, Type: EventScore, PlayerID: "p-1", Points: 5}},
		EndTime:         &end,
	}

	cp := st.Clone()
	cp.Players[0].Score = 99
	cp.Players[0].ScoreHistory[0] = 99
	cp.Players[0].EventHistory[0].Points = 99
	cp.BallsOnTable[0] = 99
	cp.Events[0].Points = 99
	*cp.EndTime = cp.EndTime.Add(time.Hour)

	assert.Equal(t, 5, st.Players[0].Score)
	assert.Equal(t, 3, st.Players[0].ScoreHistory[0])
	assert.Equal(t, 2, st.Players[0].EventHistory[0].Points)
	assert.Equal(t, 1, st.BallsOnTable[0])
	assert.Equal(t, 5, st.Events[0].Points)
	assert.Equal(t, end, *st.EndTime)
}

func TestHasProgress(t *testing.T) {
	st := State{Players: []Player{{ID: "p-1"}, {ID: "p-2"}}}
	assert.False(t, st.HasProgress())

	st.Players[1].Score = -1
	assert.True(t, st.HasProgress(), "any non-zero score counts, including negative")

	st = State{
		Players: []Player{{ID: "p-1"}},
		Events:  []Event{{Seq: 1, Type: EventStatusChange}},
	}
	assert.True(t, st.HasProgress(), "a logged event counts even with all-zero scores")
}

func TestNextSeq(t *testing.T) {
	st := State{}
	assert.Equal(t, int64(1), st.NextSeq())

	st.Events = []Event{{Seq: 1}, {Seq: 2}, {Seq: 3}}
	assert.Equal(t, int64(4), st.NextSeq())
}

func TestFindPlayerAndActive(t *testing.T) {
	st := State{Players: []Player{
		{ID: "p-1", IsActive: true},
		{ID: "p-2"},
		{ID: "p-3", IsActive: true},
	}}

	assert.Equal(t, 1, st.FindPlayer("p-2"))
	assert.Equal(t, -1, st.FindPlayer("ghost"))

	active := st.ActivePlayers()
	require.Len(t, active, 2)
	assert.Equal(t, "p-1", active[0].ID)
	assert.Equal(t, "p-3", active[1].ID)
	assert.Equal(t, 2, st.ActiveCount())
}

func TestDefaultSettings(t *testing.T) {
	cfg := DefaultSettings()
	assert.True(t, cfg.AutoNextTurn)
	assert.True(t, cfg.AllowEliminatedInput)
	assert.False(t, cfg.StrictTurnMode)
	assert.False(t, cfg.EliminationEnabled)
	assert.False(t, cfg.GuestMode)
	assert.Zero(t, cfg.SnapshotChance)
}
