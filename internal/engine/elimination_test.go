package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kmorrow/rackscore/internal/game"
)

func TestTableCapacity(t *testing.T) {
	cfg := game.DefaultSettings()

	assert.Equal(t, 0, TableCapacity(nil, cfg))
	assert.Equal(t, 3, TableCapacity([]int{1, 2, 3}, cfg), "balls default to one point each")

	cfg.BallValues = map[int]int{8: 8, 15: 2}
	assert.Equal(t, 11, TableCapacity([]int{1, 8, 15}, cfg), "valued balls add their table entry")
}

func TestLeaderScore(t *testing.T) {
	lead, ok := LeaderScore(nil)
	assert.Equal(t, 0, lead)
	assert.False(t, ok)

	lead, ok = LeaderScore([]game.Player{{Score: 0}, {Score: 0}})
	assert.Equal(t, 0, lead)
	assert.False(t, ok, "an all-zero field has no leader")

	lead, ok = LeaderScore([]game.Player{{Score: 3}, {Score: -2}, {Score: 7}})
	assert.Equal(t, 7, lead)
	assert.True(t, ok)
}

func TestIsEliminated(t *testing.T) {
	active := []game.Player{
		{ID: "p-1", Score: 10},
		{ID: "p-2", Score: 10},
		{ID: "p-3", Score: 6},
		{ID: "p-4", Score: 3},
	}
	const capacity = 4
	lead, ok := LeaderScore(active)
	assert.True(t, ok)

	assert.False(t, IsEliminated(active[0], active, capacity, lead), "leader survives")
	assert.False(t, IsEliminated(active[1], active, capacity, lead), "tied leaders both survive")
	assert.False(t, IsEliminated(active[2], active, capacity, lead), "6 + 4 ties the lead; a tie is not elimination")
	assert.True(t, IsEliminated(active[3], active, capacity, lead), "3 + 4 cannot reach 10")
}

func TestIsEliminated_EmptyTable(t *testing.T) {
	active := []game.Player{{ID: "p-1", Score: 10}, {ID: "p-2", Score: 0}}

	assert.False(t, IsEliminated(active[1], active, 0, 10),
		"nothing left to gain means nothing left to decide")
}

func TestIsEliminated_NoLeaders(t *testing.T) {
	active := []game.Player{{ID: "p-1"}, {ID: "p-2"}}

	assert.False(t, IsEliminated(active[0], active, 15, 0))
	assert.False(t, IsEliminated(active[1], active, 15, 0))
}

func TestIsEliminated_ShrinkingTableOnlyTightens(t *testing.T) {
	active := []game.Player{{ID: "p-1", Score: 10}, {ID: "p-2", Score: 4}}
	lead := 10

	wasEliminated := false
	for capacity := 15; capacity >= 1; capacity-- {
		got := IsEliminated(active[1], active, capacity, lead)
		if wasEliminated {
			assert.True(t, got, "capacity %d: elimination must not reverse as the table shrinks", capacity)
		}
		wasEliminated = got
	}
	assert.True(t, wasEliminated)
}
