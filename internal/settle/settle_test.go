package settle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorrow/rackscore/internal/engine"
	"github.com/kmorrow/rackscore/internal/game"
)

func session(scores map[string]int) game.State {
	st := game.State{ID: "s", IsFinalized: true}
	// Fixed roster order keeps the fixtures readable.
	for _, name := range []string{"Ann", "Ben", "Cal", "Dee", "Eve"} {
		if sc, ok := scores[name]; ok {
			st.Players = append(st.Players, game.Player{Name: name, Score: sc})
		}
	}
	return st
}

func amounts(res Result) map[string]float64 {
	out := make(map[string]float64, len(res.Shares))
	for _, s := range res.Shares {
		out[s.Name] = s.Amount
	}
	return out
}

func TestSettle_AllSplit(t *testing.T) {
	res, err := Settle([]game.State{
		session(map[string]int{"Ann": 10, "Ben": 2}),
	}, 30, RuleAllSplit, 0)
	require.NoError(t, err)

	assert.Equal(t, 30.0, res.Total)
	assert.Equal(t, map[string]float64{"Ann": 15, "Ben": 15}, amounts(res))
}

func TestSettle_LosersPay(t *testing.T) {
	res, err := Settle([]game.State{
		session(map[string]int{"Ann": 10, "Ben": 10, "Cal": 4}),
	}, 30, RuleLosersPay, 0)
	require.NoError(t, err)

	assert.Equal(t, 30.0, res.Total)
	assert.Equal(t, map[string]float64{"Cal": 30}, amounts(res),
		"the sole non-top-scorer carries the whole session")
}

func TestSettle_LosersPay_AllEqualSplits(t *testing.T) {
	res, err := Settle([]game.State{
		session(map[string]int{"Ann": 0, "Ben": 0, "Cal": 0}),
	}, 30, RuleLosersPay, 0)
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"Ann": 10, "Ben": 10, "Cal": 10}, amounts(res))
}

func TestSettle_BottomGroupsPay(t *testing.T) {
	res, err := Settle([]game.State{
		session(map[string]int{"Ann": 10, "Ben": 7, "Cal": 4, "Dee": 4, "Eve": 2}),
	}, 30, RuleBottomGroupsPay, 2)
	require.NoError(t, err)

	// Losers are Ben(7), Cal(4), Dee(4), Eve(2); the two lowest distinct
	// score groups are {2} and {4}, so Cal, Dee, and Eve split the cost.
	assert.Equal(t, map[string]float64{"Cal": 10, "Dee": 10, "Eve": 10}, amounts(res))
}

func TestSettle_BottomGroupsPay_MoreGroupsThanScores(t *testing.T) {
	res, err := Settle([]game.State{
		session(map[string]int{"Ann": 10, "Ben": 4}),
	}, 20, RuleBottomGroupsPay, 5)
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"Ben": 20}, amounts(res))
}

func TestSettle_BottomGroupsPay_AllTiedFallsBackToSplit(t *testing.T) {
	res, err := Settle([]game.State{
		session(map[string]int{"Ann": 7, "Ben": 7}),
	}, 20, RuleBottomGroupsPay, 1)
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"Ann": 10, "Ben": 10}, amounts(res))
}

func TestSettle_AggregatesAcrossSessions(t *testing.T) {
	res, err := Settle([]game.State{
		session(map[string]int{"Ann": 10, "Ben": 4}),
		session(map[string]int{"Ann": 2, "Ben": 9}),
	}, 10, RuleLosersPay, 0)
	require.NoError(t, err)

	assert.Equal(t, 20.0, res.Total)
	assert.Equal(t, map[string]float64{"Ann": 10, "Ben": 10}, amounts(res))
}

func TestSettle_SharesSortedByAmountThenName(t *testing.T) {
	res, err := Settle([]game.State{
		session(map[string]int{"Ann": 10, "Ben": 4, "Cal": 2}),
	}, 30, RuleBottomGroupsPay, 1)
	require.NoError(t, err)

	require.Len(t, res.Shares, 1)
	assert.Equal(t, Share{Name: "Cal", Amount: 30}, res.Shares[0])

	res, err = Settle([]game.State{
		session(map[string]int{"Ann": 10, "Ben": 0, "Cal": 0}),
	}, 30, RuleLosersPay, 0)
	require.NoError(t, err)

	require.Len(t, res.Shares, 2)
	assert.Equal(t, "Ben", res.Shares[0].Name, "equal amounts order by name")
	assert.Equal(t, "Cal", res.Shares[1].Name)
}

func TestSettle_SkipsEmptyRosters(t *testing.T) {
	res, err := Settle([]game.State{
		{ID: "empty"},
		session(map[string]int{"Ann": 5, "Ben": 1}),
	}, 30, RuleAllSplit, 0)
	require.NoError(t, err)

	assert.Equal(t, 30.0, res.Total, "a session with no players contributes no cost")
}

func TestSettle_NoSessions(t *testing.T) {
	res, err := Settle(nil, 30, RuleAllSplit, 0)
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Shares)
}

func TestSettle_InvalidInputs(t *testing.T) {
	_, err := Settle(nil, 30, Rule("winner_takes_all"), 0)
	assert.True(t, engine.IsValidation(err))

	_, err = Settle(nil, 30, RuleBottomGroupsPay, 0)
	assert.True(t, engine.IsValidation(err))
}
