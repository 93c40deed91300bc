package engine

import "github.com/kmorrow/rackscore/internal/game"

// TableCapacity returns the total points still available on the table: the
// sum of per-ball values for every ball remaining, looked up from the value
// table in settings. Balls without an explicit entry are worth
// game.DefaultBallValue.
func TableCapacity(balls []int, cfg game.Settings) int {
	total := 0
	for _, b := range balls {
		if v, ok := cfg.BallValues[b]; ok {
			total += v
		} else {
			total += game.DefaultBallValue
		}
	}
	return total
}

// LeaderScore returns the maximum score among active players and whether a
// leader set exists at all. An all-zero field is not treated as anyone
// leading: the set is non-empty only if at least one active player has a
// non-zero score.
func LeaderScore(active []game.Player) (int, bool) {
	if len(active) == 0 {
		return 0, false
	}
	max := active[0].Score
	anyNonZero := active[0].Score != 0
	for _, p := range active[1:] {
		if p.Score > max {
			max = p.Score
		}
		if p.Score != 0 {
			anyNonZero = true
		}
	}
	return max, anyNonZero
}

// IsEliminated reports whether a player is mathematically unable to win:
// even pocketing every remaining ball they cannot reach the current leader.
//
// Pure and deterministic for identical inputs. Rules:
//   - nothing left on the table means nothing left to gain, nobody is
//     eliminated
//   - players tied for the lead are never eliminated
//   - a player whose potential maximum exactly ties the leader is NOT
//     eliminated; they could still draw level
func IsEliminated(p game.Player, active []game.Player, tableCapacity int, leaderScore int) bool {
	if tableCapacity <= 0 {
		return false
	}

	if _, hasLeaders := LeaderScore(active); !hasLeaders {
		return false
	}
	if p.Score == leaderScore {
		// In the leader set.
		return false
	}

	return p.Score+tableCapacity < leaderScore
}
