package engine

import "github.com/kmorrow/rackscore/internal/game"

// skipGatingEnabled reports whether eliminated players are skipped during
// rotation. Elimination must be enabled, and either strict turn mode is on
// or eliminated players are barred from input.
func skipGatingEnabled(cfg game.Settings) bool {
	return cfg.EliminationEnabled && (cfg.StrictTurnMode || !cfg.AllowEliminatedInput)
}

// NextTurn computes the id of the player whose turn comes next.
//
// Only active players are eligible; rotation order is index order within the
// active subsequence, wrapping circularly. With forceSkipCurrent=false the
// current player keeps the turn unless they must be skipped; with
// forceSkipCurrent=true the search always starts at the player after current.
//
// The skip search scans at most once around the active set. If every active
// player would be skipped, the original current player is returned:
// the rotation never deadlocks into a null turn while active players exist.
func NextTurn(s *game.State, cfg game.Settings, forceSkipCurrent bool) string {
	active := s.ActivePlayers()
	if len(active) == 0 {
		return s.CurrentPlayerID
	}

	capacity := TableCapacity(s.BallsOnTable, cfg)
	lead, _ := LeaderScore(active)
	gated := skipGatingEnabled(cfg)

	mustSkip := func(p game.Player) bool {
		return gated && IsEliminated(p, active, capacity, lead)
	}

	// Position of the current player within the active subsequence.
	// A missing or inactive current player starts the search at the top.
	cur := -1
	for i, p := range active {
		if p.ID == s.CurrentPlayerID {
			cur = i
			break
		}
	}

	if cur == -1 {
		for _, p := range active {
			if !mustSkip(p) {
				return p.ID
			}
		}
		return s.CurrentPlayerID
	}

	if !forceSkipCurrent && !mustSkip(active[cur]) {
		return s.CurrentPlayerID
	}

	for step := 1; step <= len(active); step++ {
		cand := active[(cur+step)%len(active)]
		if !mustSkip(cand) {
			return cand.ID
		}
	}

	// Everyone would be skipped; keep the current player rather than stall.
	return s.CurrentPlayerID
}
