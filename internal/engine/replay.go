package engine

import (
	"fmt"

	"github.com/kmorrow/rackscore/internal/game"
)

// RebuildScores recomputes per-player scores by folding the global event
// log from zero. SCORE entries add their delta; UNDO entries carry the
// negated delta of the event they compensate, so a plain sum stays correct.
// STATUS_CHANGE entries do not affect scores.
//
// The log is authoritative history; this is the integrity check that the
// bounded per-player caches and stored scores agree with it.
func RebuildScores(events []game.Event) map[string]int {
	scores := make(map[string]int)
	for _, ev := range events {
		switch ev.Type {
		case game.EventScore, game.EventUndo:
			scores[ev.PlayerID] += ev.Points
		}
	}
	return scores
}

// VerifyLog replays the session's event log and reports any player whose
// stored score disagrees with the replayed sum. A nil return means the log
// and the materialized scores are consistent.
func VerifyLog(s *game.State) error {
	replayed := RebuildScores(s.Events)
	for i := range s.Players {
		p := &s.Players[i]
		if got := replayed[p.ID]; got != p.Score {
			return fmt.Errorf("player %s (%s): stored score %d, replayed %d", p.Name, p.ID, p.Score, got)
		}
	}
	return nil
}
