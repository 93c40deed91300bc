package engine

import (
	"fmt"
	"time"

	"github.com/kmorrow/rackscore/internal/game"
)

// ApplyScore applies a scoring delta to a player and returns the new state.
// Points may be negative; corrections and penalties are first-class.
//
// Rejections (state unchanged):
//   - unknown player id (validation)
//   - strict turn mode and the player is not the current player (rule)
//
// On success the previous score is pushed onto the player's bounded score
// history, a compact delta entry onto their event history, and a SCORE event
// onto the global log. CanUndo is set unconditionally. With autoNextTurn the
// next turn is computed from the updated state with a forced skip, so a
// just-scored leader is evaluated against the new score distribution.
func ApplyScore(s game.State, playerID string, points int, cfg game.Settings, now time.Time) (game.State, error) {
	idx := s.FindPlayer(playerID)
	if idx == -1 {
		return s, NewValidationError("unknown player id %q", playerID)
	}
	if cfg.StrictTurnMode && playerID != s.CurrentPlayerID {
		return s, NewRuleError(playerID, "strict turn mode: only the current player may score")
	}

	out := s.Clone()
	p := &out.Players[idx]

	prev := p.Score
	p.Score += points

	p.ScoreHistory = pushBounded(p.ScoreHistory, prev, game.ScoreHistoryCap)
	p.EventHistory = pushBoundedEvent(p.EventHistory, game.PlayerEvent{Points: points}, game.EventHistoryCap)

	newScore := p.Score
	out.Events = append(out.Events, game.Event{
		Seq:              out.NextSeq(),
		Type:             game.EventScore,
		PlayerID:         p.ID,
		PlayerName:       p.Name,
		Points:           points,
		PreviousPlayerID: s.CurrentPlayerID,
		PreviousScore:    &prev,
		NewScore:         &newScore,
		Timestamp:        now,
	})

	out.CanUndo = true
	out.LastUpdate = now

	if cfg.AutoNextTurn {
		out.CurrentPlayerID = NextTurn(&out, cfg, true)
	}

	return out, nil
}

// ApplyUndo reverses the single most recent SCORE event.
//
// Undo is single-shot: CanUndo clears after a successful undo and only
// another score sets it again. There is no redo and no undo-of-undo. The
// undone event itself stays in the log; a compensating UNDO entry with the
// negated points is appended so the timeline remains self-describing.
//
// The current player is restored to the PreviousPlayerID recorded on the
// undone SCORE event: turn order is rewound, not just the score. If that
// player has since left the rotation, the turn is recomputed instead, so the
// session never points at an inactive player.
func ApplyUndo(s game.State, cfg game.Settings, now time.Time) (game.State, error) {
	if !s.CanUndo {
		return s, NewRuleError("", "undo unavailable")
	}

	last := -1
	for i := len(s.Events) - 1; i >= 0; i-- {
		if s.Events[i].Type == game.EventScore {
			last = i
			break
		}
	}
	if last == -1 {
		return s, NewRuleError("", "no score event to undo")
	}

	ev := s.Events[last]
	idx := s.FindPlayer(ev.PlayerID)
	if idx == -1 {
		return s, NewValidationError("score event references unknown player id %q", ev.PlayerID)
	}

	out := s.Clone()
	p := &out.Players[idx]

	prev := p.Score
	p.Score -= ev.Points

	// Pop the cache entries the undone score pushed; the bounded histories
	// are derived caches, not a second event log.
	if len(p.ScoreHistory) > 0 {
		p.ScoreHistory = p.ScoreHistory[1:]
	}
	if len(p.EventHistory) > 0 {
		p.EventHistory = p.EventHistory[1:]
	}

	restored := p.Score
	out.Events = append(out.Events, game.Event{
		Seq:              out.NextSeq(),
		Type:             game.EventUndo,
		PlayerID:         p.ID,
		PlayerName:       p.Name,
		Points:           -ev.Points,
		PreviousPlayerID: s.CurrentPlayerID,
		PreviousScore:    &prev,
		NewScore:         &restored,
		Timestamp:        now,
	})

	out.CurrentPlayerID = ev.PreviousPlayerID
	if i := out.FindPlayer(ev.PreviousPlayerID); i == -1 || !out.Players[i].IsActive {
		out.CurrentPlayerID = NextTurn(&out, cfg, true)
	}
	out.CanUndo = false
	out.LastUpdate = now

	return out, nil
}

// SetActive toggles a player's rotation membership and returns the new state.
//
// Deactivation is rejected in strict turn mode (strict sessions may only
// gain players) and whenever it would leave fewer than
// game.MinActivePlayers in the rotation. A successful change appends a
// STATUS_CHANGE event. Deactivating the current player immediately
// recomputes the turn with a forced skip so the session never points at an
// inactive player.
func SetActive(s game.State, playerID string, isActive bool, cfg game.Settings, now time.Time) (game.State, error) {
	idx := s.FindPlayer(playerID)
	if idx == -1 {
		return s, NewValidationError("unknown player id %q", playerID)
	}

	if !isActive {
		if cfg.StrictTurnMode {
			return s, NewRuleError(playerID, "strict turn mode: players cannot be removed from the rotation")
		}
		if s.Players[idx].IsActive && s.ActiveCount()-1 < game.MinActivePlayers {
			return s, NewRuleError(playerID, "at least %d active players required", game.MinActivePlayers)
		}
	}

	out := s.Clone()
	p := &out.Players[idx]
	p.IsActive = isActive

	verb := "rejoined the rotation"
	if !isActive {
		verb = "left the rotation"
	}
	out.Events = append(out.Events, game.Event{
		Seq:        out.NextSeq(),
		Type:       game.EventStatusChange,
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Message:    fmt.Sprintf("%s %s", p.Name, verb),
		Timestamp:  now,
	})
	out.LastUpdate = now

	if !isActive && out.CurrentPlayerID == playerID {
		out.CurrentPlayerID = NextTurn(&out, cfg, true)
	}

	return out, nil
}

// SetCurrentPlayer hands the turn to an explicit player. The target must
// exist and be active.
func SetCurrentPlayer(s game.State, playerID string, now time.Time) (game.State, error) {
	idx := s.FindPlayer(playerID)
	if idx == -1 {
		return s, NewValidationError("unknown player id %q", playerID)
	}
	if !s.Players[idx].IsActive {
		return s, NewRuleError(playerID, "cannot hand the turn to an inactive player")
	}

	out := s.Clone()
	out.CurrentPlayerID = playerID
	out.LastUpdate = now
	return out, nil
}

// SetBallsOnTable replaces the remaining-balls set. Values are validated,
// deduplicated and stored sorted ascending.
func SetBallsOnTable(s game.State, balls []int, now time.Time) (game.State, error) {
	cleaned, err := ValidateBalls(balls)
	if err != nil {
		return s, err
	}

	out := s.Clone()
	out.BallsOnTable = cleaned
	out.LastUpdate = now
	return out, nil
}

// pushBounded prepends v and trims to cap. Most recent entry first.
func pushBounded(list []int, v int, limit int) []int {
	list = append([]int{v}, list...)
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

func pushBoundedEvent(list []game.PlayerEvent, v game.PlayerEvent, limit int) []game.PlayerEvent {
	list = append([]game.PlayerEvent{v}, list...)
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}
