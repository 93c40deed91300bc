package cli

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kmorrow/rackscore/internal/engine"
	"github.com/kmorrow/rackscore/internal/game"
	"github.com/kmorrow/rackscore/internal/settle"
)

// Rendering is deliberately wall-clock free: lines carry sequence numbers
// and scores, never timestamps, so output is stable for golden comparison.

// RenderState renders the session summary: roster with scores and turn
// marker, balls remaining with capacity, undo availability.
func RenderState(st *game.State, cfg game.Settings) string {
	var b strings.Builder

	status := "active"
	switch {
	case st.IsArchived && st.IsFinalized:
		status = "finalized"
	case st.IsArchived:
		status = "archived"
	case !st.IsGameActive:
		status = "inactive"
	}

	fmt.Fprintf(&b, "session: %s (%s)\n", st.ID, status)

	turn := "-"
	if i := st.FindPlayer(st.CurrentPlayerID); i != -1 {
		turn = st.Players[i].Name
	}
	fmt.Fprintf(&b, "turn: %s\n", turn)

	width := 0
	for _, p := range st.Players {
		if len(p.Name) > width {
			width = len(p.Name)
		}
	}

	active := st.ActivePlayers()
	capacity := engine.TableCapacity(st.BallsOnTable, cfg)
	lead, _ := engine.LeaderScore(active)

	b.WriteString("players:\n")
	for _, p := range st.Players {
		marker := " "
		if p.ID == st.CurrentPlayerID {
			marker = ">"
		}
		flag := "active"
		if !p.IsActive {
			flag = "inactive"
		}
		line := fmt.Sprintf("  %s %-*s  %4d  [%s]", marker, width, p.Name, p.Score, flag)
		if cfg.EliminationEnabled && p.IsActive && engine.IsEliminated(p, active, capacity, lead) {
			line += " eliminated"
		}
		b.WriteString(line + "\n")
	}

	balls := make([]string, len(st.BallsOnTable))
	for i, n := range st.BallsOnTable {
		balls[i] = fmt.Sprintf("%d", n)
	}
	fmt.Fprintf(&b, "balls: %s (capacity %d)\n", strings.Join(balls, " "), capacity)

	undo := "-"
	if st.CanUndo {
		undo = "available"
	}
	fmt.Fprintf(&b, "undo: %s\n", undo)

	return b.String()
}

// RenderTimeline renders the global event log, one line per entry.
func RenderTimeline(events []game.Event) string {
	if len(events) == 0 {
		return "no events\n"
	}

	var b strings.Builder
	for _, ev := range events {
		switch ev.Type {
		case game.EventScore, game.EventUndo:
			scores := ""
			if ev.PreviousScore != nil && ev.NewScore != nil {
				scores = fmt.Sprintf("  (%d -> %d)", *ev.PreviousScore, *ev.NewScore)
			}
			fmt.Fprintf(&b, "%4d  %-13s  %s  %+d%s\n", ev.Seq, ev.Type, ev.PlayerName, ev.Points, scores)
		default:
			fmt.Fprintf(&b, "%4d  %-13s  %s\n", ev.Seq, ev.Type, ev.Message)
		}
	}
	return b.String()
}

// RenderHistory renders the archived-session listing, newest first.
func RenderHistory(sessions []game.State) string {
	if len(sessions) == 0 {
		return "no archived sessions\n"
	}

	var b strings.Builder
	for _, st := range sessions {
		status := "unfinalized"
		if st.IsFinalized {
			status = "finalized"
		}
		parts := make([]string, len(st.Players))
		for i, p := range st.Players {
			parts[i] = fmt.Sprintf("%s %d", p.Name, p.Score)
		}
		fmt.Fprintf(&b, "%s  %-11s  %s\n", st.ID, status, strings.Join(parts, ", "))
	}
	return b.String()
}

// RenderSettlement renders per-player amounts owed, largest debt first.
// Amounts are formatted through the locale-aware printer.
func RenderSettlement(res settle.Result) string {
	p := message.NewPrinter(language.English)

	var b strings.Builder
	width := 0
	for _, s := range res.Shares {
		if len(s.Name) > width {
			width = len(s.Name)
		}
	}
	for _, s := range res.Shares {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, s.Name, p.Sprintf("%.2f", s.Amount))
	}
	fmt.Fprintf(&b, "total: %s\n", p.Sprintf("%.2f", res.Total))
	return b.String()
}
