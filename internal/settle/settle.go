// Package settle assigns shared table cost across a set of finalized
// sessions. Pure batch computation over session snapshots; no state.
package settle

import (
	"sort"

	"github.com/kmorrow/rackscore/internal/engine"
	"github.com/kmorrow/rackscore/internal/game"
)

// Rule selects who pays a session's share of the cost.
type Rule string

const (
	// RuleAllSplit divides a session's cost equally among every participant.
	RuleAllSplit Rule = "all_split"

	// RuleLosersPay divides a session's cost among non-top-scorers. A
	// session where every score is equal (including 0-0) splits among all.
	RuleLosersPay Rule = "losers_pay"

	// RuleBottomGroupsPay excludes top scorers, groups the rest by distinct
	// score ascending, and splits the cost among every player in the lowest
	// N distinct score groups (N groups, not N players).
	RuleBottomGroupsPay Rule = "bottom_groups_pay"
)

// Share is one player's aggregated amount owed.
type Share struct {
	Name   string
	Amount float64
}

// Result is the settlement across all contributing sessions.
// Shares are sorted descending by amount owed, ties by name.
type Result struct {
	Total  float64
	Shares []Share
}

// Settle computes who owes what for a set of sessions.
//
// Only sessions with at least one player contribute; each contributing
// session adds costPerSession to the total regardless of rule. Amounts are
// aggregated per player name across sessions. bottomGroups is only
// consulted for RuleBottomGroupsPay.
func Settle(sessions []game.State, costPerSession float64, rule Rule, bottomGroups int) (Result, error) {
	switch rule {
	case RuleAllSplit, RuleLosersPay:
	case RuleBottomGroupsPay:
		if bottomGroups < 1 {
			return Result{}, engine.NewValidationError("bottom group count must be at least 1, got %d", bottomGroups)
		}
	default:
		return Result{}, engine.NewValidationError("unknown settlement rule %q", string(rule))
	}

	owed := make(map[string]float64)
	total := 0.0

	for i := range sessions {
		s := &sessions[i]
		if len(s.Players) == 0 {
			continue
		}
		total += costPerSession

		payers := selectPayers(s.Players, rule, bottomGroups)
		share := costPerSession / float64(len(payers))
		for _, name := range payers {
			owed[name] += share
		}
	}

	shares := make([]Share, 0, len(owed))
	for name, amount := range owed {
		shares = append(shares, Share{Name: name, Amount: amount})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Amount != shares[j].Amount {
			return shares[i].Amount > shares[j].Amount
		}
		return shares[i].Name < shares[j].Name
	})

	return Result{Total: total, Shares: shares}, nil
}

// selectPayers returns the names of the players who split one session's
// cost. Always returns at least one name for a non-empty roster.
func selectPayers(players []game.Player, rule Rule, bottomGroups int) []string {
	if rule == RuleAllSplit || allScoresEqual(players) {
		return names(players)
	}

	top := maxScore(players)
	var losers []game.Player
	for _, p := range players {
		if p.Score < top {
			losers = append(losers, p)
		}
	}
	if len(losers) == 0 {
		// Everyone tied for the top; same degenerate split as all-equal.
		return names(players)
	}

	if rule == RuleLosersPay {
		return names(losers)
	}

	// RuleBottomGroupsPay: lowest N distinct score values among the losers.
	distinct := make([]int, 0, len(losers))
	seen := make(map[int]bool)
	for _, p := range losers {
		if !seen[p.Score] {
			seen[p.Score] = true
			distinct = append(distinct, p.Score)
		}
	}
	sort.Ints(distinct)
	if bottomGroups < len(distinct) {
		distinct = distinct[:bottomGroups]
	}

	pay := make(map[int]bool, len(distinct))
	for _, sc := range distinct {
		pay[sc] = true
	}

	var out []string
	for _, p := range losers {
		if pay[p.Score] {
			out = append(out, p.Name)
		}
	}
	return out
}

func allScoresEqual(players []game.Player) bool {
	for _, p := range players[1:] {
		if p.Score != players[0].Score {
			return false
		}
	}
	return true
}

func maxScore(players []game.Player) int {
	max := players[0].Score
	for _, p := range players[1:] {
		if p.Score > max {
			max = p.Score
		}
	}
	return max
}

func names(players []game.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}
