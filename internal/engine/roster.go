package engine

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/kmorrow/rackscore/internal/game"
)

// NormalizeName trims surrounding whitespace and applies NFC normalization,
// so visually identical names compare equal regardless of input encoding.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ValidateRoster checks a roster for a new session and returns the cleaned
// player names in order.
//
// Rules:
//   - between game.MinPlayers and game.MaxPlayers names
//   - no blank names after trimming
//   - names are unique, case-sensitive, compared after normalization
func ValidateRoster(names []string) ([]string, error) {
	if len(names) < game.MinPlayers {
		return nil, NewValidationError("need at least %d players, got %d", game.MinPlayers, len(names))
	}
	if len(names) > game.MaxPlayers {
		return nil, NewValidationError("at most %d players allowed, got %d", game.MaxPlayers, len(names))
	}

	cleaned := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, raw := range names {
		name := NormalizeName(raw)
		if name == "" {
			return nil, NewValidationError("player names must not be blank")
		}
		if seen[name] {
			return nil, NewValidationError("duplicate player name %q", name)
		}
		seen[name] = true
		cleaned = append(cleaned, name)
	}

	return cleaned, nil
}

// ValidateBalls checks a balls-on-table update and returns the cleaned set:
// deduplicated and sorted ascending. Every value must be within
// [game.MinBall, game.MaxBall].
func ValidateBalls(balls []int) ([]int, error) {
	seen := make(map[int]bool, len(balls))
	cleaned := make([]int, 0, len(balls))
	for _, b := range balls {
		if b < game.MinBall || b > game.MaxBall {
			return nil, NewValidationError("ball number %d out of range [%d,%d]", b, game.MinBall, game.MaxBall)
		}
		if seen[b] {
			continue
		}
		seen[b] = true
		cleaned = append(cleaned, b)
	}

	// insertion sort; the set holds at most 15 values
	for i := 1; i < len(cleaned); i++ {
		for j := i; j > 0 && cleaned[j] < cleaned[j-1]; j-- {
			cleaned[j], cleaned[j-1] = cleaned[j-1], cleaned[j]
		}
	}

	return cleaned, nil
}
