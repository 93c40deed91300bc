package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kmorrow/rackscore/internal/game"
)

// Scenario is a yaml-scripted session exercise: a settings block, a list of
// steps, and optional expectations per step. Scenarios run against a real
// sqlite store with a deterministic clock and fixed ids, so the rendered
// outcome is stable enough for golden comparison.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// Settings applied before the first step. Zero value means defaults.
	Settings *game.Settings `yaml:"settings,omitempty"`

	Steps []Step `yaml:"steps"`
}

// Step is one scripted intent. Op selects the intent; the other fields are
// its arguments. Players are referenced by name.
type Step struct {
	Op string `yaml:"op"` // start, score, undo, activate, deactivate, turn, balls, rename, archive, restart, resume

	Players []string `yaml:"players,omitempty"` // start, restart
	Player  string   `yaml:"player,omitempty"`  // score, activate, deactivate, turn, rename
	Points  int      `yaml:"points,omitempty"`  // score
	Balls   []int    `yaml:"balls,omitempty"`   // balls
	NewName string   `yaml:"newName,omitempty"` // rename

	Finalized bool   `yaml:"finalized,omitempty"` // archive
	SessionID string `yaml:"sessionId,omitempty"` // resume
	Branch    bool   `yaml:"branch,omitempty"`    // resume

	// WantError, when set, expects the step to be rejected with the given
	// failure code (VALIDATION or RULE_VIOLATION) and the state unchanged.
	WantError string `yaml:"wantError,omitempty"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: at least one step required", path)
	}
	for i, step := range sc.Steps {
		if step.Op == "" {
			return nil, fmt.Errorf("scenario %s: step %d missing op", path, i+1)
		}
	}

	return &sc, nil
}
