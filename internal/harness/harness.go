// Package harness runs yaml-scripted session scenarios end to end: a real
// sqlite store, the production controller, and deterministic clock/id
// collaborators. Rendered outcomes are compared against golden files, so a
// scenario is both an executable example and a regression net for the
// lifecycle invariants (archive-before-overwrite, single-shot undo,
// turn rotation).
package harness

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/kmorrow/rackscore/internal/engine"
	"github.com/kmorrow/rackscore/internal/game"
	"github.com/kmorrow/rackscore/internal/session"
	"github.com/kmorrow/rackscore/internal/store"
	"github.com/kmorrow/rackscore/internal/testutil"
)

// Result captures the world after the last step.
type Result struct {
	Live    *game.State  // nil when the live slot is empty
	History []game.State // newest first
}

// Run executes a scenario against a fresh database and returns the result.
//
// Determinism: ids are "id-1", "id-2", ... in allocation order, the clock
// starts at a fixed instant and advances one second per reading, and the
// snapshot gate is pinned shut.
func Run(t *testing.T, sc *Scenario) (*Result, error) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "scenario.db"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	t.Cleanup(func() { st.Close() })

	clock := testutil.NewDeterministicClock(
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), time.Second)
	st.SetNowFunc(clock.Now)

	ctrl := session.New(st,
		session.WithIDGenerator(testutil.NewFixedIDs("id")),
		session.WithClock(clock.Now),
		session.WithRand(func() float64 { return 1 }),
		session.WithDeviceInfo(fixedDevice{}),
	)

	ctx := context.Background()

	if sc.Settings != nil {
		if err := ctrl.UpdateSettings(ctx, *sc.Settings); err != nil {
			return nil, fmt.Errorf("apply scenario settings: %w", err)
		}
	}

	for i, step := range sc.Steps {
		err := runStep(ctx, ctrl, step)
		if step.WantError != "" {
			if err == nil {
				return nil, fmt.Errorf("step %d (%s): expected %s failure, got success", i+1, step.Op, step.WantError)
			}
			var fail *engine.Failure
			if !errors.As(err, &fail) || string(fail.Code) != step.WantError {
				return nil, fmt.Errorf("step %d (%s): expected %s failure, got: %v", i+1, step.Op, step.WantError, err)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}

	res := &Result{}
	if live, ok, err := ctrl.Current(ctx); err != nil {
		return nil, fmt.Errorf("read final state: %w", err)
	} else if ok {
		res.Live = &live
	}
	if res.History, err = st.History(ctx); err != nil {
		return nil, fmt.Errorf("read final history: %w", err)
	}
	return res, nil
}

// runStep dispatches one scripted intent.
func runStep(ctx context.Context, ctrl *session.Controller, step Step) error {
	switch step.Op {
	case "start":
		_, err := ctrl.Start(ctx, step.Players)
		return err
	case "restart":
		_, err := ctrl.Restart(ctx, step.Players)
		return err
	case "score":
		id, err := playerID(ctx, ctrl, step.Player)
		if err != nil {
			return err
		}
		_, err = ctrl.Score(ctx, id, step.Points)
		return err
	case "undo":
		_, err := ctrl.Undo(ctx)
		return err
	case "activate", "deactivate":
		id, err := playerID(ctx, ctrl, step.Player)
		if err != nil {
			return err
		}
		_, err = ctrl.SetPlayerActive(ctx, id, step.Op == "activate")
		return err
	case "turn":
		id, err := playerID(ctx, ctrl, step.Player)
		if err != nil {
			return err
		}
		_, err = ctrl.SetCurrentPlayer(ctx, id)
		return err
	case "balls":
		_, err := ctrl.UpdateBalls(ctx, step.Balls)
		return err
	case "rename":
		id, err := playerID(ctx, ctrl, step.Player)
		if err != nil {
			return err
		}
		_, err = ctrl.RenamePlayer(ctx, id, step.NewName)
		return err
	case "archive":
		return ctrl.Archive(ctx, step.Finalized, false)
	case "resume":
		_, err := ctrl.Resume(ctx, step.SessionID, !step.Branch)
		return err
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

// playerID resolves a scenario player name against the live session.
func playerID(ctx context.Context, ctrl *session.Controller, name string) (string, error) {
	st, ok, err := ctrl.Current(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", engine.NewRuleError("", "no active session")
	}
	want := engine.NormalizeName(name)
	for i := range st.Players {
		if st.Players[i].Name == want {
			return st.Players[i].ID, nil
		}
	}
	// Fall through with the raw reference; lets scenarios exercise
	// unknown-player rejections.
	return name, nil
}

type fixedDevice struct{}

func (fixedDevice) DeviceInfo() string { return "scenario-host (test)" }
