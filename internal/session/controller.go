// Package session orchestrates session lifecycle and delegates pure state
// transitions to the engine. The controller owns no ambient globals: the
// repository, analytics, device info, id generation, clock, and randomness
// are all injected, with production defaults.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/kmorrow/rackscore/internal/engine"
	"github.com/kmorrow/rackscore/internal/game"
)

// Controller validates intents, computes transitions through the engine,
// and sequences persistence so that archiving an in-flight session always
// completes before a new or resumed session is saved.
type Controller struct {
	repo      Repository
	analytics Analytics
	device    DeviceInfoProvider
	ids       game.IDGenerator
	clock     func() time.Time
	rand      func() float64
}

// Option configures a Controller.
type Option func(*Controller)

// WithAnalytics replaces the default slog-backed analytics sink.
func WithAnalytics(a Analytics) Option { return func(c *Controller) { c.analytics = a } }

// WithDeviceInfo replaces the default host device info provider.
func WithDeviceInfo(d DeviceInfoProvider) Option { return func(c *Controller) { c.device = d } }

// WithIDGenerator replaces the default UUIDv7 generator.
func WithIDGenerator(g game.IDGenerator) Option { return func(c *Controller) { c.ids = g } }

// WithClock replaces the wall clock. Tests use a deterministic clock.
func WithClock(f func() time.Time) Option { return func(c *Controller) { c.clock = f } }

// WithRand replaces the randomness source gating the safety-net snapshot.
func WithRand(f func() float64) Option { return func(c *Controller) { c.rand = f } }

// New creates a Controller around the repository with production defaults
// for every other collaborator.
func New(repo Repository, opts ...Option) *Controller {
	c := &Controller{
		repo:      repo,
		analytics: SlogAnalytics{},
		device:    HostDeviceInfo{},
		ids:       game.UUIDv7Generator{},
		clock:     time.Now,
		rand:      rand.Float64,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current returns the live session, if any.
func (c *Controller) Current(ctx context.Context) (game.State, bool, error) {
	st, ok, err := c.repo.CurrentSession(ctx)
	if err != nil {
		return game.State{}, false, engine.NewPersistenceError("read current session", err)
	}
	return st, ok, nil
}

// Start validates the roster, archives any in-flight progress, and creates
// a fresh session with the first player holding the turn.
//
// An existing session with any non-zero score or logged event is archived
// (unfinalized) before the new one is saved; progress is never silently
// discarded.
func (c *Controller) Start(ctx context.Context, names []string) (game.State, error) {
	cleaned, err := engine.ValidateRoster(names)
	if err != nil {
		return game.State{}, err
	}

	if err := c.archiveInFlight(ctx); err != nil {
		return game.State{}, err
	}

	return c.newSession(ctx, cleaned)
}

// newSession constructs and saves a fresh session from an already-validated
// roster. The caller is responsible for having cleared or archived any
// in-flight session first.
func (c *Controller) newSession(ctx context.Context, names []string) (game.State, error) {
	now := c.clock()

	st := game.State{
		ID:           c.ids.NewID(),
		Players:      make([]game.Player, 0, len(names)),
		IsGameActive: true,
		StartTime:    now,
		LastUpdate:   now,
		DeviceInfo:   c.device.DeviceInfo(),
	}
	for _, name := range names {
		st.Players = append(st.Players, game.Player{
			ID:       c.ids.NewID(),
			Name:     name,
			IsActive: true,
		})
	}
	st.CurrentPlayerID = st.Players[0].ID

	// Full rack.
	for b := game.MinBall; b <= game.MaxBall; b++ {
		st.BallsOnTable = append(st.BallsOnTable, b)
	}

	if err := c.repo.SaveSession(ctx, st); err != nil {
		return st, engine.NewPersistenceError("save new session", err)
	}

	c.analytics.Track("session_started", map[string]any{
		"session_id": st.ID,
		"players":    len(st.Players),
	})
	return st, nil
}

// Resume brings an archived session back to the live slot.
//
// With overrideHistory the session keeps its original id and is removed
// from history (a true resume, no duplicate record). Otherwise it is cloned
// under a new id with a reset start time and the archived record stays
// untouched. Either way the terminal flags are reset so the session behaves
// as freshly active. In-flight progress is archived first.
func (c *Controller) Resume(ctx context.Context, id string, overrideHistory bool) (game.State, error) {
	st, ok, err := c.repo.HistorySession(ctx, id)
	if err != nil {
		return game.State{}, engine.NewPersistenceError("read history", err)
	}
	if !ok {
		return game.State{}, engine.NewValidationError("no archived session with id %q", id)
	}

	if err := c.archiveInFlight(ctx); err != nil {
		return game.State{}, err
	}

	now := c.clock()
	st = st.Clone()

	if overrideHistory {
		if err := c.repo.DeleteFromHistory(ctx, id); err != nil {
			return game.State{}, engine.NewPersistenceError("remove resumed session from history", err)
		}
	} else {
		st.ID = c.ids.NewID()
		st.StartTime = now
	}

	st.IsGameActive = true
	st.IsFinalized = false
	st.IsArchived = false
	st.CanUndo = false
	st.EndTime = nil
	st.LastUpdate = now

	if err := c.repo.SaveSession(ctx, st); err != nil {
		return st, engine.NewPersistenceError("save resumed session", err)
	}

	c.analytics.Track("session_resumed", map[string]any{
		"session_id": st.ID,
		"override":   overrideHistory,
	})
	return st, nil
}

// Archive moves the live session into history and clears the live slot.
//
// A session without progress leaves no trace unless forceSave is set. A
// failed history write aborts without clearing: the session stays live and
// unsaved rather than being discarded. The configuration may gate a
// probabilistic safety-net snapshot after a successful archive.
func (c *Controller) Archive(ctx context.Context, finalized, forceSave bool) error {
	st, ok, err := c.repo.CurrentSession(ctx)
	if err != nil {
		return engine.NewPersistenceError("read current session", err)
	}
	if !ok {
		return engine.NewRuleError("", "no active session to archive")
	}

	if st.HasProgress() || forceSave {
		now := c.clock()
		archived := st.Clone()
		archived.IsFinalized = finalized
		archived.IsArchived = true
		archived.IsGameActive = false
		archived.EndTime = &now
		archived.LastUpdate = now

		if err := c.repo.ArchiveSession(ctx, archived, forceSave); err != nil {
			return engine.NewPersistenceError("archive session", err)
		}

		c.maybeSnapshot(ctx)
	}

	if err := c.repo.ClearSession(ctx); err != nil {
		return engine.NewPersistenceError("clear session", err)
	}

	c.analytics.Track("session_archived", map[string]any{
		"session_id": st.ID,
		"finalized":  finalized,
	})
	return nil
}

// Restart archives current progress as finalized, clears the live slot,
// and starts a new session with the given roster. The roster is validated
// before anything is archived, and the live slot is cleared exactly once
// between the two steps, so a bad roster cannot strand the old session and
// the old session cannot be archived twice.
func (c *Controller) Restart(ctx context.Context, names []string) (game.State, error) {
	cleaned, err := engine.ValidateRoster(names)
	if err != nil {
		return game.State{}, err
	}

	st, ok, err := c.repo.CurrentSession(ctx)
	if err != nil {
		return game.State{}, engine.NewPersistenceError("read current session", err)
	}
	if ok && st.HasProgress() {
		if err := c.Archive(ctx, true, false); err != nil {
			return game.State{}, err
		}
	} else if ok {
		if err := c.repo.ClearSession(ctx); err != nil {
			return game.State{}, engine.NewPersistenceError("clear session", err)
		}
	}

	return c.newSession(ctx, cleaned)
}

// Score applies a scoring delta to a player in the live session.
func (c *Controller) Score(ctx context.Context, playerID string, points int) (game.State, error) {
	return c.transition(ctx, "score", func(st game.State, cfg game.Settings, now time.Time) (game.State, error) {
		return engine.ApplyScore(st, playerID, points, cfg, now)
	})
}

// Undo reverses the most recent score event in the live session.
func (c *Controller) Undo(ctx context.Context) (game.State, error) {
	return c.transition(ctx, "undo", func(st game.State, cfg game.Settings, now time.Time) (game.State, error) {
		return engine.ApplyUndo(st, cfg, now)
	})
}

// SetPlayerActive toggles a player's rotation membership.
func (c *Controller) SetPlayerActive(ctx context.Context, playerID string, active bool) (game.State, error) {
	return c.transition(ctx, "set_player_active", func(st game.State, cfg game.Settings, now time.Time) (game.State, error) {
		return engine.SetActive(st, playerID, active, cfg, now)
	})
}

// SetCurrentPlayer hands the turn to an explicit active player.
func (c *Controller) SetCurrentPlayer(ctx context.Context, playerID string) (game.State, error) {
	return c.transition(ctx, "set_current_player", func(st game.State, cfg game.Settings, now time.Time) (game.State, error) {
		return engine.SetCurrentPlayer(st, playerID, now)
	})
}

// UpdateBalls replaces the remaining-balls set of the live session.
func (c *Controller) UpdateBalls(ctx context.Context, balls []int) (game.State, error) {
	return c.transition(ctx, "update_balls", func(st game.State, cfg game.Settings, now time.Time) (game.State, error) {
		return engine.SetBallsOnTable(st, balls, now)
	})
}

// RenamePlayer renames a player in the live session and propagates the new
// name to every archived session where the old name appears. Event log
// entries keep the name that was current when they were recorded.
func (c *Controller) RenamePlayer(ctx context.Context, playerID, newName string) (game.State, error) {
	name := engine.NormalizeName(newName)
	if name == "" {
		return game.State{}, engine.NewValidationError("player name must not be blank")
	}

	st, ok, err := c.repo.CurrentSession(ctx)
	if err != nil {
		return game.State{}, engine.NewPersistenceError("read current session", err)
	}
	if !ok {
		return game.State{}, engine.NewRuleError("", "no active session")
	}

	idx := st.FindPlayer(playerID)
	if idx == -1 {
		return st, engine.NewValidationError("unknown player id %q", playerID)
	}
	for i := range st.Players {
		if i != idx && st.Players[i].Name == name {
			return st, engine.NewValidationError("player name %q already in use", name)
		}
	}

	oldName := st.Players[idx].Name

	out := st.Clone()
	out.Players[idx].Name = name
	out.LastUpdate = c.clock()

	if err := c.repo.SaveSession(ctx, out); err != nil {
		return out, engine.NewPersistenceError("save session", err)
	}

	if err := c.renameInHistory(ctx, oldName, name); err != nil {
		// The live rename landed; history propagation is best-effort.
		slog.Warn("rename: history propagation failed", "error", err)
	}

	c.analytics.Track("player_renamed", map[string]any{
		"session_id": out.ID,
		"player_id":  playerID,
	})
	return out, nil
}

func (c *Controller) renameInHistory(ctx context.Context, oldName, newName string) error {
	history, err := c.repo.History(ctx)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	for _, h := range history {
		changed := false
		for i := range h.Players {
			if h.Players[i].Name == oldName {
				h.Players[i].Name = newName
				changed = true
			}
		}
		if !changed {
			continue
		}
		if err := c.repo.UpdateInHistory(ctx, h); err != nil {
			return fmt.Errorf("update session %s: %w", h.ID, err)
		}
	}
	return nil
}

// Settings returns the persisted configuration.
func (c *Controller) Settings(ctx context.Context) (game.Settings, error) {
	cfg, err := c.repo.Settings(ctx)
	if err != nil {
		return game.Settings{}, engine.NewPersistenceError("read settings", err)
	}
	return cfg, nil
}

// UpdateSettings validates and persists the configuration.
func (c *Controller) UpdateSettings(ctx context.Context, cfg game.Settings) error {
	if cfg.SnapshotChance < 0 || cfg.SnapshotChance > 1 {
		return engine.NewValidationError("snapshot chance must be within [0,1], got %g", cfg.SnapshotChance)
	}
	for ball := range cfg.BallValues {
		if ball < game.MinBall || ball > game.MaxBall {
			return engine.NewValidationError("ball value entry %d out of range [%d,%d]", ball, game.MinBall, game.MaxBall)
		}
	}
	if err := c.repo.SaveSettings(ctx, cfg); err != nil {
		return engine.NewPersistenceError("save settings", err)
	}
	return nil
}

// transition runs one engine transition against the live session and
// persists the result. The computed state is returned even when the save
// fails: the session stays usable in memory and the caller learns the
// write did not land.
func (c *Controller) transition(
	ctx context.Context,
	name string,
	fn func(st game.State, cfg game.Settings, now time.Time) (game.State, error),
) (game.State, error) {
	st, ok, err := c.repo.CurrentSession(ctx)
	if err != nil {
		return game.State{}, engine.NewPersistenceError("read current session", err)
	}
	if !ok {
		return game.State{}, engine.NewRuleError("", "no active session")
	}

	cfg, err := c.repo.Settings(ctx)
	if err != nil {
		return st, engine.NewPersistenceError("read settings", err)
	}

	next, err := fn(st, cfg, c.clock())
	if err != nil {
		return st, err
	}

	if err := c.repo.SaveSession(ctx, next); err != nil {
		return next, engine.NewPersistenceError("save session", err)
	}

	c.analytics.Track(name, map[string]any{"session_id": next.ID})
	return next, nil
}

// archiveInFlight preserves any in-flight progress before the live slot is
// overwritten. A session without progress is simply cleared; one with
// progress is archived unfinalized first. Archive failure aborts so the
// caller never overwrites unsaved progress.
func (c *Controller) archiveInFlight(ctx context.Context) error {
	st, ok, err := c.repo.CurrentSession(ctx)
	if err != nil {
		return engine.NewPersistenceError("read current session", err)
	}
	if !ok {
		return nil
	}

	if st.HasProgress() {
		return c.Archive(ctx, false, false)
	}

	if err := c.repo.ClearSession(ctx); err != nil {
		return engine.NewPersistenceError("clear session", err)
	}
	return nil
}

// maybeSnapshot takes the configuration-gated safety-net snapshot after an
// archive. Best effort: failures are logged, never surfaced.
func (c *Controller) maybeSnapshot(ctx context.Context) {
	cfg, err := c.repo.Settings(ctx)
	if err != nil {
		slog.Warn("snapshot gate: settings read failed", "error", err)
		return
	}
	if cfg.SnapshotChance <= 0 || c.rand() >= cfg.SnapshotChance {
		return
	}

	label := "auto-" + c.clock().UTC().Format("20060102-150405")
	if err := c.repo.CreateSnapshot(ctx, label); err != nil {
		slog.Warn("safety-net snapshot failed", "label", label, "error", err)
		return
	}
	slog.Info("safety-net snapshot created", "label", label)
}
