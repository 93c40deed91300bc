package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kmorrow/rackscore/internal/game"
)

// CurrentSession returns the live session, if any. The second return value
// reports whether the slot is occupied.
func (s *Store) CurrentSession(ctx context.Context) (game.State, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM current_session WHERE slot = 1`,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return game.State{}, false, nil
	}
	if err != nil {
		return game.State{}, false, fmt.Errorf("read current session: %w", err)
	}

	var st game.State
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return game.State{}, false, fmt.Errorf("decode current session: %w", err)
	}
	return st, true, nil
}

// SaveSession writes the live session into the single current slot,
// replacing whatever was there.
func (s *Store) SaveSession(ctx context.Context, st game.State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO current_session (slot, payload, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, string(payload), s.timestamp())
	if err != nil {
		return fmt.Errorf("write current session: %w", err)
	}
	return nil
}

// ClearSession empties the live-session slot. Clearing an already-empty
// slot is a no-op.
func (s *Store) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM current_session WHERE slot = 1`); err != nil {
		return fmt.Errorf("clear current session: %w", err)
	}
	return nil
}

// Settings returns the persisted configuration, or defaults when nothing
// has been saved yet.
func (s *Store) Settings(ctx context.Context) (game.Settings, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM settings WHERE slot = 1`,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return game.DefaultSettings(), nil
	}
	if err != nil {
		return game.Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var cfg game.Settings
	if err := json.Unmarshal([]byte(payload), &cfg); err != nil {
		return game.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return cfg, nil
}

// SaveSettings replaces the persisted configuration.
func (s *Store) SaveSettings(ctx context.Context, cfg game.Settings) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (slot, payload, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, string(payload), s.timestamp())
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
