package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kmorrow/rackscore/internal/game"
)

// History returns all archived sessions, most recently archived first.
// Ordering is deterministic: archived_at DESC, then id for equal stamps.
func (s *Store) History(ctx context.Context) ([]game.State, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM history
		ORDER BY archived_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var sessions []game.State
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		var st game.State
		if err := json.Unmarshal([]byte(payload), &st); err != nil {
			return nil, fmt.Errorf("decode history row: %w", err)
		}
		sessions = append(sessions, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	if sessions == nil {
		sessions = []game.State{}
	}
	return sessions, nil
}

// HistorySession returns one archived session by id. The second return
// value reports whether it exists.
func (s *Store) HistorySession(ctx context.Context, id string) (game.State, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM history WHERE id = ?`, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return game.State{}, false, nil
	}
	if err != nil {
		return game.State{}, false, fmt.Errorf("read history session: %w", err)
	}

	var st game.State
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return game.State{}, false, fmt.Errorf("decode history session: %w", err)
	}
	return st, true, nil
}

// ArchiveSession writes a session into history, idempotent by session id:
// archiving the same id again replaces the stored copy rather than
// duplicating it.
//
// Guest mode suppresses durable history for privacy; saveOverride forces
// the write regardless.
func (s *Store) ArchiveSession(ctx context.Context, st game.State, saveOverride bool) error {
	if !saveOverride {
		cfg, err := s.Settings(ctx)
		if err != nil {
			return err
		}
		if cfg.GuestMode {
			return nil
		}
	}

	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	finalized := 0
	if st.IsFinalized {
		finalized = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO history (id, payload, finalized, archived_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, finalized = excluded.finalized
	`, st.ID, string(payload), finalized, s.timestamp())
	if err != nil {
		return fmt.Errorf("archive session: %w", err)
	}
	return nil
}

// DeleteFromHistory removes an archived session. Deleting a missing id is
// a no-op.
func (s *Store) DeleteFromHistory(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete history session: %w", err)
	}
	return nil
}

// UpdateInHistory replaces the payload of an existing archived session,
// keeping its archive stamp. Updating a missing id is a no-op.
func (s *Store) UpdateInHistory(ctx context.Context, st game.State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	finalized := 0
	if st.IsFinalized {
		finalized = 1
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE history SET payload = ?, finalized = ? WHERE id = ?
	`, string(payload), finalized, st.ID)
	if err != nil {
		return fmt.Errorf("update history session: %w", err)
	}
	return nil
}
