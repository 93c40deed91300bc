package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kmorrow/rackscore/internal/game"
)

// snapshotPayload is the serialized form of a full backup.
type snapshotPayload struct {
	Current  *game.State   `json:"current,omitempty"`
	History  []game.State  `json:"history"`
	Settings game.Settings `json:"settings"`
}

// SnapshotInfo describes a stored snapshot without its payload.
type SnapshotInfo struct {
	Label     string
	CreatedAt string
}

// CreateSnapshot stores a labeled full backup of the current session,
// history, and settings. An existing snapshot with the same label is
// replaced.
func (s *Store) CreateSnapshot(ctx context.Context, label string) error {
	if label == "" {
		return fmt.Errorf("snapshot label must not be empty")
	}

	var p snapshotPayload

	cur, ok, err := s.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if ok {
		p.Current = &cur
	}

	if p.History, err = s.History(ctx); err != nil {
		return err
	}
	if p.Settings, err = s.Settings(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (label, payload, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(label) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at
	`, label, string(payload), s.timestamp())
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns snapshot labels and creation stamps, newest first.
func (s *Store) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT label, created_at FROM snapshots
		ORDER BY created_at DESC, label ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.Label, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	if infos == nil {
		infos = []SnapshotInfo{}
	}
	return infos, nil
}

// RestoreSnapshot replaces the current session, history, and settings with
// the snapshot's contents, atomically.
func (s *Store) RestoreSnapshot(ctx context.Context, label string) error {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE label = ?`, label,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("snapshot %q not found", label)
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var p snapshotPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("restore snapshot: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, stmt := range []string{
		`DELETE FROM current_session`,
		`DELETE FROM history`,
		`DELETE FROM settings`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("restore snapshot: %w", err)
		}
	}

	stamp := s.timestamp()

	if p.Current != nil {
		enc, err := json.Marshal(p.Current)
		if err != nil {
			return fmt.Errorf("encode restored session: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO current_session (slot, payload, updated_at) VALUES (1, ?, ?)`,
			string(enc), stamp,
		); err != nil {
			return fmt.Errorf("restore current session: %w", err)
		}
	}

	for _, st := range p.History {
		enc, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("encode restored history session: %w", err)
		}
		finalized := 0
		if st.IsFinalized {
			finalized = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO history (id, payload, finalized, archived_at) VALUES (?, ?, ?, ?)`,
			st.ID, string(enc), finalized, stamp,
		); err != nil {
			return fmt.Errorf("restore history session %s: %w", st.ID, err)
		}
	}

	enc, err := json.Marshal(p.Settings)
	if err != nil {
		return fmt.Errorf("encode restored settings: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO settings (slot, payload, updated_at) VALUES (1, ?, ?)`,
		string(enc), stamp,
	); err != nil {
		return fmt.Errorf("restore settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("restore snapshot: commit: %w", err)
	}
	return nil
}

// DeleteSnapshot removes a stored snapshot. Deleting a missing label is a
// no-op.
func (s *Store) DeleteSnapshot(ctx context.Context, label string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE label = ?`, label); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
