// Package store provides SQLite-backed durable storage for rackscore
// sessions, history, settings, and snapshots.
//
// The store owns four tables:
//   - current_session: the single live-session slot (at most one row)
//   - history: archived sessions, idempotent by session id
//   - settings: the single configuration row
//   - snapshots: labeled full backups (current + history + settings)
//
// Serialization is plain JSON of the game value types; the persisted
// representation is an implementation detail of this package.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// The store serves a single authoritative current value at a time; the
// engine computes each transition from a single read and writes the result
// back, so there is no in-store merge logic.
package store
