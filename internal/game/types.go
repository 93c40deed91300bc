package game

import "time"

// Roster and history bounds. A session never starts outside these limits,
// and per-player caches are trimmed at write time.
const (
	MinPlayers       = 2
	MaxPlayers       = 20
	MinActivePlayers = 2

	ScoreHistoryCap = 10
	EventHistoryCap = 50

	// Balls carry numbers 1..15; the set of balls still on the table is the
	// capacity model for elimination math.
	MinBall = 1
	MaxBall = 15
)

// EventType categorizes entries in the global session log.
type EventType string

const (
	EventScore        EventType = "score"
	EventUndo         EventType = "undo"
	EventStatusChange EventType = "status_change"
)

// PlayerEvent is the compact per-player history entry kept alongside the
// global log. Bounded at EventHistoryCap, most recent first.
type PlayerEvent struct {
	Points int `json:"points"`
}

// Player is a participant in a session. Players are never deleted while the
// session exists; IsActive=false removes a player from the rotation without
// destroying their history.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	IsActive bool   `json:"isActive"`

	// ScoreHistory holds previous score values, most recent first,
	// capped at ScoreHistoryCap.
	ScoreHistory []int `json:"scoreHistory,omitempty"`

	// EventHistory holds recent scoring deltas, most recent first,
	// capped at EventHistoryCap.
	EventHistory []PlayerEvent `json:"eventHistory,omitempty"`
}

// Event is an entry in the append-only global session log. Entries are never
// mutated or removed; an undo appends a compensating entry instead.
//
// PlayerName is denormalized so historical display survives renames.
// PreviousPlayerID records whose turn it was when the event was applied,
// which is what lets an undo rewind turn order.
type Event struct {
	Seq              int64     `json:"seq"`
	Type             EventType `json:"type"`
	PlayerID         string    `json:"playerId"`
	PlayerName       string    `json:"playerName"`
	Points           int       `json:"points"`
	PreviousPlayerID string    `json:"previousPlayerId,omitempty"`
	PreviousScore    *int      `json:"previousScore,omitempty"`
	NewScore         *int      `json:"newScore,omitempty"`
	Message          string    `json:"message,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// State is a full session snapshot. All transitions are pure: they clone the
// snapshot and return a new one, so a caller always holds an immutable value.
type State struct {
	ID              string     `json:"id"`
	Players         []Player   `json:"players"`
	CurrentPlayerID string     `json:"currentPlayerId,omitempty"`
	BallsOnTable    []int      `json:"ballsOnTable,omitempty"`
	Events          []Event    `json:"events,omitempty"`
	IsGameActive    bool       `json:"isGameActive"`
	IsFinalized     bool       `json:"isFinalized"`
	IsArchived      bool       `json:"isArchived"`
	CanUndo         bool       `json:"canUndo"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	LastUpdate      time.Time  `json:"lastUpdate"`
	DeviceInfo      string     `json:"deviceInfo,omitempty"`
}

// Settings is the session configuration consulted by the engine and the
// controller. Persisted as a single row by the store.
type Settings struct {
	AutoNextTurn         bool `json:"autoNextTurn" yaml:"autoNextTurn"`
	StrictTurnMode       bool `json:"strictTurnMode" yaml:"strictTurnMode"`
	EliminationEnabled   bool `json:"eliminationEnabled" yaml:"eliminationEnabled"`
	AllowEliminatedInput bool `json:"allowEliminatedInput" yaml:"allowEliminatedInput"`
	GuestMode            bool `json:"guestMode" yaml:"guestMode"`

	// SnapshotChance gates the probabilistic safety-net snapshot taken on
	// archive. 0 disables it, 1 snapshots on every archive.
	SnapshotChance float64 `json:"snapshotChance" yaml:"snapshotChance"`

	// BallValues maps ball number to point value for capacity math.
	// A ball missing from the map is worth DefaultBallValue.
	BallValues map[int]int `json:"ballValues,omitempty" yaml:"ballValues,omitempty"`
}

// DefaultBallValue is the capacity contribution of a ball with no explicit
// entry in Settings.BallValues.
const DefaultBallValue = 1

// DefaultSettings returns the configuration a fresh install runs with.
func DefaultSettings() Settings {
	return Settings{
		AutoNextTurn:         true,
		StrictTurnMode:       false,
		EliminationEnabled:   false,
		AllowEliminatedInput: true,
		GuestMode:            false,
		SnapshotChance:       0,
	}
}

// FindPlayer returns the index of the player with the given id, or -1.
func (s *State) FindPlayer(id string) int {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// ActivePlayers returns the players currently in the rotation, in turn order.
func (s *State) ActivePlayers() []Player {
	var active []Player
	for _, p := range s.Players {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active
}

// ActiveCount returns the number of players currently in the rotation.
func (s *State) ActiveCount() int {
	n := 0
	for i := range s.Players {
		if s.Players[i].IsActive {
			n++
		}
	}
	return n
}

// HasProgress reports whether the session has anything worth preserving:
// any non-zero score or any logged event.
func (s *State) HasProgress() bool {
	if len(s.Events) > 0 {
		return true
	}
	for i := range s.Players {
		if s.Players[i].Score != 0 {
			return true
		}
	}
	return false
}

// NextSeq returns the sequence number for the next log entry.
func (s *State) NextSeq() int64 {
	if len(s.Events) == 0 {
		return 1
	}
	return s.Events[len(s.Events)-1].Seq + 1
}

// Clone returns a deep copy of the state. Transitions operate on clones so
// the snapshot handed to a caller is never mutated underneath them.
func (s State) Clone() State {
	out := s

	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		cp := p
		cp.ScoreHistory = append([]int(nil), p.ScoreHistory...)
		cp.EventHistory = append([]PlayerEvent(nil), p.EventHistory...)
		out.Players[i] = cp
	}

	out.BallsOnTable = append([]int(nil), s.BallsOnTable...)
	out.Events = append([]Event(nil), s.Events...)

	if s.EndTime != nil {
		t := *s.EndTime
		out.EndTime = &t
	}

	return out
}
