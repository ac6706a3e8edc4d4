// Package models holds the service-side domain types shared by the
// table, persistence and transport layers.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/akhtarshadab/bridge/engine"
)

// Player is one seated participant at a table.
type Player struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"username"`
	Seat      engine.Seat `json:"seat"`
	Connected bool        `json:"connected"`
}

// BoardResult is the persisted outcome of one completed board.
type BoardResult struct {
	TableID     uuid.UUID `json:"tableId"`
	BoardNumber uint16    `json:"boardNumber"`
	PassedOut   bool      `json:"passedOut"`
	Contract    string    `json:"contract"` // e.g. "4HX", "" when passed out
	Declarer    string    `json:"declarer"` // seat letter, "" when passed out
	TricksWon   uint8     `json:"tricksWon"`
	ScoreNS     int       `json:"scoreNS"`
	ScoreEW     int       `json:"scoreEW"`
	CompletedAt time.Time `json:"completedAt"`
}

// ActionRecord is one move-history row: a call or play in its compact
// textual form, in the order it was accepted.
type ActionRecord struct {
	TableID     uuid.UUID `json:"tableId"`
	BoardNumber uint16    `json:"boardNumber"`
	Index       int       `json:"index"`
	Seat        string    `json:"seat"`
	Kind        string    `json:"kind"` // "call" or "play"
	Value       string    `json:"value"`
	At          time.Time `json:"at"`
}
