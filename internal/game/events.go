package game

import "github.com/google/uuid"

// EventType represents the type of a table event broadcast to clients.
type EventType string

// Constants defining the event types used for client communication.
const (
	EventBoardDeal      EventType = "board_deal"       // Public: new board started (number, dealer, vulnerability).
	EventPrivateHand    EventType = "private_hand"     // Private: a seat's own dealt hand.
	EventCallMade       EventType = "call_made"        // Public: an auction call was accepted.
	EventContractSet    EventType = "contract_set"     // Public: auction settled, contract and declarer fixed.
	EventBoardPassedOut EventType = "board_passed_out" // Public: four passes, board thrown out.
	EventCardPlayed     EventType = "card_played"      // Public: a card play was accepted.
	EventDummyRevealed  EventType = "dummy_revealed"   // Public: dummy's hand after the opening lead.
	EventTrickWon       EventType = "trick_won"        // Public: a trick completed.
	EventBoardScored    EventType = "board_scored"     // Public: final score for the board.
	EventPlayerTurn     EventType = "player_turn"      // Public: whose turn it is.
	EventSyncState      EventType = "sync_state"       // Private: full per-seat state snapshot.
)

// Event is the standard structure for broadcasting table changes.
// Seat, Call and Card use the engine's compact text forms.
type Event struct {
	Type  EventType `json:"type"`
	Table uuid.UUID `json:"table"`
	Seat  string    `json:"seat,omitempty"` // acting or affected seat
	Call  string    `json:"call,omitempty"`
	Card  string    `json:"card,omitempty"`

	Payload map[string]interface{} `json:"payload,omitempty"`

	View *SeatView `json:"view,omitempty"` // full snapshot for sync events
}
