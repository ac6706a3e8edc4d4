// Package game orchestrates one bridge table: it owns the authoritative
// engine state, maps players to seats, serializes actions, runs the
// turn clock and emits events for the transport layer to broadcast.
//
// The engine itself is pure; this package is the "surrounding service"
// that guarantees at most one in-flight mutation per board (via the
// table mutex) and translates expired turn timers into synthetic
// actions submitted through the same validated entry points.
package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/akhtarshadab/bridge/engine"
	"github.com/akhtarshadab/bridge/internal/models"
)

// OnBoardEndFunc is executed when a board completes, with the final
// result ready for persistence.
type OnBoardEndFunc func(result models.BoardResult)

// Table represents one four-seat bridge table playing a sequence of
// boards.
type Table struct {
	ID    uuid.UUID
	Rules engine.TableRules

	// Engine integration — authoritative board state.
	Engine engine.GameState

	Players      [engine.NumSeats]*models.Player // indexed by seat
	playerToSeat map[uuid.UUID]engine.Seat

	// Turn management.
	TurnDuration time.Duration // 0 disables the turn clock
	turnTimer    *time.Timer
	actionIndex  int

	boardActive bool

	mu  sync.Mutex
	log *logrus.Entry

	// Communication callbacks.
	BroadcastFn     func(ev Event)                        // all seats
	BroadcastSeatFn func(seat engine.Seat, ev Event)      // one seat
	OnBoardEnd      OnBoardEndFunc                        // persistence hook
	OnAction        func(rec models.ActionRecord)         // move-history hook
}

// NewTable creates an empty table with default rules.
func NewTable(logger *logrus.Logger) *Table {
	id, _ := uuid.NewRandom()
	if logger == nil {
		logger = logrus.New()
	}
	return &Table{
		ID:           id,
		Rules:        engine.DefaultTableRules(),
		playerToSeat: make(map[uuid.UUID]engine.Seat),
		TurnDuration: 30 * time.Second,
		log:          logger.WithField("table", id),
	}
}

// SeatPlayer assigns a player to a seat. Fails if the seat is occupied
// or the player is already seated elsewhere.
func (t *Table) SeatPlayer(p *models.Player, seat engine.Seat) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if seat >= engine.NumSeats {
		return fmt.Errorf("invalid seat %d", seat)
	}
	if t.Players[seat] != nil {
		return fmt.Errorf("seat %v is occupied", seat)
	}
	if _, seated := t.playerToSeat[p.ID]; seated {
		return fmt.Errorf("player %s is already seated", p.ID)
	}

	p.Seat = seat
	t.Players[seat] = p
	t.playerToSeat[p.ID] = seat
	t.log.WithFields(logrus.Fields{"player": p.ID, "seat": seat.String()}).Info("player seated")
	return nil
}

// SeatOf returns the seat of the given player.
func (t *Table) SeatOf(playerID uuid.UUID) (engine.Seat, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	seat, ok := t.playerToSeat[playerID]
	return seat, ok
}

// Full reports whether all four seats are taken.
func (t *Table) Full() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.Players {
		if p == nil {
			return false
		}
	}
	return true
}

// StartBoard deals the given board number and opens the auction.
func (t *Table) StartBoard(board uint16) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.boardActive {
		return fmt.Errorf("board %d still in progress", t.Engine.BoardNumber)
	}
	for seat := engine.Seat(0); seat < engine.NumSeats; seat++ {
		if t.Players[seat] == nil {
			return fmt.Errorf("seat %v is empty", seat)
		}
	}

	seed := uint64(time.Now().UnixNano())
	t.Engine = engine.DealBoard(board, seed, t.Rules)
	t.boardActive = true
	t.actionIndex = 0

	t.log.WithFields(logrus.Fields{
		"board":  board,
		"dealer": t.Engine.Dealer.String(),
	}).Info("board dealt")

	t.fire(Event{
		Type:  EventBoardDeal,
		Table: t.ID,
		Payload: map[string]interface{}{
			"board":        board,
			"dealer":       t.Engine.Dealer.String(),
			"vulnerableNS": t.Engine.Vulnerability.NS,
			"vulnerableEW": t.Engine.Vulnerability.EW,
		},
	})
	for seat := engine.Seat(0); seat < engine.NumSeats; seat++ {
		t.fireToSeat(seat, Event{
			Type:    EventPrivateHand,
			Table:   t.ID,
			Seat:    seat.String(),
			Payload: map[string]interface{}{"cards": handText(t.Engine.Hands[seat])},
		})
	}

	t.scheduleTurnTimer()
	t.broadcastTurn()
	return nil
}

// HandleCall validates and applies an auction call from a player.
func (t *Table) HandleCall(playerID uuid.UUID, call engine.Call) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	seat, ok := t.playerToSeat[playerID]
	if !ok {
		return fmt.Errorf("player %s is not seated at this table", playerID)
	}
	return t.applyCall(seat, call)
}

// HandlePlay validates and applies a card play from a player.
func (t *Table) HandlePlay(playerID uuid.UUID, card engine.Card) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	seat, ok := t.playerToSeat[playerID]
	if !ok {
		return fmt.Errorf("player %s is not seated at this table", playerID)
	}
	return t.applyPlay(seat, card)
}

// applyCall applies one call through the engine. Assumes lock is held.
func (t *Table) applyCall(seat engine.Seat, call engine.Call) error {
	next, err := engine.ApplyCall(t.Engine, seat, call)
	if err != nil {
		t.log.WithFields(logrus.Fields{
			"seat": seat.String(), "call": call.String(),
		}).WithError(err).Debug("call rejected")
		return err
	}
	t.Engine = next
	t.recordAction(seat, "call", call.String())

	t.fire(Event{Type: EventCallMade, Table: t.ID, Seat: seat.String(), Call: call.String()})

	switch t.Engine.Phase {
	case engine.PhaseCompleted:
		// Passed out.
		t.fire(Event{Type: EventBoardPassedOut, Table: t.ID})
		t.finishBoard()
	case engine.PhasePlaying:
		c := t.Engine.Contract
		t.fire(Event{
			Type:  EventContractSet,
			Table: t.ID,
			Seat:  c.Declarer.String(),
			Payload: map[string]interface{}{
				"contract": contractText(c),
				"declarer": c.Declarer.String(),
				"dummy":    c.Dummy.String(),
				"leader":   t.Engine.Turn.String(),
			},
		})
		t.scheduleTurnTimer()
		t.broadcastTurn()
	default:
		t.scheduleTurnTimer()
		t.broadcastTurn()
	}
	return nil
}

// applyPlay applies one card play through the engine. Assumes lock is
// held.
func (t *Table) applyPlay(seat engine.Seat, card engine.Card) error {
	preTricks := t.Engine.TrickCount
	firstCard := !t.Engine.OpeningLeadMade()

	next, err := engine.ApplyPlay(t.Engine, seat, card)
	if err != nil {
		t.log.WithFields(logrus.Fields{
			"seat": seat.String(), "card": card.String(),
		}).WithError(err).Debug("play rejected")
		return err
	}
	t.Engine = next
	t.recordAction(seat, "play", card.String())

	t.fire(Event{Type: EventCardPlayed, Table: t.ID, Seat: seat.String(), Card: card.String()})

	if firstCard {
		// Opening lead made: dummy's hand becomes public.
		dummy := t.Engine.Contract.Dummy
		t.fire(Event{
			Type:    EventDummyRevealed,
			Table:   t.ID,
			Seat:    dummy.String(),
			Payload: map[string]interface{}{"cards": handText(t.Engine.Hands[dummy])},
		})
	}

	if t.Engine.TrickCount > preTricks {
		won := t.Engine.CompletedTricks[t.Engine.TrickCount-1]
		t.fire(Event{
			Type:  EventTrickWon,
			Table: t.ID,
			Seat:  won.Winner.String(),
			Payload: map[string]interface{}{
				"trickNumber": t.Engine.TrickCount,
				"tricksNS":    t.Engine.TricksWonBy(engine.SideNS),
				"tricksEW":    t.Engine.TricksWonBy(engine.SideEW),
			},
		})
	}

	if t.Engine.Phase == engine.PhaseScoring {
		t.finishBoard()
		return nil
	}

	t.scheduleTurnTimer()
	t.broadcastTurn()
	return nil
}

// finishBoard scores the board, notifies the persistence hook and
// broadcasts the result. Assumes lock is held.
func (t *Table) finishBoard() {
	t.stopTurnTimer()

	final, res, err := engine.FinalizeScore(t.Engine)
	if err != nil {
		// Unreachable from the state machine; flag the board.
		t.log.WithError(err).Error("board cannot be scored, halting table")
		return
	}
	t.Engine = final
	t.boardActive = false

	result := models.BoardResult{
		TableID:     t.ID,
		BoardNumber: t.Engine.BoardNumber,
		PassedOut:   res.PassedOut,
		TricksWon:   res.TricksWon,
		ScoreNS:     res.NS,
		ScoreEW:     res.EW,
		CompletedAt: time.Now().UTC(),
	}
	if !res.PassedOut {
		result.Contract = contractText(res.Contract)
		result.Declarer = res.Contract.Declarer.String()
	}

	t.log.WithFields(logrus.Fields{
		"board": result.BoardNumber, "ns": result.ScoreNS, "ew": result.ScoreEW,
	}).Info("board completed")

	t.fire(Event{
		Type:  EventBoardScored,
		Table: t.ID,
		Payload: map[string]interface{}{
			"result":    result,
			"breakdown": res.Breakdown,
		},
	})

	if t.OnBoardEnd != nil {
		t.OnBoardEnd(result)
	}
}

// NextBoardNumber returns the board number that follows the one most
// recently dealt, rotating dealer and vulnerability per the cycle.
func (t *Table) NextBoardNumber() uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Engine.BoardNumber + 1
}

// SyncSeat sends a full state snapshot to one seat.
func (t *Table) SyncSeat(seat engine.Seat) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := t.ViewForSeat(seat)
	t.fireToSeat(seat, Event{Type: EventSyncState, Table: t.ID, Seat: seat.String(), View: &v})
}

// ---------------------------------------------------------------------------
// Turn clock
// ---------------------------------------------------------------------------

// scheduleTurnTimer arms the turn clock for the seat on turn. Assumes
// lock is held.
func (t *Table) scheduleTurnTimer() {
	t.stopTurnTimer()
	if t.TurnDuration <= 0 {
		return
	}
	turnSeat := t.Engine.Turn
	turnIndex := t.actionIndex
	t.turnTimer = time.AfterFunc(t.TurnDuration, func() {
		t.handleTurnTimeout(turnSeat, turnIndex)
	})
}

func (t *Table) stopTurnTimer() {
	if t.turnTimer != nil {
		t.turnTimer.Stop()
		t.turnTimer = nil
	}
}

// handleTurnTimeout injects a synthetic action for a seat whose clock
// expired: a pass during the auction, the lowest legal card during
// play. Synthetic actions go through the same validated entry points as
// human ones.
func (t *Table) handleTurnTimeout(seat engine.Seat, turnIndex int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// The action landed while the timer was firing; nothing to do.
	if t.actionIndex != turnIndex || t.Engine.Turn != seat {
		return
	}

	t.log.WithField("seat", seat.String()).Info("turn clock expired, forcing action")

	switch t.Engine.Phase {
	case engine.PhaseBidding:
		if err := t.applyCall(seat, engine.Pass); err != nil {
			t.log.WithError(err).Error("forced pass rejected")
		}
	case engine.PhasePlaying:
		legal := engine.LegalPlays(t.Engine, seat)
		if len(legal) == 0 {
			t.log.Error("no legal play for forced action")
			return
		}
		if err := t.applyPlay(seat, lowestCard(legal)); err != nil {
			t.log.WithError(err).Error("forced play rejected")
		}
	}
}

// lowestCard picks the lowest-ranked card, breaking rank ties by suit.
func lowestCard(cards []engine.Card) engine.Card {
	low := cards[0]
	for _, c := range cards[1:] {
		if c.Rank() < low.Rank() || (c.Rank() == low.Rank() && c.Suit() < low.Suit()) {
			low = c
		}
	}
	return low
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

func (t *Table) fire(ev Event) {
	if t.BroadcastFn != nil {
		t.BroadcastFn(ev)
	}
}

func (t *Table) fireToSeat(seat engine.Seat, ev Event) {
	if t.BroadcastSeatFn != nil {
		t.BroadcastSeatFn(seat, ev)
	}
}

func (t *Table) broadcastTurn() {
	t.fire(Event{Type: EventPlayerTurn, Table: t.ID, Seat: t.Engine.Turn.String()})
}

func (t *Table) recordAction(seat engine.Seat, kind, value string) {
	t.actionIndex++
	if t.OnAction != nil {
		t.OnAction(models.ActionRecord{
			TableID:     t.ID,
			BoardNumber: t.Engine.BoardNumber,
			Index:       t.actionIndex,
			Seat:        seat.String(),
			Kind:        kind,
			Value:       value,
			At:          time.Now().UTC(),
		})
	}
}

// handText renders a hand in sorted display order.
func handText(h engine.Hand) []string {
	sorted := engine.SortHand(h)
	out := make([]string, 0, sorted.Len)
	for _, c := range sorted.Slice() {
		out = append(out, c.String())
	}
	return out
}
