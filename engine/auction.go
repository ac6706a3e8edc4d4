package engine

import "fmt"

// ApplyCall validates one auction action and returns the resulting
// state. The input state is never modified; on error it is returned
// unchanged alongside the error.
//
// The auction ends once at least four calls have been made and the last
// three are passes. With no bid the board is passed out and completed;
// otherwise the highest bid stands, the contract is settled and the
// state advances to the play phase with the opening leader to act.
func ApplyCall(state GameState, seat Seat, call Call) (GameState, error) {
	if state.Phase != PhaseBidding {
		return state, fmt.Errorf("%w: cannot call during phase %d", ErrWrongPhase, state.Phase)
	}
	if seat != state.Turn {
		return state, fmt.Errorf("%w: seat %v called on %v's turn", ErrOutOfTurn, seat, state.Turn)
	}

	g := state
	if err := g.applyCall(seat, call); err != nil {
		return state, err
	}
	return g, nil
}

func (g *GameState) applyCall(seat Seat, call Call) error {
	switch call.Type {
	case CallPass:
		// Always legal.

	case CallBid:
		if !call.Bid.Valid() {
			return fmt.Errorf("%w: level %d strain %d", ErrInvalidBid, call.Bid.Level, call.Bid.Strain)
		}
		if g.HasBid && !call.Bid.Beats(g.HighBid) {
			return fmt.Errorf("%w: %v does not beat %v", ErrBidTooLow, call.Bid, g.HighBid)
		}
		g.HighBid = call.Bid
		g.HighBidder = seat
		g.HasBid = true
		// A new bid supersedes any prior double.
		g.Doubled = false
		g.Redoubled = false

	case CallDouble:
		if !g.HasBid {
			return fmt.Errorf("%w: no bid to double", ErrNothingToDouble)
		}
		if g.Doubled || g.Redoubled {
			return fmt.Errorf("%w: %v is already doubled", ErrAlreadyDoubled, g.HighBid)
		}
		if g.HighBidder.Side() == seat.Side() {
			return fmt.Errorf("%w: %v bid by own side", ErrCannotDoubleOwnSide, g.HighBid)
		}
		g.Doubled = true

	case CallRedouble:
		if !g.Doubled || g.Redoubled {
			return fmt.Errorf("%w: %v is not doubled", ErrNothingDoubled, g.HighBid)
		}
		// Only the side whose bid was doubled may redouble.
		if g.HighBidder.Side() != seat.Side() {
			return fmt.Errorf("%w", ErrCannotRedoubleOpponent)
		}
		g.Redoubled = true

	default:
		return fmt.Errorf("%w: unknown call type %d", ErrInvalidCall, call.Type)
	}

	g.Auction[g.AuctionLen] = CallRecord{Seat: seat, Call: call}
	g.AuctionLen++
	g.Turn = g.Turn.Next()

	if g.auctionComplete() {
		g.settleAuction()
	}
	return nil
}

// auctionComplete reports whether the auction has ended: at least four
// calls, the last three of them passes.
func (g *GameState) auctionComplete() bool {
	if g.AuctionLen < 4 {
		return false
	}
	for i := g.AuctionLen - 3; i < g.AuctionLen; i++ {
		if g.Auction[i].Call.Type != CallPass {
			return false
		}
	}
	return true
}

// settleAuction fixes the contract (or passes the board out) and
// transitions to the next phase.
func (g *GameState) settleAuction() {
	if !g.HasBid {
		g.PassedOut = true
		g.Phase = PhaseCompleted
		return
	}

	declarer := g.declarerFor(g.HighBidder.Side(), g.HighBid.Strain)
	g.Contract = Contract{
		Level:     g.HighBid.Level,
		Strain:    g.HighBid.Strain,
		Declarer:  declarer,
		Dummy:     declarer.Partner(),
		Doubled:   g.Doubled && !g.Redoubled,
		Redoubled: g.Redoubled,
	}
	g.HasContract = true
	g.Phase = PhasePlaying
	g.Turn = g.Contract.Declarer.Next()
}

// declarerFor scans the auction from the start for the first member of
// the winning partnership to name the contract strain. That seat — not
// necessarily the final bidder — becomes declarer.
func (g *GameState) declarerFor(winning Side, strain Strain) Seat {
	for i := uint16(0); i < g.AuctionLen; i++ {
		rec := g.Auction[i]
		if rec.Call.Type == CallBid && rec.Call.Bid.Strain == strain && rec.Seat.Side() == winning {
			return rec.Seat
		}
	}
	// Unreachable for a settled auction: the final bid itself matches.
	return g.HighBidder
}
