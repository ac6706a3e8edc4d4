package engine

import (
	"errors"
	"testing"
)

func bid(level uint8, strain Strain) Call {
	return Call{Type: CallBid, Bid: Bid{Level: level, Strain: strain}}
}

// runAuction applies calls starting from the state's current turn seat,
// failing the test on any rejection.
func runAuction(t *testing.T, g GameState, calls ...Call) GameState {
	t.Helper()
	for i, c := range calls {
		var err error
		g, err = ApplyCall(g, g.Turn, c)
		if err != nil {
			t.Fatalf("call %d (%v): %v", i, c, err)
		}
	}
	return g
}

func TestAuctionOutOfTurn(t *testing.T) {
	g := DealBoard(1, 11, DefaultTableRules()) // dealer North
	_, err := ApplyCall(g, East, Pass)
	if !errors.Is(err, ErrOutOfTurn) {
		t.Errorf("err = %v, want ErrOutOfTurn", err)
	}
	if !IsProtocolError(err) {
		t.Errorf("out-of-turn should classify as a protocol error")
	}
}

func TestAuctionBidTooLow(t *testing.T) {
	g := DealBoard(1, 11, DefaultTableRules())
	g = runAuction(t, g, bid(2, StrainSpades))

	// Equal bid and lower bid both rejected.
	for _, c := range []Call{bid(2, StrainSpades), bid(2, StrainHearts), bid(1, StrainNoTrump)} {
		if _, err := ApplyCall(g, g.Turn, c); !errors.Is(err, ErrBidTooLow) {
			t.Errorf("%v after 2S: err = %v, want ErrBidTooLow", c, err)
		}
	}

	// Same level, higher strain is fine.
	if _, err := ApplyCall(g, g.Turn, bid(2, StrainNoTrump)); err != nil {
		t.Errorf("2NT after 2S rejected: %v", err)
	}
}

func TestAuctionPassedOut(t *testing.T) {
	g := DealBoard(1, 11, DefaultTableRules())
	g = runAuction(t, g, Pass, Pass, Pass, Pass)

	if !g.PassedOut {
		t.Errorf("four passes should pass the board out")
	}
	if g.Phase != PhaseCompleted {
		t.Errorf("Phase = %v, want completed", g.Phase)
	}

	_, res, err := FinalizeScore(g)
	if err != nil {
		t.Fatalf("FinalizeScore on passed-out board: %v", err)
	}
	if !res.PassedOut || res.NS != 0 || res.EW != 0 {
		t.Errorf("passed-out result = %+v, want zero score", res)
	}
}

func TestAuctionThreePassesDoNotEndWithoutFourCalls(t *testing.T) {
	g := DealBoard(1, 11, DefaultTableRules())
	g = runAuction(t, g, Pass, Pass, Pass)
	if g.Phase != PhaseBidding {
		t.Fatalf("auction ended after only three calls")
	}
	// Fourth seat may still open.
	g = runAuction(t, g, bid(1, StrainClubs))
	if g.Phase != PhaseBidding {
		t.Errorf("auction should continue after a fourth-seat opening")
	}
}

// TestDeclarerFirstToNameStrain: N 1H, E pass, S 2H, W pass, pass,
// pass. The contract is 2H by North-South, and North — not the final
// bidder South — declares, having named hearts first.
func TestDeclarerFirstToNameStrain(t *testing.T) {
	g := DealBoard(1, 11, DefaultTableRules()) // dealer North
	g = runAuction(t, g,
		bid(1, StrainHearts), // N
		Pass,                 // E
		bid(2, StrainHearts), // S
		Pass, Pass, Pass,     // W, N, E
	)

	if g.Phase != PhasePlaying {
		t.Fatalf("Phase = %v, want playing", g.Phase)
	}
	c := g.Contract
	if c.Level != 2 || c.Strain != StrainHearts {
		t.Errorf("contract = %d%v, want 2H", c.Level, c.Strain)
	}
	if c.Declarer != North {
		t.Errorf("declarer = %v, want N (first of the partnership to name hearts)", c.Declarer)
	}
	if c.Dummy != South {
		t.Errorf("dummy = %v, want S", c.Dummy)
	}
	if g.Turn != East {
		t.Errorf("opening leader = %v, want E (left of declarer)", g.Turn)
	}
}

func TestDeclarerOpponentStrainDoesNotCount(t *testing.T) {
	g := DealBoard(2, 11, DefaultTableRules()) // dealer East
	g = runAuction(t, g,
		bid(1, StrainSpades), // E names spades first...
		bid(2, StrainSpades), // ...but S outbids in the same strain
		Pass, Pass, Pass,     // W, N, E
	)
	if g.Contract.Declarer != South {
		t.Errorf("declarer = %v, want S: East's 1S is the opponents' call", g.Contract.Declarer)
	}
}

func TestDoubleRules(t *testing.T) {
	g := DealBoard(1, 11, DefaultTableRules()) // dealer North
	dbl := Call{Type: CallDouble}

	// Nothing to double yet.
	if _, err := ApplyCall(g, North, dbl); !errors.Is(err, ErrNothingToDouble) {
		t.Errorf("err = %v, want ErrNothingToDouble", err)
	}

	g = runAuction(t, g, bid(1, StrainNoTrump), Pass) // N 1NT, E pass

	// South may not double partner's bid.
	if _, err := ApplyCall(g, South, dbl); !errors.Is(err, ErrCannotDoubleOwnSide) {
		t.Errorf("err = %v, want ErrCannotDoubleOwnSide", err)
	}

	g = runAuction(t, g, Pass, dbl) // S pass, W doubles
	if !g.Doubled {
		t.Fatalf("state not marked doubled after W's double")
	}

	// North cannot double a doubled bid.
	if _, err := ApplyCall(g, North, dbl); !errors.Is(err, ErrAlreadyDoubled) {
		t.Errorf("err = %v, want ErrAlreadyDoubled", err)
	}
}

func TestRedoubleRules(t *testing.T) {
	g := DealBoard(1, 11, DefaultTableRules())
	dbl := Call{Type: CallDouble}
	rdbl := Call{Type: CallRedouble}

	g = runAuction(t, g, bid(1, StrainNoTrump)) // N 1NT

	// Nothing doubled yet.
	if _, err := ApplyCall(g, East, rdbl); !errors.Is(err, ErrNothingDoubled) {
		t.Errorf("err = %v, want ErrNothingDoubled", err)
	}

	g = runAuction(t, g, dbl) // E doubles

	// South (bidding side) may redouble; West (doubling side) may not.
	if _, err := ApplyCall(g, South, rdbl); err != nil {
		t.Errorf("redouble by bidding side rejected: %v", err)
	}
	g2 := runAuction(t, g, Pass) // S passes instead
	if _, err := ApplyCall(g2, West, rdbl); !errors.Is(err, ErrCannotRedoubleOpponent) {
		t.Errorf("err = %v, want ErrCannotRedoubleOpponent", err)
	}
}

func TestNewBidResetsDoubling(t *testing.T) {
	g := DealBoard(1, 11, DefaultTableRules())
	g = runAuction(t, g,
		bid(1, StrainHearts),      // N
		Call{Type: CallDouble},    // E
		Call{Type: CallRedouble},  // S
		bid(1, StrainSpades),      // W — supersedes the redouble
		Pass, Pass, Pass,          // N, E, S
	)
	c := g.Contract
	if c.Doubled || c.Redoubled {
		t.Errorf("contract %+v should carry no doubling after the 1S bid", c)
	}
	if c.Declarer != West {
		t.Errorf("declarer = %v, want W", c.Declarer)
	}
}

func TestContractCarriesDoubling(t *testing.T) {
	g := DealBoard(1, 11, DefaultTableRules())
	g = runAuction(t, g,
		bid(4, StrainSpades),   // N
		Call{Type: CallDouble}, // E
		Pass, Pass, Pass,       // S, W, N
	)
	if !g.Contract.Doubled || g.Contract.Redoubled {
		t.Errorf("contract = %+v, want doubled and not redoubled", g.Contract)
	}
}

// TestAuctionTermination drives a long but legal auction through every
// bid in order and verifies it still settles.
func TestAuctionTermination(t *testing.T) {
	g := DealBoard(1, 11, DefaultTableRules())
	for _, b := range allBids() {
		g = runAuction(t, g, Call{Type: CallBid, Bid: b})
	}
	g = runAuction(t, g, Pass, Pass, Pass)
	if g.Phase != PhasePlaying {
		t.Fatalf("Phase = %v after exhaustive auction, want playing", g.Phase)
	}
	if g.Contract.Level != 7 || g.Contract.Strain != StrainNoTrump {
		t.Errorf("contract = %+v, want 7NT", g.Contract)
	}

	// Terminal for the auction engine: further calls are rejected.
	if _, err := ApplyCall(g, g.Turn, Pass); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("call after settled auction: err = %v, want ErrWrongPhase", err)
	}
}

func TestAuctionRejectsMalformedCalls(t *testing.T) {
	g := DealBoard(1, 11, DefaultTableRules())
	if _, err := ApplyCall(g, North, bid(8, StrainClubs)); !errors.Is(err, ErrInvalidBid) {
		t.Errorf("level 8: err = %v, want ErrInvalidBid", err)
	}
	if _, err := ApplyCall(g, North, Call{Type: CallType(9)}); !errors.Is(err, ErrInvalidCall) {
		t.Errorf("bad call type: err = %v, want ErrInvalidCall", err)
	}
	if !IsFaultError(ErrInvalidBid) {
		t.Errorf("ErrInvalidBid should classify as a fault")
	}
}
