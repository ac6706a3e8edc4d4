// Package engine implements the rules of duplicate contract bridge.
//
// The engine is pure: every transition takes a GameState value plus one
// validated action and returns a new GameState value, performing no I/O
// and holding no shared mutable state. GameState is a flat value type
// (no pointers, no slices) so a plain struct copy is a deep copy — the
// surrounding service can treat states as immutable snapshots and
// enforce its one-mutation-per-board rule with a simple compare-and-swap.
package engine

const (
	NumSeats  = 4
	HandSize  = 13
	DeckSize  = 52
	NumTricks = 13

	// MaxAuctionCalls bounds the auction history. The longest legal
	// auction is 319 calls: three passes before the first bid, then
	// bid/double/redouble each separated by two passes for all 35 bids,
	// then three closing passes.
	MaxAuctionCalls = 320
)

// GameState holds the complete, self-contained state of one board.
// Zero value is not usable; construct with DealBoard.
type GameState struct {
	BoardNumber uint16
	Dealer      Seat
	Phase       Phase
	Turn        Seat // seat that must act next (bidder or player on play)

	Hands [NumSeats]Hand

	// Auction history and the running candidate contract.
	Auction    [MaxAuctionCalls]CallRecord
	AuctionLen uint16
	HighBid    Bid
	HighBidder Seat
	HasBid     bool
	Doubled    bool
	Redoubled  bool
	PassedOut  bool

	Contract    Contract
	HasContract bool

	CurrentTrick    Trick
	CompletedTricks [NumTricks]Trick
	TrickCount      uint8
	TricksWon       [2]uint8 // indexed by Side

	Vulnerability Vulnerability
	Rules         TableRules
	RNG           uint64
}

// ---------------------------------------------------------------------------
// xorshift64 RNG — inline, no interface
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// IsComplete reports whether the board has reached its terminal phase.
func (g *GameState) IsComplete() bool { return g.Phase == PhaseCompleted }

// DeclaringSide returns the partnership that owns the contract.
// Only meaningful once the auction has settled.
func (g *GameState) DeclaringSide() Side { return g.Contract.Declarer.Side() }

// TricksWonBy returns the number of completed tricks won by the side.
func (g *GameState) TricksWonBy(sd Side) uint8 { return g.TricksWon[sd] }

// TrumpSuit returns the contract's trump suit; ok is false for notrump.
func (g *GameState) TrumpSuit() (Suit, bool) { return g.Contract.Strain.TrumpSuit() }

// OpeningLeader returns the seat that leads the first trick: the
// declarer's left-hand opponent.
func (g *GameState) OpeningLeader() Seat { return g.Contract.Declarer.Next() }

// OpeningLeadMade reports whether at least one card has been played.
// The dummy's hand becomes public at this point.
func (g *GameState) OpeningLeadMade() bool {
	return g.TrickCount > 0 || g.CurrentTrick.Len > 0
}

// AuctionCalls returns the auction history as a newly allocated slice.
func (g *GameState) AuctionCalls() []CallRecord {
	out := make([]CallRecord, g.AuctionLen)
	copy(out, g.Auction[:g.AuctionLen])
	return out
}

// Snapshot is a complete value-copy of GameState. Saving and restoring
// are plain struct copies.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }
