package engine

// Suit constants — packed into upper 4 bits of Card. Ordering follows
// the bidding ranking: clubs lowest, spades highest.
const (
	SuitClubs    Suit = 0
	SuitDiamonds Suit = 1
	SuitHearts   Suit = 2
	SuitSpades   Suit = 3
)

// Suit is one of the four card suits.
type Suit uint8

// IsMajor reports whether the suit is hearts or spades.
func (s Suit) IsMajor() bool { return s == SuitHearts || s == SuitSpades }

// Strain is a bid denomination: the four suits plus notrump, ranked
// C < D < H < S < NT.
type Strain uint8

const (
	StrainClubs    Strain = Strain(SuitClubs)
	StrainDiamonds Strain = Strain(SuitDiamonds)
	StrainHearts   Strain = Strain(SuitHearts)
	StrainSpades   Strain = Strain(SuitSpades)
	StrainNoTrump  Strain = 4
)

// TrumpSuit returns the suit corresponding to the strain. The second
// return is false for notrump, which names no trump suit.
func (st Strain) TrumpSuit() (Suit, bool) {
	if st == StrainNoTrump {
		return 0, false
	}
	return Suit(st), true
}

// Rank constants — packed into lower 4 bits of Card. Numeric ranks use
// their face value so that rank comparison is plain integer comparison.
const (
	RankTwo   Rank = 2
	RankThree Rank = 3
	RankFour  Rank = 4
	RankFive  Rank = 5
	RankSix   Rank = 6
	RankSeven Rank = 7
	RankEight Rank = 8
	RankNine  Rank = 9
	RankTen   Rank = 10
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
	RankAce   Rank = 14
)

// Rank is a card rank, 2 through ace. Higher value wins within a suit.
type Rank uint8

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit Suit, rank Rank) Card {
	return Card(uint8(suit)<<4 | uint8(rank)&0x0F)
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() Suit { return Suit(uint8(c) >> 4) }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() Rank { return Rank(uint8(c) & 0x0F) }

// Valid reports whether c encodes one of the 52 real cards.
func (c Card) Valid() bool {
	return c != EmptyCard && c.Suit() <= SuitSpades && c.Rank() >= RankTwo && c.Rank() <= RankAce
}

// Seat constants — fixed clockwise rotation N → E → S → W → N.
const (
	North Seat = 0
	East  Seat = 1
	South Seat = 2
	West  Seat = 3
)

// Seat is one of the four table positions.
type Seat uint8

// Next returns the seat clockwise from s.
func (s Seat) Next() Seat { return (s + 1) % NumSeats }

// Partner returns the seat opposite s.
func (s Seat) Partner() Seat { return (s + 2) % NumSeats }

// Side returns the partnership s belongs to.
func (s Seat) Side() Side {
	if s == North || s == South {
		return SideNS
	}
	return SideEW
}

// Side is one of the two partnerships.
type Side uint8

const (
	SideNS Side = 0
	SideEW Side = 1
)

// Opponent returns the other partnership.
func (sd Side) Opponent() Side { return 1 - sd }

// Bid is a contract proposal: level 1–7 in one of the five strains.
// Bids are totally ordered — higher level wins regardless of strain,
// equal levels compare by strain rank.
type Bid struct {
	Level  uint8
	Strain Strain
}

// Valid reports whether the bid names a real level and strain.
func (b Bid) Valid() bool {
	return b.Level >= 1 && b.Level <= 7 && b.Strain <= StrainNoTrump
}

// Beats reports whether b outranks prior in the auction ordering.
func (b Bid) Beats(prior Bid) bool {
	if b.Level != prior.Level {
		return b.Level > prior.Level
	}
	return b.Strain > prior.Strain
}

// CallType discriminates the four kinds of auction action.
type CallType uint8

const (
	CallPass     CallType = 0
	CallBid      CallType = 1
	CallDouble   CallType = 2
	CallRedouble CallType = 3
)

// Call is a single auction action. Bid is meaningful only when Type is
// CallBid; the closed tag keeps malformed action shapes out of the
// auction logic entirely.
type Call struct {
	Type CallType
	Bid  Bid
}

// Pass is the zero Call, provided for readability at call sites.
var Pass = Call{Type: CallPass}

// CallRecord is one entry in the auction history.
type CallRecord struct {
	Seat Seat
	Call Call
}

// Contract is the settled result of an auction. Dummy is always the
// declarer's partner. Redoubled implies the bid was previously doubled;
// scoring reads Redoubled as superseding Doubled.
type Contract struct {
	Level     uint8
	Strain    Strain
	Declarer  Seat
	Dummy     Seat
	Doubled   bool
	Redoubled bool
}

// RequiredTricks returns the trick target for the contract (6 + level).
func (c Contract) RequiredTricks() uint8 { return 6 + c.Level }

// Trick is one round of up to four cards. Seats[i] played Cards[i];
// LedSuit is the suit of Cards[0]. Winner is meaningful once Len == 4.
type Trick struct {
	Cards   [NumSeats]Card
	Seats   [NumSeats]Seat
	Len     uint8
	LedSuit Suit
	Winner  Seat
}

// Hand holds the cards currently held by one seat. Cards[0:Len] are
// live; the hand only ever shrinks during play.
type Hand struct {
	Cards [HandSize]Card
	Len   uint8
}

// Contains reports whether the hand holds the card.
func (h *Hand) Contains(c Card) bool {
	for i := uint8(0); i < h.Len; i++ {
		if h.Cards[i] == c {
			return true
		}
	}
	return false
}

// HasSuit reports whether the hand holds at least one card of the suit.
func (h *Hand) HasSuit(s Suit) bool {
	for i := uint8(0); i < h.Len; i++ {
		if h.Cards[i].Suit() == s {
			return true
		}
	}
	return false
}

// remove deletes the card from the hand, preserving the order of the
// remaining cards. Returns false if the card is not present.
func (h *Hand) remove(c Card) bool {
	for i := uint8(0); i < h.Len; i++ {
		if h.Cards[i] == c {
			copy(h.Cards[i:h.Len-1], h.Cards[i+1:h.Len])
			h.Len--
			h.Cards[h.Len] = EmptyCard
			return true
		}
	}
	return false
}

// Slice returns the live cards as a newly allocated slice.
func (h *Hand) Slice() []Card {
	out := make([]Card, h.Len)
	copy(out, h.Cards[:h.Len])
	return out
}

// Vulnerability flags each partnership's vulnerability for the board.
type Vulnerability struct {
	NS bool
	EW bool
}

// Vulnerable reports whether the given side is vulnerable.
func (v Vulnerability) Vulnerable(sd Side) bool {
	if sd == SideNS {
		return v.NS
	}
	return v.EW
}

// Phase is the lifecycle stage of a board.
type Phase uint8

const (
	PhaseInitializing Phase = 0
	PhaseBidding      Phase = 1
	PhasePlaying      Phase = 2
	PhaseScoring      Phase = 3
	PhaseCompleted    Phase = 4
)
