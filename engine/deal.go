package engine

import "fmt"

// NewDeck returns the 52 distinct cards in suit-major order. The order
// is deterministic; shuffling randomizes it.
func NewDeck() [DeckSize]Card {
	var deck [DeckSize]Card
	idx := 0
	for suit := SuitClubs; suit <= SuitSpades; suit++ {
		for rank := RankTwo; rank <= RankAce; rank++ {
			deck[idx] = NewCard(suit, rank)
			idx++
		}
	}
	return deck
}

// shuffleDeck permutes the deck in place with a Fisher-Yates shuffle
// driven by the state's RNG. Anything weaker biases the deals.
func (g *GameState) shuffleDeck(deck *[DeckSize]Card) {
	for i := DeckSize - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Deal splits a shuffled deck into four 13-card hands in seat order
// N, E, S, W from consecutive slices. Returns ErrInvalidDeckSize unless
// the input holds exactly the 52 distinct cards.
func Deal(deck [DeckSize]Card) ([NumSeats]Hand, error) {
	var hands [NumSeats]Hand

	var seen [256]bool
	for _, c := range deck {
		if !c.Valid() || seen[c] {
			return hands, fmt.Errorf("%w: duplicate or malformed card %v", ErrInvalidDeckSize, c)
		}
		seen[c] = true
	}

	for seat := Seat(0); seat < NumSeats; seat++ {
		for i := 0; i < HandSize; i++ {
			hands[seat].Cards[i] = deck[int(seat)*HandSize+i]
		}
		hands[seat].Len = HandSize
	}
	return hands, nil
}

// SortHand returns the hand in display order: spades, hearts, diamonds,
// clubs, descending rank within each suit. Presentation only — sorting
// has no effect on legality.
func SortHand(h Hand) Hand {
	displayOrder := [4]Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}

	var out Hand
	for _, suit := range displayOrder {
		for rank := RankAce; rank >= RankTwo; rank-- {
			c := NewCard(suit, rank)
			if h.Contains(c) {
				out.Cards[out.Len] = c
				out.Len++
			}
		}
	}
	return out
}

// dealerRotation maps (board-1) mod 4 to the dealer seat.
var dealerRotation = [4]Seat{North, East, South, West}

// DealerForBoard returns the dealer for a 1-indexed board number.
func DealerForBoard(board uint16) Seat {
	return dealerRotation[(board-1)%4]
}

// vulnFour is the simplified 4-board vulnerability cycle.
var vulnFour = [4]Vulnerability{
	{false, false},
	{true, false},
	{false, true},
	{true, true},
}

// vulnSixteen is the ACBL-standard 16-board rotation.
var vulnSixteen = [16]Vulnerability{
	{false, false}, {true, false}, {false, true}, {true, true},
	{true, false}, {false, true}, {true, true}, {false, false},
	{false, true}, {true, true}, {false, false}, {true, false},
	{true, true}, {false, false}, {true, false}, {false, true},
}

// VulnerabilityForBoard returns the vulnerability for a 1-indexed board
// number under the given cycle.
func VulnerabilityForBoard(board uint16, cycle VulnerabilityCycle) Vulnerability {
	if cycle == CycleSixteenBoards {
		return vulnSixteen[(board-1)%16]
	}
	return vulnFour[(board-1)%4]
}

// DealBoard creates the initial state for a board: dealer and
// vulnerability from the board number, a freshly shuffled deal, and the
// auction open with the dealer to call first.
func DealBoard(board uint16, seed uint64, rules TableRules) GameState {
	var g GameState
	g.RNG = seed
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	g.Rules = rules
	g.BoardNumber = board
	g.Dealer = DealerForBoard(board)
	g.Vulnerability = VulnerabilityForBoard(board, rules.VulnerabilityCycle)

	deck := NewDeck()
	g.shuffleDeck(&deck)

	// Deal cannot fail on a freshly built deck.
	hands, err := Deal(deck)
	if err != nil {
		panic(err)
	}
	g.Hands = hands

	g.Phase = PhaseBidding
	g.Turn = g.Dealer
	return g
}
