package engine

import "fmt"

// ApplyPlay validates one card play and returns the resulting state.
// The input state is never modified; on error it is returned unchanged
// alongside the error.
//
// When the fourth card completes a trick, the trick is resolved, the
// winner's side is credited and the winner leads the next trick. After
// the thirteenth trick the state advances to the scoring phase.
func ApplyPlay(state GameState, seat Seat, card Card) (GameState, error) {
	if state.Phase != PhasePlaying {
		return state, fmt.Errorf("%w: cannot play during phase %d", ErrWrongPhase, state.Phase)
	}
	if seat != state.Turn {
		return state, fmt.Errorf("%w: seat %v played on %v's turn", ErrOutOfTurn, seat, state.Turn)
	}
	if !card.Valid() {
		return state, fmt.Errorf("%w: %#x", ErrInvalidCard, uint8(card))
	}

	g := state
	if err := g.applyPlay(seat, card); err != nil {
		return state, err
	}
	return g, nil
}

func (g *GameState) applyPlay(seat Seat, card Card) error {
	hand := &g.Hands[seat]
	if err := validatePlay(card, hand, &g.CurrentTrick); err != nil {
		return err
	}

	hand.remove(card)

	t := &g.CurrentTrick
	if t.Len == 0 {
		t.LedSuit = card.Suit()
	}
	t.Cards[t.Len] = card
	t.Seats[t.Len] = seat
	t.Len++

	if t.Len < NumSeats {
		g.Turn = seat.Next()
		return nil
	}

	winner, err := ResolveTrick(*t, g.Contract.Strain)
	if err != nil {
		return err
	}
	t.Winner = winner
	g.TricksWon[winner.Side()]++
	g.CompletedTricks[g.TrickCount] = *t
	g.TrickCount++
	g.CurrentTrick = Trick{}
	g.Turn = winner

	if g.TrickCount == NumTricks {
		g.Phase = PhaseScoring
	}
	return nil
}

// validatePlay checks a candidate card against the hand and the trick
// in progress. Leading any held card is legal; otherwise the card must
// follow the led suit unless the hand is void in it.
func validatePlay(card Card, hand *Hand, trick *Trick) error {
	if !hand.Contains(card) {
		return fmt.Errorf("%w: %v", ErrCardNotInHand, card)
	}
	if trick.Len == 0 {
		return nil
	}
	if card.Suit() != trick.LedSuit && hand.HasSuit(trick.LedSuit) {
		return fmt.Errorf("%w: %v led, %v held", ErrMustFollowSuit, trick.LedSuit, card)
	}
	return nil
}

// ResolveTrick determines the winning seat of a trick. If the contract
// strain names a trump suit and the trick contains trump, the highest
// trump wins; otherwise the highest card of the led suit wins. Cards of
// other suits can never win. Ties are impossible in a 52-card deck.
func ResolveTrick(t Trick, strain Strain) (Seat, error) {
	if t.Len == 0 {
		return 0, fmt.Errorf("%w", ErrEmptyTrick)
	}

	winSuit := t.LedSuit
	if trump, ok := strain.TrumpSuit(); ok {
		for i := uint8(0); i < t.Len; i++ {
			if t.Cards[i].Suit() == trump {
				winSuit = trump
				break
			}
		}
	}

	best := -1
	var bestRank Rank
	for i := uint8(0); i < t.Len; i++ {
		c := t.Cards[i]
		if c.Suit() != winSuit {
			continue
		}
		if best < 0 || c.Rank() > bestRank {
			best = int(i)
			bestRank = c.Rank()
		}
	}
	return t.Seats[best], nil
}

// LegalPlays returns every card the seat may legally play right now.
// Returns nil outside the play phase or off turn. Used by the service
// to pick a forced play when a turn clock expires.
func LegalPlays(state GameState, seat Seat) []Card {
	if state.Phase != PhasePlaying || state.Turn != seat {
		return nil
	}
	hand := &state.Hands[seat]
	var out []Card
	for i := uint8(0); i < hand.Len; i++ {
		if validatePlay(hand.Cards[i], hand, &state.CurrentTrick) == nil {
			out = append(out, hand.Cards[i])
		}
	}
	return out
}
