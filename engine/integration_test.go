package engine

import "testing"

// TestFullBoard drives a complete board through every phase: deal,
// auction, 13 tricks of always-first-legal play, and scoring. Checks
// the lifecycle transitions and that the played cards still partition
// the deck.
func TestFullBoard(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		g := DealBoard(uint16(seed), seed*977, DefaultTableRules())

		g = runAuction(t, g, bid(1, StrainNoTrump), Pass, Pass, Pass)
		if g.Phase != PhasePlaying {
			t.Fatalf("seed %d: Phase = %v after auction, want playing", seed, g.Phase)
		}
		if g.Turn != g.Contract.Declarer.Next() {
			t.Fatalf("seed %d: opening leader %v, want left of declarer", seed, g.Turn)
		}

		plays := 0
		for g.Phase == PhasePlaying {
			seat := g.Turn
			legal := LegalPlays(g, seat)
			if len(legal) == 0 {
				t.Fatalf("seed %d: no legal play for %v mid-board", seed, seat)
			}
			var err error
			g, err = ApplyPlay(g, seat, legal[0])
			if err != nil {
				t.Fatalf("seed %d: play %d rejected: %v", seed, plays, err)
			}
			plays++
			if plays > DeckSize {
				t.Fatalf("seed %d: board did not finish after %d plays", seed, plays)
			}
		}

		if plays != DeckSize {
			t.Errorf("seed %d: %d plays, want %d", seed, plays, DeckSize)
		}
		if g.Phase != PhaseScoring {
			t.Fatalf("seed %d: Phase = %v after 13 tricks, want scoring", seed, g.Phase)
		}
		if got := g.TricksWonBy(SideNS) + g.TricksWonBy(SideEW); got != NumTricks {
			t.Errorf("seed %d: sides won %d tricks total, want %d", seed, got, NumTricks)
		}

		// Every card appears exactly once across the completed tricks
		// and every hand is empty.
		seen := make(map[Card]bool)
		for i := uint8(0); i < g.TrickCount; i++ {
			trick := g.CompletedTricks[i]
			if trick.Len != NumSeats {
				t.Fatalf("seed %d: trick %d has %d cards", seed, i, trick.Len)
			}
			for j := uint8(0); j < trick.Len; j++ {
				c := trick.Cards[j]
				if seen[c] {
					t.Errorf("seed %d: card %v played twice", seed, c)
				}
				seen[c] = true
			}
		}
		if len(seen) != DeckSize {
			t.Errorf("seed %d: %d distinct cards played, want %d", seed, len(seen), DeckSize)
		}
		for seat := Seat(0); seat < NumSeats; seat++ {
			if g.Hands[seat].Len != 0 {
				t.Errorf("seed %d: seat %v still holds %d cards", seed, seat, g.Hands[seat].Len)
			}
		}

		g, res, err := FinalizeScore(g)
		if err != nil {
			t.Fatalf("seed %d: FinalizeScore: %v", seed, err)
		}
		if g.Phase != PhaseCompleted {
			t.Errorf("seed %d: Phase = %v after scoring, want completed", seed, g.Phase)
		}
		if (res.NS == 0) == (res.EW == 0) {
			t.Errorf("seed %d: score NS=%d EW=%d, exactly one side should score", seed, res.NS, res.EW)
		}
	}
}
