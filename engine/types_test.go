package engine

import "testing"

// allBids returns the 35 bids in ascending auction order.
func allBids() []Bid {
	var bids []Bid
	for level := uint8(1); level <= 7; level++ {
		for strain := StrainClubs; strain <= StrainNoTrump; strain++ {
			bids = append(bids, Bid{Level: level, Strain: strain})
		}
	}
	return bids
}

// TestBidTotalOrder verifies the bid ordering is a strict total order:
// exactly one of a<b, a=b, b<a holds for every pair, and the generated
// ascending sequence is consistent with Beats.
func TestBidTotalOrder(t *testing.T) {
	bids := allBids()
	for i, a := range bids {
		for j, b := range bids {
			ab := b.Beats(a)
			ba := a.Beats(b)
			if i == j {
				if ab || ba {
					t.Errorf("bid %v beats itself", a)
				}
				continue
			}
			if ab == ba {
				t.Errorf("ordering not total for %v vs %v: Beats=%v both ways", a, b, ab)
			}
			if (i < j) != ab {
				t.Errorf("enumeration order disagrees with Beats for %v vs %v", a, b)
			}
		}
	}
}

func TestBidLevelDominatesStrain(t *testing.T) {
	low := Bid{Level: 2, Strain: StrainNoTrump}
	high := Bid{Level: 3, Strain: StrainClubs}
	if !high.Beats(low) {
		t.Errorf("3C should beat 2NT: higher level wins regardless of strain")
	}
}

func TestSeatRotation(t *testing.T) {
	order := []Seat{North, East, South, West, North}
	for i := 0; i < 4; i++ {
		if order[i].Next() != order[i+1] {
			t.Errorf("Next of %v = %v, want %v", order[i], order[i].Next(), order[i+1])
		}
	}
}

func TestSeatPartnerAndSide(t *testing.T) {
	cases := []struct {
		seat    Seat
		partner Seat
		side    Side
	}{
		{North, South, SideNS},
		{South, North, SideNS},
		{East, West, SideEW},
		{West, East, SideEW},
	}
	for _, c := range cases {
		if got := c.seat.Partner(); got != c.partner {
			t.Errorf("Partner(%v) = %v, want %v", c.seat, got, c.partner)
		}
		if got := c.seat.Side(); got != c.side {
			t.Errorf("Side(%v) = %v, want %v", c.seat, got, c.side)
		}
		if c.seat.Side() != c.seat.Partner().Side() {
			t.Errorf("%v and partner %v on different sides", c.seat, c.partner)
		}
	}
}

func TestCardPacking(t *testing.T) {
	c := NewCard(SuitSpades, RankAce)
	if c.Suit() != SuitSpades || c.Rank() != RankAce {
		t.Errorf("AS round-trip: suit=%v rank=%v", c.Suit(), c.Rank())
	}
	if !c.Valid() {
		t.Errorf("AS should be valid")
	}
	if EmptyCard.Valid() {
		t.Errorf("EmptyCard should be invalid")
	}
	if NewCard(SuitClubs, Rank(0)).Valid() {
		t.Errorf("rank 0 should be invalid")
	}
}

func TestHandRemovePreservesOrder(t *testing.T) {
	var h Hand
	cards := []Card{
		NewCard(SuitSpades, RankAce),
		NewCard(SuitHearts, RankKing),
		NewCard(SuitClubs, RankTwo),
	}
	for i, c := range cards {
		h.Cards[i] = c
		h.Len++
	}

	if !h.remove(cards[1]) {
		t.Fatalf("remove of held card failed")
	}
	if h.Len != 2 {
		t.Fatalf("Len = %d after remove, want 2", h.Len)
	}
	if h.Cards[0] != cards[0] || h.Cards[1] != cards[2] {
		t.Errorf("remaining cards out of order: %v %v", h.Cards[0], h.Cards[1])
	}
	if h.remove(cards[1]) {
		t.Errorf("second remove of same card should fail")
	}
	if h.Contains(cards[1]) {
		t.Errorf("hand still contains removed card")
	}
}

func TestSnapshotRestore(t *testing.T) {
	g := DealBoard(1, 7, DefaultTableRules())
	snap := g.Save()

	g2, err := ApplyCall(g, g.Turn, Call{Type: CallBid, Bid: Bid{Level: 1, Strain: StrainHearts}})
	if err != nil {
		t.Fatalf("ApplyCall: %v", err)
	}
	if g2.AuctionLen == g.AuctionLen {
		t.Fatalf("ApplyCall result should differ from input")
	}

	g2.Restore(snap)
	if g2.AuctionLen != g.AuctionLen || g2.Turn != g.Turn {
		t.Errorf("restore did not return to the saved state")
	}
}
