package game

import (
	"github.com/google/uuid"

	"github.com/akhtarshadab/bridge/engine"
)

// SeatHandView is one seat's hand as seen by a particular observer.
// Cards is populated only when the hand is visible to that observer.
type SeatHandView struct {
	Seat     string   `json:"seat"`
	HandSize int      `json:"handSize"`
	Cards    []string `json:"cards,omitempty"`
	IsDummy  bool     `json:"isDummy"`
	Username string   `json:"username,omitempty"`
}

// TrickCardView is one card of the trick in progress.
type TrickCardView struct {
	Seat string `json:"seat"`
	Card string `json:"card"`
}

// SeatView is the full table state tailored to one observing seat. Own
// cards are always visible; the dummy's hand is visible to everyone
// once the opening lead has been made; everyone else shows a count.
type SeatView struct {
	TableID       uuid.UUID       `json:"tableId"`
	BoardNumber   uint16          `json:"boardNumber"`
	Phase         string          `json:"phase"`
	Dealer        string          `json:"dealer"`
	Turn          string          `json:"turn"`
	VulnerableNS  bool            `json:"vulnerableNS"`
	VulnerableEW  bool            `json:"vulnerableEW"`
	Auction       []string        `json:"auction"`
	Contract      string          `json:"contract,omitempty"`
	Declarer      string          `json:"declarer,omitempty"`
	CurrentTrick  []TrickCardView `json:"currentTrick"`
	TricksWonNS   int             `json:"tricksWonNS"`
	TricksWonEW   int             `json:"tricksWonEW"`
	Hands         []SeatHandView  `json:"hands"`
}

// contractText renders a contract in its compact form, e.g. "4HX".
func contractText(c engine.Contract) string {
	s := engine.Bid{Level: c.Level, Strain: c.Strain}.String()
	if c.Redoubled {
		return s + "XX"
	}
	if c.Doubled {
		return s + "X"
	}
	return s
}

// ViewForSeat generates a state snapshot from the perspective of the
// observing seat. Assumes the table lock is HELD by the caller.
func (t *Table) ViewForSeat(observer engine.Seat) SeatView {
	g := &t.Engine

	v := SeatView{
		TableID:      t.ID,
		BoardNumber:  g.BoardNumber,
		Phase:        g.Phase.String(),
		Dealer:       g.Dealer.String(),
		Turn:         g.Turn.String(),
		VulnerableNS: g.Vulnerability.NS,
		VulnerableEW: g.Vulnerability.EW,
		Auction:      make([]string, 0, g.AuctionLen),
	}

	for _, rec := range g.AuctionCalls() {
		v.Auction = append(v.Auction, rec.Call.String())
	}

	if g.HasContract {
		v.Contract = contractText(g.Contract)
		v.Declarer = g.Contract.Declarer.String()
	}

	trick := g.CurrentTrick
	for i := uint8(0); i < trick.Len; i++ {
		v.CurrentTrick = append(v.CurrentTrick, TrickCardView{
			Seat: trick.Seats[i].String(),
			Card: trick.Cards[i].String(),
		})
	}
	v.TricksWonNS = int(g.TricksWonBy(engine.SideNS))
	v.TricksWonEW = int(g.TricksWonBy(engine.SideEW))

	dummyVisible := g.HasContract && g.Phase != engine.PhaseBidding && g.OpeningLeadMade()

	v.Hands = make([]SeatHandView, engine.NumSeats)
	for seat := engine.Seat(0); seat < engine.NumSeats; seat++ {
		hv := SeatHandView{
			Seat:     seat.String(),
			HandSize: int(g.Hands[seat].Len),
		}
		if p := t.Players[seat]; p != nil {
			hv.Username = p.Username
		}
		isDummy := g.HasContract && seat == g.Contract.Dummy
		hv.IsDummy = isDummy

		if seat == observer || (isDummy && dummyVisible) {
			sorted := engine.SortHand(g.Hands[seat])
			hv.Cards = make([]string, 0, sorted.Len)
			for _, c := range sorted.Slice() {
				hv.Cards = append(hv.Cards, c.String())
			}
		}
		v.Hands[seat] = hv
	}
	return v
}
