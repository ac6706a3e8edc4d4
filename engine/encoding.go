package engine

import "fmt"

// Compact text encoding used on the wire and in move-history logs.
// Cards are rank+suit ("AS", "TD", "2C"), bids are level+strain ("4H",
// "3NT"), calls are "P", "X", "XX" or a bid, seats are "N"/"E"/"S"/"W".
// Each form is a bijection with the internal value.

var rankChars = map[Rank]string{
	RankTwo: "2", RankThree: "3", RankFour: "4", RankFive: "5",
	RankSix: "6", RankSeven: "7", RankEight: "8", RankNine: "9",
	RankTen: "T", RankJack: "J", RankQueen: "Q", RankKing: "K", RankAce: "A",
}

var ranksByChar = map[byte]Rank{
	'2': RankTwo, '3': RankThree, '4': RankFour, '5': RankFive,
	'6': RankSix, '7': RankSeven, '8': RankEight, '9': RankNine,
	'T': RankTen, 'J': RankJack, 'Q': RankQueen, 'K': RankKing, 'A': RankAce,
}

var suitChars = [4]string{"C", "D", "H", "S"}

var suitsByChar = map[byte]Suit{
	'C': SuitClubs, 'D': SuitDiamonds, 'H': SuitHearts, 'S': SuitSpades,
}

func (r Rank) String() string {
	if s, ok := rankChars[r]; ok {
		return s
	}
	return "?"
}

func (s Suit) String() string {
	if s <= SuitSpades {
		return suitChars[s]
	}
	return "?"
}

func (st Strain) String() string {
	if st == StrainNoTrump {
		return "NT"
	}
	return Suit(st).String()
}

func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().String()
}

// ParseCard parses the two-character rank+suit form.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return EmptyCard, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	rank, ok := ranksByChar[s[0]]
	if !ok {
		return EmptyCard, fmt.Errorf("%w: bad rank in %q", ErrInvalidCard, s)
	}
	suit, ok := suitsByChar[s[1]]
	if !ok {
		return EmptyCard, fmt.Errorf("%w: bad suit in %q", ErrInvalidCard, s)
	}
	return NewCard(suit, rank), nil
}

func (b Bid) String() string {
	if !b.Valid() {
		return "??"
	}
	return fmt.Sprintf("%d%s", b.Level, b.Strain)
}

// ParseBid parses the level+strain form: "1C" through "7NT".
func ParseBid(s string) (Bid, error) {
	if len(s) < 2 || len(s) > 3 {
		return Bid{}, fmt.Errorf("%w: %q", ErrInvalidBid, s)
	}
	if s[0] < '1' || s[0] > '7' {
		return Bid{}, fmt.Errorf("%w: bad level in %q", ErrInvalidBid, s)
	}
	b := Bid{Level: s[0] - '0'}
	switch rest := s[1:]; rest {
	case "NT":
		b.Strain = StrainNoTrump
	default:
		suit, ok := suitsByChar[rest[0]]
		if !ok || len(rest) != 1 {
			return Bid{}, fmt.Errorf("%w: bad strain in %q", ErrInvalidBid, s)
		}
		b.Strain = Strain(suit)
	}
	return b, nil
}

func (c Call) String() string {
	switch c.Type {
	case CallPass:
		return "P"
	case CallDouble:
		return "X"
	case CallRedouble:
		return "XX"
	case CallBid:
		return c.Bid.String()
	}
	return "??"
}

// ParseCall parses "P", "X", "XX" or a bid.
func ParseCall(s string) (Call, error) {
	switch s {
	case "P":
		return Call{Type: CallPass}, nil
	case "X":
		return Call{Type: CallDouble}, nil
	case "XX":
		return Call{Type: CallRedouble}, nil
	}
	b, err := ParseBid(s)
	if err != nil {
		return Call{}, fmt.Errorf("%w: %q", ErrInvalidCall, s)
	}
	return Call{Type: CallBid, Bid: b}, nil
}

var seatChars = [NumSeats]string{"N", "E", "S", "W"}

func (s Seat) String() string {
	if s < NumSeats {
		return seatChars[s]
	}
	return "?"
}

// ParseSeat parses "N", "E", "S" or "W".
func ParseSeat(s string) (Seat, error) {
	for i, c := range seatChars {
		if s == c {
			return Seat(i), nil
		}
	}
	return 0, fmt.Errorf("invalid seat %q", s)
}

var phaseNames = [5]string{"initializing", "bidding", "playing", "scoring", "completed"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}
