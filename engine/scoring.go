package engine

import "fmt"

// ScoreBreakdown itemizes a duplicate-bridge score. For a made contract
// Total = TrickScore + OvertrickBonus + GameBonus + SlamBonus +
// InsultBonus, credited to the declaring side. For a failed contract
// Total = Penalty, credited to the defenders.
type ScoreBreakdown struct {
	Made           bool `json:"made"`
	Overtricks     int  `json:"overtricks"`
	Undertricks    int  `json:"undertricks"`
	TrickScore     int  `json:"trickScore"`
	OvertrickBonus int  `json:"overtrickBonus"`
	GameBonus      int  `json:"gameBonus"`
	SlamBonus      int  `json:"slamBonus"`
	InsultBonus    int  `json:"insultBonus"`
	Penalty        int  `json:"penalty"`
	Total          int  `json:"total"`
}

// ScoreResult is the final outcome of a board.
type ScoreResult struct {
	NS        int            `json:"ns"`
	EW        int            `json:"ew"`
	PassedOut bool           `json:"passedOut"`
	Contract  Contract       `json:"contract"`
	TricksWon uint8          `json:"tricksWon"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// FinalizeScore computes the board's score and returns the completed
// state. Pure over its inputs: calling it twice on the same state
// yields identical results. Returns ErrWrongPhase unless all thirteen
// tricks have been played or the board was passed out.
func FinalizeScore(state GameState) (GameState, ScoreResult, error) {
	if state.Phase != PhaseScoring && state.Phase != PhaseCompleted {
		return state, ScoreResult{}, fmt.Errorf("%w: cannot score during phase %d", ErrWrongPhase, state.Phase)
	}

	g := state
	g.Phase = PhaseCompleted

	if state.PassedOut {
		return g, ScoreResult{PassedOut: true}, nil
	}

	declaring := state.DeclaringSide()
	tricksWon := state.TricksWon[declaring]
	vulnerable := state.Vulnerability.Vulnerable(declaring)
	bd := scoreContract(state.Contract, tricksWon, vulnerable)

	res := ScoreResult{
		Contract:  state.Contract,
		TricksWon: tricksWon,
		Breakdown: bd,
	}
	if bd.Made {
		if declaring == SideNS {
			res.NS = bd.Total
		} else {
			res.EW = bd.Total
		}
	} else {
		if declaring == SideNS {
			res.EW = bd.Total
		} else {
			res.NS = bd.Total
		}
	}
	return g, res, nil
}

// scoreContract applies the duplicate scoring tables to one contract.
func scoreContract(c Contract, tricksWon uint8, vulnerable bool) ScoreBreakdown {
	over := int(tricksWon) - int(c.RequiredTricks())

	mult := 1
	if c.Redoubled {
		mult = 4
	} else if c.Doubled {
		mult = 2
	}

	if over < 0 {
		down := -over
		bd := ScoreBreakdown{Undertricks: down}
		bd.Penalty = undertrickPenalty(down, vulnerable, c.Doubled || c.Redoubled, c.Redoubled)
		bd.Total = bd.Penalty
		return bd
	}

	bd := ScoreBreakdown{Made: true, Overtricks: over}

	level := int(c.Level)
	var base int
	switch {
	case c.Strain == StrainNoTrump:
		base = 40 + 30*(level-1)
	case Suit(c.Strain).IsMajor():
		base = 30 * level
	default:
		base = 20 * level
	}
	bd.TrickScore = base * mult

	bd.OvertrickBonus = over * overtrickValue(c, vulnerable)

	if bd.TrickScore < 100 {
		bd.GameBonus = 50 // partscore
	} else if vulnerable {
		bd.GameBonus = 500
	} else {
		bd.GameBonus = 300
	}

	switch c.Level {
	case 6:
		bd.SlamBonus = 500
		if vulnerable {
			bd.SlamBonus = 750
		}
	case 7:
		bd.SlamBonus = 1000
		if vulnerable {
			bd.SlamBonus = 1500
		}
	}

	if c.Redoubled {
		bd.InsultBonus = 100
	} else if c.Doubled {
		bd.InsultBonus = 50
	}

	bd.Total = bd.TrickScore + bd.OvertrickBonus + bd.GameBonus + bd.SlamBonus + bd.InsultBonus
	return bd
}

// overtrickValue returns the score of one overtrick for the contract.
func overtrickValue(c Contract, vulnerable bool) int {
	switch {
	case c.Redoubled:
		if vulnerable {
			return 400
		}
		return 200
	case c.Doubled:
		if vulnerable {
			return 200
		}
		return 100
	case c.Strain == StrainClubs || c.Strain == StrainDiamonds:
		return 20
	default:
		return 30
	}
}

// undertrickPenalty accumulates the penalty for going down. Doubled
// undertricks step 100/200/200/300... non-vulnerable and
// 200/300/300/300... vulnerable; a redoubled contract doubles the
// doubled total again.
func undertrickPenalty(down int, vulnerable, doubled, redoubled bool) int {
	if !doubled {
		per := 50
		if vulnerable {
			per = 100
		}
		return down * per
	}

	total := 0
	for i := 1; i <= down; i++ {
		switch {
		case i == 1:
			if vulnerable {
				total += 200
			} else {
				total += 100
			}
		case i <= 3:
			if vulnerable {
				total += 300
			} else {
				total += 200
			}
		default:
			total += 300
		}
	}
	if redoubled {
		total *= 2
	}
	return total
}
