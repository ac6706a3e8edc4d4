package engine

import "errors"

// Protocol errors: the caller let an invalid request reach the engine.
// Reject the action with no state change.
var (
	ErrWrongPhase = errors.New("wrong phase")
	ErrOutOfTurn  = errors.New("out of turn")
)

// Legality errors: expected, recoverable rule violations. Reject with
// the reason; the player corrects their input.
var (
	ErrBidTooLow              = errors.New("bid too low")
	ErrNothingToDouble        = errors.New("nothing to double")
	ErrAlreadyDoubled         = errors.New("already doubled")
	ErrCannotDoubleOwnSide    = errors.New("cannot double own side's bid")
	ErrNothingDoubled         = errors.New("nothing doubled")
	ErrCannotRedoubleOpponent = errors.New("cannot redouble opponent's double")
	ErrCardNotInHand          = errors.New("card not in hand")
	ErrMustFollowSuit         = errors.New("must follow suit")
)

// Invariant violations: these never occur if the caller serializes and
// validates its requests. Treat as fatal to the board.
var (
	ErrInvalidDeckSize = errors.New("deck must contain exactly 52 unique cards")
	ErrEmptyTrick      = errors.New("cannot resolve an empty trick")
	ErrInvalidCard     = errors.New("malformed card")
	ErrInvalidBid      = errors.New("malformed bid")
	ErrInvalidCall     = errors.New("malformed call")
)

// IsProtocolError reports whether err is caller misuse (wrong phase or
// wrong seat) rather than a game-rule violation.
func IsProtocolError(err error) bool {
	return errors.Is(err, ErrWrongPhase) || errors.Is(err, ErrOutOfTurn)
}

// IsLegalityError reports whether err is an ordinary rule violation the
// acting player can correct.
func IsLegalityError(err error) bool {
	for _, e := range []error{
		ErrBidTooLow, ErrNothingToDouble, ErrAlreadyDoubled,
		ErrCannotDoubleOwnSide, ErrNothingDoubled, ErrCannotRedoubleOpponent,
		ErrCardNotInHand, ErrMustFollowSuit,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// IsFaultError reports whether err indicates corrupted state or a caller
// bug. The board should be halted and flagged, not retried.
func IsFaultError(err error) bool {
	for _, e := range []error{
		ErrInvalidDeckSize, ErrEmptyTrick, ErrInvalidCard, ErrInvalidBid, ErrInvalidCall,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
