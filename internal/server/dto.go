package server

import "github.com/akhtarshadab/bridge/engine"

// ClientMessage is what a seated client sends over the websocket.
// Value carries the compact text form, e.g. "1NT", "X", "P" for calls
// and "AS", "TD" for cards.
type ClientMessage struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// ErrorMessage reports a rejected message back to the sender only.
type ErrorMessage struct {
	Type   string `json:"type"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// errorCode maps engine errors onto stable wire codes.
func errorCode(err error) string {
	switch {
	case engine.IsProtocolError(err):
		return "protocol"
	case engine.IsLegalityError(err):
		return "illegal"
	case engine.IsFaultError(err):
		return "fault"
	default:
		return "rejected"
	}
}
