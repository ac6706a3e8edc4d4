// Package auth issues and verifies the seat tokens the transport layer
// uses to check that the submitting identity matches the seat it acts
// for.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/akhtarshadab/bridge/engine"
)

// SeatClaims binds a player identity to one seat at one table.
type SeatClaims struct {
	TableID  string `json:"tableId"`
	PlayerID string `json:"playerId"`
	Seat     string `json:"seat"`
	jwt.RegisteredClaims
}

// NewSeatToken signs a token for the player occupying the seat.
func NewSeatToken(secret []byte, tableID, playerID uuid.UUID, seat engine.Seat, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SeatClaims{
		TableID:  tableID.String(),
		PlayerID: playerID.String(),
		Seat:     seat.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   playerID.String(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParsedSeat is the verified identity carried by a seat token.
type ParsedSeat struct {
	TableID  uuid.UUID
	PlayerID uuid.UUID
	Seat     engine.Seat
}

// ParseSeatToken verifies the signature and expiry and decodes the
// bound table, player and seat.
func ParseSeatToken(secret []byte, token string) (ParsedSeat, error) {
	var claims SeatClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return ParsedSeat{}, fmt.Errorf("parse seat token: %w", err)
	}

	tableID, err := uuid.Parse(claims.TableID)
	if err != nil {
		return ParsedSeat{}, fmt.Errorf("seat token table id: %w", err)
	}
	playerID, err := uuid.Parse(claims.PlayerID)
	if err != nil {
		return ParsedSeat{}, fmt.Errorf("seat token player id: %w", err)
	}
	seat, err := engine.ParseSeat(claims.Seat)
	if err != nil {
		return ParsedSeat{}, fmt.Errorf("seat token seat: %w", err)
	}
	return ParsedSeat{TableID: tableID, PlayerID: playerID, Seat: seat}, nil
}
