package baucua

import "errors"

// Input errors rejected before any network call is made.
var (
	// ErrNoBets is returned when a bet list is empty.
	ErrNoBets = errors.New("no bets placed")

	// ErrUnknownSymbol is returned when a bet references a symbol id the
	// registry does not know. The whole translation fails; bets are never
	// silently dropped.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrInvalidAmount is returned for zero or negative bet amounts.
	ErrInvalidAmount = errors.New("bet amount must be > 0")
)
