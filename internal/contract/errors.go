package contract

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrPlayInFlight is returned when Play is called while a previous play
// attempt is still submitting or awaiting confirmation. One attempt at a
// time; the caller retries after the current one settles.
var ErrPlayInFlight = errors.New("contract: a play attempt is already in flight")

// InsufficientBalanceError is the pre-flight affordability failure. It is
// advisory: the chain's own balance enforcement remains authoritative.
type InsufficientBalanceError struct {
	Have decimal.Decimal // total SUI balance
	Need decimal.Decimal // stake + gas buffer
}

func (e *InsufficientBalanceError) Error() string {
	shortfall := e.Need.Sub(e.Have)
	return fmt.Sprintf(
		"contract: insufficient balance: have %s SUI, need %s SUI (short %s SUI); reduce the bet or add funds",
		e.Have.StringFixed(4), e.Need.StringFixed(4), shortfall.StringFixed(4),
	)
}
