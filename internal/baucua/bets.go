package baucua

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Bet is a single pending wager: a symbol id and a decimal SUI amount.
type Bet struct {
	SymbolID string          `json:"symbolId"`
	Amount   decimal.Decimal `json:"amount"`
}

// PreparedBets is a bet list translated to the contract wire format: parallel
// arrays of contract indices and MIST amounts, plus the total stake. Ordering
// is the insertion order of the source bets.
type PreparedBets struct {
	Symbols []uint8
	Amounts []uint64
	Total   uint64
}

// AmountStrings returns the amounts as base-unit integer strings.
func (p *PreparedBets) AmountStrings() []string {
	out := make([]string, len(p.Amounts))
	for i, a := range p.Amounts {
		out[i] = strconv.FormatUint(a, 10)
	}
	return out
}

// TotalString returns the total stake as a base-unit integer string.
func (p *PreparedBets) TotalString() string {
	return strconv.FormatUint(p.Total, 10)
}

// TotalSui returns the total stake in decimal SUI.
func (p *PreparedBets) TotalSui() decimal.Decimal {
	return MistToSui(p.Total)
}

// PrepareBets translates bets into the contract call shape. An unknown symbol
// or a non-positive amount fails the whole translation; there is no partial
// output. The total is summed in MIST to avoid floating-point drift.
func PrepareBets(bets []Bet) (*PreparedBets, error) {
	if len(bets) == 0 {
		return nil, fmt.Errorf("baucua: %w", ErrNoBets)
	}

	p := &PreparedBets{
		Symbols: make([]uint8, 0, len(bets)),
		Amounts: make([]uint64, 0, len(bets)),
	}
	for _, bet := range bets {
		sym, ok := SymbolByID(bet.SymbolID)
		if !ok {
			return nil, fmt.Errorf("baucua: %w: %q", ErrUnknownSymbol, bet.SymbolID)
		}
		if bet.Amount.Sign() <= 0 {
			return nil, fmt.Errorf("baucua: %w: %s on %q", ErrInvalidAmount, bet.Amount, bet.SymbolID)
		}
		mist := SuiToMist(bet.Amount)
		if mist == 0 {
			return nil, fmt.Errorf("baucua: %w: %s on %q is below one MIST", ErrInvalidAmount, bet.Amount, bet.SymbolID)
		}
		p.Symbols = append(p.Symbols, uint8(sym.ContractIndex))
		p.Amounts = append(p.Amounts, mist)
		p.Total += mist
	}
	return p, nil
}
