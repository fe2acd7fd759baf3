package baucua

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPrepareBetsTranslation(t *testing.T) {
	bets := []Bet{
		{SymbolID: "bau", Amount: decimal.RequireFromString("0.1")},
		{SymbolID: "ca", Amount: decimal.RequireFromString("0.25")},
	}

	prepared, err := PrepareBets(bets)
	if err != nil {
		t.Fatalf("PrepareBets: %v", err)
	}

	if len(prepared.Symbols) != 2 || prepared.Symbols[0] != 0 || prepared.Symbols[1] != 2 {
		t.Errorf("symbols: expected [0 2], got %v", prepared.Symbols)
	}
	if len(prepared.Amounts) != 2 || prepared.Amounts[0] != 100_000_000 || prepared.Amounts[1] != 250_000_000 {
		t.Errorf("amounts: expected [100000000 250000000], got %v", prepared.Amounts)
	}
	if prepared.Total != 350_000_000 {
		t.Errorf("total: expected 350000000, got %d", prepared.Total)
	}
	if prepared.TotalString() != "350000000" {
		t.Errorf("total string: got %s", prepared.TotalString())
	}
	if !prepared.TotalSui().Equal(decimal.RequireFromString("0.35")) {
		t.Errorf("total sui: got %s", prepared.TotalSui())
	}
}

func TestPrepareBetsEmpty(t *testing.T) {
	if _, err := PrepareBets(nil); !errors.Is(err, ErrNoBets) {
		t.Errorf("expected ErrNoBets, got %v", err)
	}
}

func TestPrepareBetsUnknownSymbolFailsWhole(t *testing.T) {
	bets := []Bet{
		{SymbolID: "bau", Amount: decimal.RequireFromString("0.1")},
		{SymbolID: "dragon", Amount: decimal.RequireFromString("0.1")},
	}
	if _, err := PrepareBets(bets); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestPrepareBetsRejectsNonPositive(t *testing.T) {
	for _, amount := range []string{"0", "-0.1"} {
		bets := []Bet{{SymbolID: "bau", Amount: decimal.RequireFromString(amount)}}
		if _, err := PrepareBets(bets); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %s: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestPrepareBetsRejectsSubMist(t *testing.T) {
	bets := []Bet{{SymbolID: "bau", Amount: decimal.RequireFromString("0.0000000001")}}
	if _, err := PrepareBets(bets); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for sub-MIST amount, got %v", err)
	}
}
