package contract

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/baucualabs/baucua-go/internal/baucua"
	"github.com/baucualabs/baucua-go/internal/sui"
)

// CoinInfo is one SUI coin object, decorated for display.
type CoinInfo struct {
	ObjectID   string          `json:"objectId"`
	Balance    uint64          `json:"balance"`
	BalanceSui decimal.Decimal `json:"balanceInSui"`
}

// TotalBalance sums the SUI balances of all coins owned by the address.
func (g *GameContract) TotalBalance(ctx context.Context, address string) (decimal.Decimal, []CoinInfo, error) {
	coins, err := g.chain.GetCoins(ctx, address, sui.SuiCoinType)
	if err != nil {
		return decimal.Zero, nil, err
	}

	infos := make([]CoinInfo, 0, len(coins))
	var totalMist uint64
	for _, coin := range coins {
		balance := baucua.ParseMist(coin.Balance)
		totalMist += balance
		infos = append(infos, CoinInfo{
			ObjectID:   coin.CoinObjectID,
			Balance:    balance,
			BalanceSui: baucua.MistToSui(balance),
		})
	}
	return baucua.MistToSui(totalMist), infos, nil
}

// CanAfford checks the aggregate balance against stake + gas buffer. This is
// advisory: execution-time balance enforcement stays with the chain. It
// exists to give the user a cheap rejection before they sign anything.
func (g *GameContract) CanAfford(ctx context.Context, address string, stakeSui decimal.Decimal) (bool, error) {
	total, _, err := g.TotalBalance(ctx, address)
	if err != nil {
		return false, err
	}
	return total.GreaterThanOrEqual(stakeSui.Add(g.config.GasBufferSui)), nil
}

// SafeBetLimit is the largest stake an address can fund with the gas buffer
// held back.
type SafeBetLimit struct {
	MaxBet       decimal.Decimal `json:"maxBetInSui"`
	TotalBalance decimal.Decimal `json:"totalBalanceInSui"`
	GasBuffer    decimal.Decimal `json:"gasBufferInSui"`
}

// MaxSafeBet computes the largest affordable stake: total balance minus the
// gas buffer, clamped at zero.
func (g *GameContract) MaxSafeBet(ctx context.Context, address string) (*SafeBetLimit, error) {
	total, _, err := g.TotalBalance(ctx, address)
	if err != nil {
		return nil, err
	}
	maxBet := total.Sub(g.config.GasBufferSui)
	if maxBet.Sign() < 0 {
		maxBet = decimal.Zero
	}
	return &SafeBetLimit{
		MaxBet:       maxBet,
		TotalBalance: total,
		GasBuffer:    g.config.GasBufferSui,
	}, nil
}

// bankFields is the subset of the bank object's Move fields we read.
type bankFields struct {
	Treasury struct {
		Fields struct {
			Balance string `json:"balance"`
		} `json:"fields"`
	} `json:"treasury"`
}

// BankBalance returns the contract treasury balance in SUI. A missing or
// malformed bank object reads as zero; the bank is display-only here.
func (g *GameContract) BankBalance(ctx context.Context) (decimal.Decimal, error) {
	obj, err := g.chain.GetObject(ctx, g.config.BankID)
	if err != nil {
		return decimal.Zero, err
	}
	if obj.Content == nil || len(obj.Content.Fields) == 0 {
		return decimal.Zero, nil
	}

	var fields bankFields
	if err := json.Unmarshal(obj.Content.Fields, &fields); err != nil {
		return decimal.Zero, nil
	}
	return baucua.MistStringToSui(fields.Treasury.Fields.Balance), nil
}
