package contract

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/baucualabs/baucua-go/internal/baucua"
)

// GasEstimate is a pre-flight fee prediction from a dry-run simulation.
type GasEstimate struct {
	// FeeMist is computation + storage - rebate, clamped at zero (the rebate
	// can exceed the costs for small transactions).
	FeeMist uint64 `json:"feeMist"`

	// Fee is FeeMist in decimal SUI.
	Fee decimal.Decimal `json:"fee"`

	// RecommendedBudget is the fee inflated by a 20% safety margin, in MIST.
	RecommendedBudget uint64 `json:"recommendedBudget"`

	// Fallback is true when simulation failed and the fixed conservative
	// estimate was used instead.
	Fallback bool `json:"fallback"`
}

func (g *GameContract) fallbackEstimate() *GasEstimate {
	fee := g.config.FallbackGasFee
	return &GasEstimate{
		FeeMist:           fee,
		Fee:               baucua.MistToSui(fee),
		RecommendedBudget: fee * 120 / 100,
		Fallback:          true,
	}
}

// EstimateGas simulates the exact transaction shape Play would submit and
// predicts the fee. Estimation never fails: if the dry run errors or returns
// no gas data, the fixed fallback estimate is returned so the user is not
// blocked by a flaky simulation endpoint.
func (g *GameContract) EstimateGas(ctx context.Context, sender string, bets *baucua.PreparedBets) *GasEstimate {
	intent := g.buildPlayIntent(sender, bets, 0)

	txBytes, err := g.builder.BuildTransaction(ctx, intent)
	if err != nil {
		g.config.Logger.Printf("gas_estimate_fallback stage=build err=%q", err)
		return g.fallbackEstimate()
	}

	dryRun, err := g.chain.DryRunTransactionBlock(ctx, txBytes)
	if err != nil {
		g.config.Logger.Printf("gas_estimate_fallback stage=dry_run err=%q", err)
		return g.fallbackEstimate()
	}
	if dryRun.Effects == nil {
		g.config.Logger.Printf("gas_estimate_fallback stage=dry_run err=%q", "no effects in dry run result")
		return g.fallbackEstimate()
	}

	gas := dryRun.Effects.GasUsed
	computation := baucua.ParseMist(gas.ComputationCost)
	storage := baucua.ParseMist(gas.StorageCost)
	rebate := baucua.ParseMist(gas.StorageRebate)

	cost := computation + storage
	var fee uint64
	if cost > rebate {
		fee = cost - rebate
	}

	return &GasEstimate{
		FeeMist:           fee,
		Fee:               baucua.MistToSui(fee),
		RecommendedBudget: fee * 120 / 100,
	}
}

// EstimateGasForBets is EstimateGas for a raw bet list; it fails only on
// translation errors.
func (g *GameContract) EstimateGasForBets(ctx context.Context, sender string, bets []baucua.Bet) (*GasEstimate, error) {
	prepared, err := baucua.PrepareBets(bets)
	if err != nil {
		return nil, err
	}
	return g.EstimateGas(ctx, sender, prepared), nil
}
