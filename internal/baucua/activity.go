package baucua

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/baucualabs/baucua-go/internal/sui"
)

// GasBreakdown is the raw fee data of one historical play, in MIST.
type GasBreakdown struct {
	ComputationCost uint64 `json:"computationCost"`
	StorageCost     uint64 `json:"storageCost"`
	TotalCost       uint64 `json:"totalCost"`
}

// ContractActivity is one historical play transaction decorated for display.
type ContractActivity struct {
	Digest    string          `json:"digest"`
	Timestamp time.Time       `json:"timestamp"`
	Player    string          `json:"player"`
	Dice      []string        `json:"dice"`
	TotalBet  decimal.Decimal `json:"totalBet"`
	Winnings  decimal.Decimal `json:"winnings"`
	IsWin     bool            `json:"isWin"`
	GasUsed   decimal.Decimal `json:"gasUsed"`
	RawGas    GasBreakdown    `json:"rawGas"`
}

// DecodeActivity projects one indexed transaction onto an activity record.
// It returns nil when the transaction carries no decodable outcome event: a
// play-function call without one is not a displayable activity.
func DecodeActivity(tx *sui.TransactionBlock) *ContractActivity {
	result := ParsePlayResult(tx.Events)
	if result == nil {
		return nil
	}

	timestamp := time.Now().UTC()
	if tx.TimestampMs != "" {
		if ms, err := strconv.ParseInt(tx.TimestampMs, 10, 64); err == nil {
			timestamp = time.UnixMilli(ms).UTC()
		}
	}

	var gas GasBreakdown
	if tx.Effects != nil {
		gas.ComputationCost = ParseMist(tx.Effects.GasUsed.ComputationCost)
		gas.StorageCost = ParseMist(tx.Effects.GasUsed.StorageCost)
	}
	gas.TotalCost = gas.ComputationCost + gas.StorageCost

	player := result.Player
	if player == "" {
		player = tx.Sender()
	}

	return &ContractActivity{
		Digest:    tx.Digest,
		Timestamp: timestamp,
		Player:    player,
		Dice:      result.DiceSymbolIDs(),
		TotalBet:  result.TotalBetSui(),
		Winnings:  result.WinningsSui(),
		IsWin:     result.Winnings > 0,
		GasUsed:   MistToSui(gas.TotalCost),
		RawGas:    gas,
	}
}

// DecodeActivities decodes a page of transactions, preserving order and
// skipping transactions without a play outcome.
func DecodeActivities(txs []sui.TransactionBlock) []ContractActivity {
	out := make([]ContractActivity, 0, len(txs))
	for i := range txs {
		if a := DecodeActivity(&txs[i]); a != nil {
			out = append(out, *a)
		}
	}
	return out
}
