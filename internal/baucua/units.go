package baucua

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// MistPerSui is the number of MIST (the on-chain base unit) in one SUI.
const MistPerSui = 1_000_000_000

// SuiToMist converts a decimal SUI amount to MIST, truncating toward zero.
// Truncation, not rounding: the contract must never receive more than the
// user authorized. Negative amounts convert to 0.
func SuiToMist(sui decimal.Decimal) uint64 {
	mist := sui.Shift(9).Truncate(0)
	if mist.Sign() <= 0 {
		return 0
	}
	return mist.BigInt().Uint64()
}

// MistToSui converts a MIST amount to decimal SUI. The conversion is exact.
func MistToSui(mist uint64) decimal.Decimal {
	return decimal.NewFromUint64(mist).Shift(-9)
}

// MistStringToSui converts a base-unit integer string, as carried by events
// and effects, to decimal SUI. Malformed input converts to 0; base units come
// from the chain and a display value must not fail an already-final
// transaction.
func MistStringToSui(mist string) decimal.Decimal {
	return MistToSui(ParseMist(mist))
}

// ParseMist parses a base-unit integer string, returning 0 for empty or
// malformed input.
func ParseMist(s string) uint64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
