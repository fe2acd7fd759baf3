package baucua

import (
	"fmt"
	"strings"
)

// DiceDisplay is a rolled outcome rendered in a few ready-to-show formats.
type DiceDisplay struct {
	Compact  string `json:"compact"`  // "🐟 🦐 🦀"
	Detailed string `json:"detailed"` // "2 → Fish 🐟 | 1 → Shrimp 🦐 | 4 → Crab 🦀"
	WinLoss  string `json:"winLoss"`
}

// FormatDice renders a game result for display.
func FormatDice(result *GameResult) DiceDisplay {
	emojis := make([]string, len(result.Dice))
	details := make([]string, len(result.Dice))
	for i, n := range result.Dice {
		sym, _ := SymbolByIndex(n)
		emojis[i] = sym.Emoji
		details[i] = fmt.Sprintf("%d → %s %s", n, sym.Name, sym.Emoji)
	}

	winLoss := fmt.Sprintf("Lost %s SUI", result.TotalBetSui().StringFixed(4))
	if result.IsWin() {
		winLoss = fmt.Sprintf("Won %s SUI!", result.WinningsSui().StringFixed(4))
	}

	return DiceDisplay{
		Compact:  strings.Join(emojis, " "),
		Detailed: strings.Join(details, " | "),
		WinLoss:  winLoss,
	}
}

// SymbolMatch is one symbol appearing two or more times in a roll.
type SymbolMatch struct {
	SymbolID string `json:"symbolId"`
	Count    int    `json:"count"`
	Emoji    string `json:"emoji"`
}

// DiceAnalysis summarizes repeated symbols in a roll.
type DiceAnalysis struct {
	Matches      []SymbolMatch `json:"matches"`
	IsTriple     bool          `json:"isTriple"`
	IsPair       bool          `json:"isPair"`
	TotalMatches int           `json:"totalMatches"`
}

// AnalyzeDice finds pairs and triples in a rolled outcome.
func AnalyzeDice(dice []int) DiceAnalysis {
	counts := make(map[int]int)
	for _, n := range dice {
		counts[n]++
	}

	var analysis DiceAnalysis
	// Walk board order so the output is deterministic.
	for _, sym := range symbols {
		count := counts[sym.ContractIndex]
		if count < 2 {
			continue
		}
		analysis.Matches = append(analysis.Matches, SymbolMatch{
			SymbolID: sym.ID,
			Count:    count,
			Emoji:    sym.Emoji,
		})
		analysis.TotalMatches += count
		if count == 2 {
			analysis.IsPair = true
		}
		if count >= 3 {
			analysis.IsTriple = true
		}
	}
	return analysis
}
