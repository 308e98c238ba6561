package planner

import (
	"fmt"
	"strings"

	"trade-planner/internal/analysis/risk"
	"trade-planner/internal/models"
)

// riskNotes renders the execution cautions attached to a candidate.
func riskNotes(tt models.TradeType, levels risk.Levels, marketTrend models.Bias) string {
	var notes []string

	riskDistance := levels.Entry - levels.Stop
	if riskDistance < 0 {
		riskDistance = -riskDistance
	}
	notes = append(notes, fmt.Sprintf("Risk %.2f per share (entry %.2f, stop %.2f)", riskDistance, levels.Entry, levels.Stop))
	notes = append(notes, "Size the position to risk 1-2% of capital")
	notes = append(notes, fmt.Sprintf("ATR %.2f", levels.ATR))

	if levels.ReducedTarget {
		notes = append(notes, "Target reduced: market context or volatility is unfavorable")
	}
	if marketTrend != models.BiasNeutral {
		notes = append(notes, fmt.Sprintf("Broad market reference is %s; monitor for regime change", marketTrend))
	}
	if tt == models.TradeDay {
		notes = append(notes, "Avoid entries during the midday low-volume window")
	}

	return strings.Join(notes, ". ")
}
