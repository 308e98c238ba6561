package cli

import (
	"fmt"
	"strings"

	"trade-planner/internal/analysis/planner"
	"trade-planner/internal/models"
)

// printResult renders the analysis result as candidate cards followed
// by the skipped trade types.
func printResult(output *Output, result planner.Result, rationales map[int]string) {
	output.Bold("Trade plan: %s", result.Symbol)
	output.Println()

	if len(result.Candidates) == 0 {
		output.Warning("No trade plan candidates")
	}

	for i, c := range result.Candidates {
		printCandidate(output, i+1, c, rationales[i])
	}

	if len(result.Skipped) > 0 {
		output.Println()
		output.Bold("Skipped")
		for _, s := range result.Skipped {
			output.Printf("  %s: %s", s.TradeType, s.Reason)
			if s.Detail != "" {
				output.Printf(" (%s)", output.Dim(s.Detail))
			}
			output.Println()
		}
	}
}

func printCandidate(output *Output, rank int, c models.TradePlanCandidate, rationale string) {
	header := fmt.Sprintf("#%d %s %s", rank, strings.ToUpper(string(c.Direction)), c.TradeType)
	output.Println(output.DirectionText(string(c.Direction), header))

	output.Printf("  Confidence  %s\n", confidenceBar(output, c.Confidence))
	output.Printf("  Entry       %s\n", FormatPrice(c.Entry))
	output.Printf("  Stop        %s\n", FormatPrice(c.Stop))
	output.Printf("  Target      %s  (%.1fR)\n", FormatPrice(c.Target), c.RiskReward)
	if c.HasTarget2() {
		output.Printf("  Target 2    %s\n", FormatPrice(c.Target2))
	}
	output.Printf("  ATR         %s\n", FormatPrice(c.ATR))

	var applied, missed []string
	for _, e := range c.Edges {
		if e.Applied {
			applied = append(applied, string(e.Name))
		} else if e.Detail != models.EdgeDetailNotApplicable {
			missed = append(missed, string(e.Name))
		}
	}
	if len(applied) > 0 {
		output.Printf("  Edges       %s\n", output.Green(strings.Join(applied, ", ")))
	}
	if len(missed) > 0 {
		output.Printf("  Missing     %s\n", output.Dim(strings.Join(missed, ", ")))
	}

	if rationale != "" {
		output.Printf("  Rationale   %s\n", rationale)
	}
	if c.RiskNotes != "" {
		output.Printf("  Risk        %s\n", c.RiskNotes)
	}
	output.Println()
}

// confidenceBar renders the confidence score as filled and empty slots.
func confidenceBar(output *Output, confidence int) string {
	filled := strings.Repeat("*", confidence)
	empty := strings.Repeat(".", 5-confidence)
	bar := fmt.Sprintf("[%s%s] %d/5", filled, empty, confidence)
	switch {
	case confidence >= 4:
		return output.Green(bar)
	case confidence >= 2:
		return output.Yellow(bar)
	default:
		return output.Red(bar)
	}
}

// FormatPrice formats a price with two decimal places.
func FormatPrice(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

// FormatPercent formats a ratio as a signed percentage.
func FormatPercent(value float64) string {
	return fmt.Sprintf("%+.2f%%", value*100)
}
