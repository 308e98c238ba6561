package narrate

import (
	"context"
	"fmt"
	"strings"

	"trade-planner/internal/models"
)

// TemplateNarrator produces a deterministic rationale from the
// structured inputs. Same inputs, same sentence.
type TemplateNarrator struct{}

// NewTemplateNarrator creates a template narrator.
func NewTemplateNarrator() *TemplateNarrator {
	return &TemplateNarrator{}
}

func (t *TemplateNarrator) Name() string {
	return "template"
}

func (t *TemplateNarrator) Narrate(_ context.Context, in models.RationaleInputs) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s %s: %s trend on %s aligns with %s momentum on %s",
		in.Symbol, in.TradeType, in.Direction,
		in.Higher.TrendBias, in.Higher.Timeframe,
		in.Middle.MomentumBias, in.Middle.Timeframe)

	if in.Lower.TriggerFor(in.Direction) {
		fmt.Fprintf(&b, ", confirmed by a breakout trigger on %s.", in.Lower.Timeframe)
	} else {
		b.WriteString(".")
	}

	if applied := in.AppliedEdges(); len(applied) > 0 {
		names := make([]string, len(applied))
		for i, e := range applied {
			names[i] = edgeLabel(e.Name)
		}
		fmt.Fprintf(&b, " Supporting edges: %s.", strings.Join(names, ", "))
	} else {
		b.WriteString(" No supporting edges fired.")
	}

	for _, e := range in.Edges {
		if e.Name == models.EdgeDivergence && e.Applied {
			fmt.Fprintf(&b, " Caution: an opposing RSI divergence on %s reduces confidence.", in.Lower.Timeframe)
		}
	}

	return b.String(), nil
}

func edgeLabel(name string) string {
	switch name {
	case models.EdgeSlope:
		return "trend slope"
	case models.EdgeVolume:
		return "volume surge"
	case models.EdgePullback:
		return "healthy pullback"
	case models.EdgeVolatility:
		return "range expansion"
	default:
		return name
	}
}
