// Package scoring turns tier alignment and edge results into an
// integer confidence score.
package scoring

import "trade-planner/internal/models"

const (
	// MinConfidence and MaxConfidence bound the score.
	MinConfidence = 0
	MaxConfidence = 5
)

// ConfidenceScorer composes the tier and edge components into a score
// in [0, 5]. Scoring is pure: same inputs, same score.
type ConfidenceScorer struct{}

// NewConfidenceScorer creates a scorer.
func NewConfidenceScorer() *ConfidenceScorer {
	return &ConfidenceScorer{}
}

// Score computes the confidence for a directional setup.
// Components: +1 higher-tier trend agreement, +1 middle-tier momentum
// agreement, +1 lower-tier entry trigger, +1 for at least one positive
// edge, +1 more for two or more, -1 for an opposing divergence.
func (s *ConfidenceScorer) Score(direction models.Direction, higher, middle, lower models.Snapshot, edges []models.EdgeResult) int {
	score := 0
	want := biasFor(direction)

	if higher.TrendBias == want {
		score++
	}
	if middle.MomentumBias == want {
		score++
	}
	if lower.TriggerFor(direction) {
		score++
	}

	positive := PositiveEdges(edges)
	if positive >= 1 {
		score++
	}
	if positive >= 2 {
		score++
	}

	if divergencePenalty(edges) {
		score--
	}

	return clamp(score, MinConfidence, MaxConfidence)
}

// PositiveEdges counts the applied edges excluding the divergence
// penalty flag.
func PositiveEdges(edges []models.EdgeResult) int {
	count := 0
	for _, e := range edges {
		if e.Applied && e.Name != models.EdgeDivergence {
			count++
		}
	}
	return count
}

func divergencePenalty(edges []models.EdgeResult) bool {
	for _, e := range edges {
		if e.Name == models.EdgeDivergence && e.Applied {
			return true
		}
	}
	return false
}

func biasFor(d models.Direction) models.Bias {
	if d == models.DirectionShort {
		return models.BiasBearish
	}
	return models.BiasBullish
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
