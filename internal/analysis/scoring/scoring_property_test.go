package scoring

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"trade-planner/internal/models"
)

func biasGen() gopter.Gen {
	return gen.OneConstOf(models.BiasBullish, models.BiasBearish, models.BiasNeutral)
}

func directionGen() gopter.Gen {
	return gen.OneConstOf(models.DirectionLong, models.DirectionShort)
}

func TestProperty_ScoreWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("score is always within [0, 5]", prop.ForAll(
		func(d models.Direction, trend, momentum models.Bias, longTrig, shortTrig, slope, volume, pullback, volatility, divergence bool) bool {
			scorer := NewConfidenceScorer()
			higher := models.Snapshot{TrendBias: trend}
			middle := models.Snapshot{MomentumBias: momentum}
			lower := models.Snapshot{TriggerEvaluated: true, LongTrigger: longTrig, ShortTrigger: shortTrig}
			edges := []models.EdgeResult{
				{Name: models.EdgeSlope, Applied: slope},
				{Name: models.EdgeVolume, Applied: volume},
				{Name: models.EdgePullback, Applied: pullback},
				{Name: models.EdgeVolatility, Applied: volatility},
				{Name: models.EdgeDivergence, Applied: divergence},
			}
			score := scorer.Score(d, higher, middle, lower, edges)
			return score >= MinConfidence && score <= MaxConfidence
		},
		directionGen(), biasGen(), biasGen(),
		gen.Bool(), gen.Bool(), gen.Bool(), gen.Bool(), gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProperty_AddingPositiveEdgeNeverLowersScore(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("turning on a positive edge never decreases the score", prop.ForAll(
		func(d models.Direction, trend, momentum models.Bias, trigger, volume, divergence bool) bool {
			scorer := NewConfidenceScorer()
			higher := models.Snapshot{TrendBias: trend}
			middle := models.Snapshot{MomentumBias: momentum}
			lower := models.Snapshot{TriggerEvaluated: true, LongTrigger: trigger, ShortTrigger: trigger}

			without := []models.EdgeResult{
				{Name: models.EdgeSlope, Applied: false},
				{Name: models.EdgeVolume, Applied: volume},
				{Name: models.EdgeDivergence, Applied: divergence},
			}
			with := []models.EdgeResult{
				{Name: models.EdgeSlope, Applied: true},
				{Name: models.EdgeVolume, Applied: volume},
				{Name: models.EdgeDivergence, Applied: divergence},
			}
			return scorer.Score(d, higher, middle, lower, with) >= scorer.Score(d, higher, middle, lower, without)
		},
		directionGen(), biasGen(), biasGen(),
		gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProperty_DivergenceNeverRaisesScore(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("an opposing divergence never increases the score", prop.ForAll(
		func(d models.Direction, trend, momentum models.Bias, trigger, slope, volume bool) bool {
			scorer := NewConfidenceScorer()
			higher := models.Snapshot{TrendBias: trend}
			middle := models.Snapshot{MomentumBias: momentum}
			lower := models.Snapshot{TriggerEvaluated: true, LongTrigger: trigger, ShortTrigger: trigger}

			base := []models.EdgeResult{
				{Name: models.EdgeSlope, Applied: slope},
				{Name: models.EdgeVolume, Applied: volume},
				{Name: models.EdgeDivergence, Applied: false},
			}
			penalized := []models.EdgeResult{
				{Name: models.EdgeSlope, Applied: slope},
				{Name: models.EdgeVolume, Applied: volume},
				{Name: models.EdgeDivergence, Applied: true},
			}
			return scorer.Score(d, higher, middle, lower, penalized) <= scorer.Score(d, higher, middle, lower, base)
		},
		directionGen(), biasGen(), biasGen(),
		gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.TestingRun(t)
}
