// Package risk derives entry, stop and target levels from ATR.
package risk

import (
	"fmt"

	"trade-planner/internal/analysis/indicators"
	apperrors "trade-planner/internal/errors"
	"trade-planner/internal/models"
)

const atrPeriod = 14

// Config holds the level calculation parameters, all in R multiples of
// the ATR-based risk distance.
type Config struct {
	ATRStopMultiple  float64
	TargetR          float64
	ReducedTargetR   float64
	ElevatedVolRatio float64
	ExtensionTargetR float64
}

// DefaultConfig returns the standard risk parameters.
func DefaultConfig() Config {
	return Config{
		ATRStopMultiple:  1.0,
		TargetR:          2.0,
		ReducedTargetR:   1.5,
		ElevatedVolRatio: 1.5,
		ExtensionTargetR: 3.0,
	}
}

// Levels is the price geometry of a plan candidate.
type Levels struct {
	Entry         float64
	Stop          float64
	Target        float64
	Target2       float64 // zero when no extension target applies
	RiskReward    float64
	ATR           float64
	ReducedTarget bool
}

// Calculator computes levels for classified setups.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator with the given parameters.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Compute derives the levels for one candidate. The target is reduced
// from the standard multiple when the broad market reference opposes
// the trade direction or when current volatility is elevated against
// its own history. The extension target is set only at maximum
// confidence. RiskReward is recomputed from the final levels.
func (c *Calculator) Compute(direction models.Direction, lowerCandles []models.Candle, lower models.Snapshot, marketTrend models.Bias, confidence int, maxConfidence int) (Levels, error) {
	if lower.ATR <= 0 {
		return Levels{}, fmt.Errorf("%w: ATR unavailable for level calculation", apperrors.ErrInsufficientData)
	}

	entry := lower.Close
	riskDistance := lower.ATR * c.cfg.ATRStopMultiple
	if riskDistance <= 0 {
		return Levels{}, fmt.Errorf("%w: zero risk distance", apperrors.ErrInsufficientData)
	}

	targetR := c.cfg.TargetR
	reduced := c.opposingMarket(direction, marketTrend) || c.elevatedVolatility(lowerCandles, lower.ATR)
	if reduced {
		targetR = c.cfg.ReducedTargetR
	}

	levels := Levels{
		Entry:         entry,
		ATR:           lower.ATR,
		ReducedTarget: reduced,
	}

	sign := 1.0
	if direction == models.DirectionShort {
		sign = -1.0
	}

	levels.Stop = entry - sign*riskDistance
	levels.Target = entry + sign*targetR*riskDistance
	if confidence >= maxConfidence {
		levels.Target2 = entry + sign*c.cfg.ExtensionTargetR*riskDistance
	}

	risk := abs(entry - levels.Stop)
	if risk > 0 {
		levels.RiskReward = abs(levels.Target-entry) / risk
	}

	return levels, nil
}

func (c *Calculator) opposingMarket(direction models.Direction, marketTrend models.Bias) bool {
	switch direction {
	case models.DirectionLong:
		return marketTrend == models.BiasBearish
	case models.DirectionShort:
		return marketTrend == models.BiasBullish
	}
	return false
}

// elevatedVolatility compares the current ATR against the mean of its
// own trailing window, excluding the latest value. Short histories
// never report elevated.
func (c *Calculator) elevatedVolatility(candles []models.Candle, currentATR float64) bool {
	values, err := indicators.NewATR(atrPeriod).Calculate(candles)
	if err != nil {
		return false
	}

	n := len(values)
	// The trailing window must sit entirely past the ATR warmup.
	if n-1-atrPeriod < atrPeriod-1 {
		return false
	}

	var total float64
	for _, v := range values[n-1-atrPeriod : n-1] {
		total += v
	}
	average := total / float64(atrPeriod)
	if average <= 0 {
		return false
	}

	return currentATR > c.cfg.ElevatedVolRatio*average
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
