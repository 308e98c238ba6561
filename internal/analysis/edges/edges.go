// Package edges evaluates the confirming-edge checks that feed the
// confidence score. Edges never fail: an edge that cannot be evaluated
// for the given trade type reports not_applicable instead of erroring.
package edges

import (
	"fmt"

	"trade-planner/internal/analysis/indicators"
	"trade-planner/internal/models"
)

// Config holds the edge thresholds.
type Config struct {
	SlopeThreshold     float64 // percent, applied symmetrically per direction
	VolumeMultiple     float64
	VolumeLookback     int
	VolatilityMultiple float64
	PullbackRSILow     float64 // long band lower bound, short band mirrors around 50
	PullbackRSIHigh    float64
	DivergenceLookback int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		SlopeThreshold:     0.1,
		VolumeMultiple:     1.5,
		VolumeLookback:     10,
		VolatilityMultiple: 1.25,
		PullbackRSILow:     45,
		PullbackRSIHigh:    65,
		DivergenceLookback: 10,
	}
}

// Input carries everything edge evaluation needs for one trade type.
type Input struct {
	TradeType    models.TradeType
	Direction    models.Direction
	Higher       models.Snapshot
	Middle       models.Snapshot
	Lower        models.Snapshot
	LowerCandles []models.Candle
}

// Evaluator runs the edge checks against classified snapshots.
type Evaluator struct {
	cfg Config
}

// NewEvaluator creates an evaluator with the given thresholds.
func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate runs all edges in a fixed order so output is deterministic.
// The divergence edge is a penalty: Applied means an opposing
// divergence was found and the score should be reduced.
func (e *Evaluator) Evaluate(in Input) []models.EdgeResult {
	return []models.EdgeResult{
		e.slope(in),
		e.volume(in),
		e.pullback(in),
		e.volatility(in),
		e.divergence(in),
	}
}

// slope checks that the higher timeframe EMA20 is sloping in the trade
// direction by more than the threshold.
func (e *Evaluator) slope(in Input) models.EdgeResult {
	slope := in.Higher.EMA20Slope
	applied := false
	switch in.Direction {
	case models.DirectionLong:
		applied = slope > e.cfg.SlopeThreshold
	case models.DirectionShort:
		applied = slope < -e.cfg.SlopeThreshold
	}
	return models.EdgeResult{
		Name:    models.EdgeSlope,
		Applied: applied,
		Detail:  fmt.Sprintf("ema20_slope=%+.3f%% threshold=%.3f%%", slope, e.cfg.SlopeThreshold),
	}
}

// volume checks that the latest lower-timeframe bar traded well above
// its recent average.
func (e *Evaluator) volume(in Input) models.EdgeResult {
	avg, err := indicators.AverageVolume(in.LowerCandles, e.cfg.VolumeLookback)
	if err != nil || avg == 0 {
		return models.EdgeResult{Name: models.EdgeVolume, Detail: models.EdgeDetailNotApplicable}
	}
	latest := float64(in.Lower.Volume)
	ratio := latest / avg
	return models.EdgeResult{
		Name:    models.EdgeVolume,
		Applied: ratio > e.cfg.VolumeMultiple,
		Detail:  fmt.Sprintf("volume_ratio=%.2f threshold=%.2f", ratio, e.cfg.VolumeMultiple),
	}
}

// pullback checks for a healthy retracement on the middle timeframe:
// price holding the favorable side of VWAP with RSI in the pullback
// band rather than at an extreme. Structurally requires VWAP, so
// configurations with a non-intraday middle timeframe skip it.
func (e *Evaluator) pullback(in Input) models.EdgeResult {
	if !in.Middle.HasVWAP {
		return models.EdgeResult{Name: models.EdgePullback, Detail: models.EdgeDetailNotApplicable}
	}

	rsi := in.Middle.RSI
	applied := false
	switch in.Direction {
	case models.DirectionLong:
		applied = in.Middle.Close > in.Middle.VWAP &&
			rsi > e.cfg.PullbackRSILow && rsi < e.cfg.PullbackRSIHigh
	case models.DirectionShort:
		low, high := 100-e.cfg.PullbackRSIHigh, 100-e.cfg.PullbackRSILow
		applied = in.Middle.Close < in.Middle.VWAP &&
			rsi > low && rsi < high
	}
	return models.EdgeResult{
		Name:    models.EdgePullback,
		Applied: applied,
		Detail:  fmt.Sprintf("close=%.2f vwap=%.2f rsi=%.1f", in.Middle.Close, in.Middle.VWAP, rsi),
	}
}

// volatility checks that the latest lower-timeframe bar's range expanded
// beyond its ATR, signalling genuine participation in the move.
func (e *Evaluator) volatility(in Input) models.EdgeResult {
	if len(in.LowerCandles) == 0 || in.Lower.ATR <= 0 {
		return models.EdgeResult{Name: models.EdgeVolatility, Detail: models.EdgeDetailNotApplicable}
	}
	latest := in.LowerCandles[len(in.LowerCandles)-1]
	barRange := latest.High - latest.Low
	ratio := barRange / in.Lower.ATR
	return models.EdgeResult{
		Name:    models.EdgeVolatility,
		Applied: ratio > e.cfg.VolatilityMultiple,
		Detail:  fmt.Sprintf("range_atr_ratio=%.2f threshold=%.2f", ratio, e.cfg.VolatilityMultiple),
	}
}

// divergence flags an RSI divergence opposing the trade direction on
// the lower timeframe. Applied here means penalty.
func (e *Evaluator) divergence(in Input) models.EdgeResult {
	rsiValues, err := indicators.NewRSI(14).Calculate(in.LowerCandles)
	if err != nil {
		return models.EdgeResult{Name: models.EdgeDivergence, Detail: models.EdgeDetailNotApplicable}
	}

	closes := make([]float64, len(in.LowerCandles))
	for i, c := range in.LowerCandles {
		closes[i] = c.Close
	}

	signal, err := indicators.DetectDivergence(closes, rsiValues, e.cfg.DivergenceLookback)
	if err != nil {
		return models.EdgeResult{Name: models.EdgeDivergence, Detail: models.EdgeDetailNotApplicable}
	}

	opposing := (in.Direction == models.DirectionLong && signal == indicators.DivergenceBearish) ||
		(in.Direction == models.DirectionShort && signal == indicators.DivergenceBullish)
	return models.EdgeResult{
		Name:    models.EdgeDivergence,
		Applied: opposing,
		Detail:  fmt.Sprintf("divergence=%s", signal),
	}
}
