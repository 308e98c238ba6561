// Package signal classifies a single timeframe's candle series into a
// snapshot of trend, momentum and entry-trigger state.
package signal

import (
	"context"
	"fmt"

	"trade-planner/internal/analysis/indicators"
	apperrors "trade-planner/internal/errors"
	"trade-planner/internal/models"
)

const (
	emaFastPeriod = 20
	emaSlowPeriod = 50
	rsiPeriod     = 14
	atrPeriod     = 14

	rsiBullish = 55.0
	rsiBearish = 45.0
)

// Classifier computes indicator snapshots for one timeframe at a time.
// The same classifier is shared across tiers; tier-specific behavior
// (VWAP, entry triggers) keys off the timeframe and role passed in.
type Classifier struct {
	engine        *indicators.Engine
	slopeLookback int
}

// NewClassifier creates a classifier with the standard indicator set
// registered. slopeLookback controls the EMA slope window.
func NewClassifier(slopeLookback int) *Classifier {
	if slopeLookback <= 0 {
		slopeLookback = 5
	}

	engine := indicators.NewEngine(4)
	engine.RegisterIndicator(indicators.NewEMA(emaFastPeriod))
	engine.RegisterIndicator(indicators.NewEMA(emaSlowPeriod))
	engine.RegisterIndicator(indicators.NewRSI(rsiPeriod))
	engine.RegisterIndicator(indicators.NewATR(atrPeriod))
	engine.RegisterIndicator(indicators.NewVWAP(true))

	return &Classifier{
		engine:        engine,
		slopeLookback: slopeLookback,
	}
}

// MinBars returns the minimum series length Classify accepts.
func (c *Classifier) MinBars() int {
	return c.engine.RequiredBars()
}

// Classify computes the snapshot for one timeframe series.
func (c *Classifier) Classify(ctx context.Context, candles []models.Candle, tf models.Timeframe, role models.TierRole) (models.Snapshot, error) {
	if len(candles) < c.MinBars() {
		return models.Snapshot{}, fmt.Errorf("%w: %s has %d bars, need %d",
			apperrors.ErrInsufficientData, tf, len(candles), c.MinBars())
	}

	results, err := c.engine.CalculateAll(ctx, candles)
	if err != nil {
		return models.Snapshot{}, err
	}

	ema20, ok := results[fmt.Sprintf("EMA_%d", emaFastPeriod)]
	if !ok {
		return models.Snapshot{}, fmt.Errorf("%w: EMA_%d unavailable for %s", apperrors.ErrInsufficientData, emaFastPeriod, tf)
	}
	ema50, ok := results[fmt.Sprintf("EMA_%d", emaSlowPeriod)]
	if !ok {
		return models.Snapshot{}, fmt.Errorf("%w: EMA_%d unavailable for %s", apperrors.ErrInsufficientData, emaSlowPeriod, tf)
	}
	rsi, ok := results[fmt.Sprintf("RSI_%d", rsiPeriod)]
	if !ok {
		return models.Snapshot{}, fmt.Errorf("%w: RSI_%d unavailable for %s", apperrors.ErrInsufficientData, rsiPeriod, tf)
	}
	atr, ok := results[fmt.Sprintf("ATR_%d", atrPeriod)]
	if !ok {
		return models.Snapshot{}, fmt.Errorf("%w: ATR_%d unavailable for %s", apperrors.ErrInsufficientData, atrPeriod, tf)
	}

	last := len(candles) - 1
	latest := candles[last]

	snapshot := models.Snapshot{
		Timeframe:    tf,
		Role:         role,
		EMA20:        ema20[last],
		EMA50:        ema50[last],
		RSI:          rsi[last],
		ATR:          atr[last],
		Close:        latest.Close,
		Volume:       latest.Volume,
		TrendBias:    trendBias(ema20[last], ema50[last]),
		MomentumBias: momentumBias(rsi[last]),
	}

	if slope, err := indicators.SlopePct(ema20, c.slopeLookback); err == nil {
		snapshot.EMA20Slope = slope
	}

	if tf.Intraday() {
		if vwap, ok := results["VWAP"]; ok {
			snapshot.VWAP = vwap[last]
			snapshot.HasVWAP = true
		}
	}

	if role == models.TierLower {
		snapshot.TriggerEvaluated = true
		if breakout, err := indicators.ThreeBarBreakout(candles, models.DirectionLong); err == nil {
			snapshot.LongTrigger = breakout && latest.Close > snapshot.EMA20
		}
		if breakout, err := indicators.ThreeBarBreakout(candles, models.DirectionShort); err == nil {
			snapshot.ShortTrigger = breakout && latest.Close < snapshot.EMA20
		}
	}

	return snapshot, nil
}

func trendBias(ema20, ema50 float64) models.Bias {
	switch {
	case ema20 > ema50:
		return models.BiasBullish
	case ema20 < ema50:
		return models.BiasBearish
	default:
		return models.BiasNeutral
	}
}

func momentumBias(rsi float64) models.Bias {
	switch {
	case rsi > rsiBullish:
		return models.BiasBullish
	case rsi < rsiBearish:
		return models.BiasBearish
	default:
		return models.BiasNeutral
	}
}
