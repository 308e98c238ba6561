package signal

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "trade-planner/internal/errors"
	"trade-planner/internal/models"
)

func trendingCandles(n int, start, step float64, intraday bool) []models.Candle {
	candles := make([]models.Candle, n)
	base := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	interval := time.Minute
	if !intraday {
		interval = 24 * time.Hour
	}
	for i := 0; i < n; i++ {
		c := start + float64(i)*step
		candles[i] = models.Candle{
			Timestamp: base.Add(time.Duration(i) * interval),
			Open:      c - step/2,
			High:      c + 0.3,
			Low:       c - 0.3,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}

func TestClassifyUptrend(t *testing.T) {
	c := NewClassifier(5)
	candles := trendingCandles(60, 100, 1, true)

	snap, err := c.Classify(context.Background(), candles, models.Timeframe1Min, models.TierLower)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.TrendBias != models.BiasBullish {
		t.Errorf("trend bias = %v, want bullish", snap.TrendBias)
	}
	if snap.MomentumBias != models.BiasBullish {
		t.Errorf("momentum bias = %v, want bullish", snap.MomentumBias)
	}
	if snap.EMA20Slope <= 0 {
		t.Errorf("EMA20 slope = %v, want positive", snap.EMA20Slope)
	}
	if !snap.HasVWAP {
		t.Error("intraday timeframe should carry VWAP")
	}
	if !snap.TriggerEvaluated {
		t.Error("lower tier should evaluate entry triggers")
	}
	if !snap.LongTrigger {
		t.Error("rising closes stepping past prior highs should trigger long")
	}
	if snap.ShortTrigger {
		t.Error("rising series should not trigger short")
	}
}

func TestClassifyDowntrend(t *testing.T) {
	c := NewClassifier(5)
	candles := trendingCandles(60, 200, -1, false)

	snap, err := c.Classify(context.Background(), candles, models.TimeframeDay, models.TierHigher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.TrendBias != models.BiasBearish {
		t.Errorf("trend bias = %v, want bearish", snap.TrendBias)
	}
	if snap.MomentumBias != models.BiasBearish {
		t.Errorf("momentum bias = %v, want bearish", snap.MomentumBias)
	}
	if snap.HasVWAP {
		t.Error("daily timeframe should not carry VWAP")
	}
	if snap.TriggerEvaluated {
		t.Error("higher tier should not evaluate entry triggers")
	}
}

func TestClassifyInsufficientData(t *testing.T) {
	c := NewClassifier(5)
	candles := trendingCandles(20, 100, 1, true)

	_, err := c.Classify(context.Background(), candles, models.Timeframe1Min, models.TierLower)
	if !errors.Is(err, apperrors.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestTriggerForDirection(t *testing.T) {
	snap := models.Snapshot{TriggerEvaluated: true, LongTrigger: true}
	if !snap.TriggerFor(models.DirectionLong) {
		t.Error("long trigger should satisfy long direction")
	}
	if snap.TriggerFor(models.DirectionShort) {
		t.Error("long trigger should not satisfy short direction")
	}
}
