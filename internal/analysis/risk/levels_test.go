package risk

import (
	"errors"
	"math"
	"testing"
	"time"

	apperrors "trade-planner/internal/errors"
	"trade-planner/internal/models"
)

func steadyCandles(n int, price float64) []models.Candle {
	candles := make([]models.Candle, n)
	base := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		candles[i] = models.Candle{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Open:      price,
			High:      price + 0.5,
			Low:       price - 0.5,
			Close:     price,
			Volume:    1000,
		}
	}
	return candles
}

func TestComputeLongLevels(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	lower := models.Snapshot{Close: 100, ATR: 2}

	levels, err := calc.Compute(models.DirectionLong, steadyCandles(40, 100), lower, models.BiasNeutral, 4, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if levels.Entry != 100 {
		t.Errorf("entry = %v, want 100", levels.Entry)
	}
	if levels.Stop != 98 {
		t.Errorf("stop = %v, want 98", levels.Stop)
	}
	if levels.Target != 104 {
		t.Errorf("target = %v, want 104 (2R)", levels.Target)
	}
	if math.Abs(levels.RiskReward-2.0) > 1e-9 {
		t.Errorf("risk reward = %v, want 2.0", levels.RiskReward)
	}
	if levels.Target2 != 0 {
		t.Errorf("target2 = %v, want unset below max confidence", levels.Target2)
	}
	if levels.Stop >= levels.Entry || levels.Entry >= levels.Target {
		t.Error("long levels must satisfy stop < entry < target")
	}
}

func TestComputeShortLevels(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	lower := models.Snapshot{Close: 100, ATR: 2}

	levels, err := calc.Compute(models.DirectionShort, steadyCandles(40, 100), lower, models.BiasNeutral, 3, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if levels.Stop != 102 {
		t.Errorf("stop = %v, want 102", levels.Stop)
	}
	if levels.Target != 96 {
		t.Errorf("target = %v, want 96", levels.Target)
	}
	if levels.Target >= levels.Entry || levels.Entry >= levels.Stop {
		t.Error("short levels must satisfy target < entry < stop")
	}
}

func TestComputeExtensionTargetAtMaxConfidence(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	lower := models.Snapshot{Close: 100, ATR: 2}

	levels, err := calc.Compute(models.DirectionLong, steadyCandles(40, 100), lower, models.BiasNeutral, 5, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if levels.Target2 != 106 {
		t.Errorf("target2 = %v, want 106 (3R)", levels.Target2)
	}
}

func TestComputeReducedTargetOnOpposingMarket(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	lower := models.Snapshot{Close: 100, ATR: 2}

	levels, err := calc.Compute(models.DirectionLong, steadyCandles(40, 100), lower, models.BiasBearish, 4, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !levels.ReducedTarget {
		t.Error("opposing market trend should reduce the target")
	}
	if levels.Target != 103 {
		t.Errorf("target = %v, want 103 (1.5R)", levels.Target)
	}
	if math.Abs(levels.RiskReward-1.5) > 1e-9 {
		t.Errorf("risk reward = %v, want 1.5 after reduction", levels.RiskReward)
	}
}

func TestComputeReducedTargetOnElevatedVolatility(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	// A volatility spike at the end: the last several bars widen enough
	// to push the current ATR past 1.5x its trailing average.
	candles := steadyCandles(60, 100)
	for i := 50; i < 60; i++ {
		candles[i].High = 100 + 8
		candles[i].Low = 100 - 8
	}
	lower := models.Snapshot{Close: 100, ATR: 9}

	levels, err := calc.Compute(models.DirectionLong, candles, lower, models.BiasNeutral, 4, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !levels.ReducedTarget {
		t.Error("elevated volatility should reduce the target")
	}
}

func TestComputeMissingATR(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	lower := models.Snapshot{Close: 100, ATR: 0}

	_, err := calc.Compute(models.DirectionLong, steadyCandles(40, 100), lower, models.BiasNeutral, 4, 5)
	if !errors.Is(err, apperrors.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
