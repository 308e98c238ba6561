package planner

import (
	"context"
	"reflect"
	"testing"
	"time"

	"trade-planner/internal/models"
)

// trendCandles builds a strictly trending series: each close steps by
// step, bars carry a 0.6 range and constant volume. The last bar gets
// a volume spike and a widened range so breakout, volume and
// volatility conditions fire on lower-tier series.
func trendCandles(n int, start, step float64, interval time.Duration, spikeLast bool) []models.Candle {
	candles := make([]models.Candle, n)
	base := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
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
	if spikeLast {
		last := n - 1
		candles[last].Volume = 2500
		candles[last].High = candles[last].Close + 1.0
		candles[last].Low = candles[last].Close - 1.0
	}
	return candles
}

func daySeries(step float64) map[models.Timeframe][]models.Candle {
	return map[models.Timeframe][]models.Candle{
		models.Timeframe30Min: trendCandles(60, 100, step, 30*time.Minute, false),
		models.TimeframeDay:   trendCandles(60, 100, step, 24*time.Hour, false),
		models.Timeframe1Min:  trendCandles(60, 100, step, time.Minute, true),
	}
}

func fullSeries(step float64) map[models.Timeframe][]models.Candle {
	series := daySeries(step)
	series[models.TimeframeWeek] = trendCandles(60, 100, step, 7*24*time.Hour, false)
	series[models.Timeframe4Hour] = trendCandles(60, 100, step, 4*time.Hour, true)
	return series
}

func TestAnalyzeFullBullishAlignment(t *testing.T) {
	p := New(DefaultConfig())
	result := p.Analyze(context.Background(), Request{
		Symbol:     "AAPL",
		Series:     daySeries(1),
		TradeTypes: []models.TradeType{models.TradeDay},
	})

	if len(result.Skipped) != 0 {
		t.Fatalf("unexpected skips: %+v", result.Skipped)
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(result.Candidates))
	}

	c := result.Candidates[0]
	if c.Direction != models.DirectionLong {
		t.Errorf("direction = %v, want long", c.Direction)
	}
	if c.Confidence != 5 {
		t.Errorf("confidence = %d, want 5", c.Confidence)
	}
	if c.RiskReward < 1.99 || c.RiskReward > 2.01 {
		t.Errorf("risk reward = %v, want 2.0", c.RiskReward)
	}
	if !c.HasTarget2() {
		t.Error("max confidence should set the extension target")
	}
	if !(c.Stop < c.Entry && c.Entry < c.Target && c.Target < c.Target2) {
		t.Errorf("long levels out of order: stop=%v entry=%v target=%v target2=%v",
			c.Stop, c.Entry, c.Target, c.Target2)
	}
	if c.RiskNotes == "" {
		t.Error("risk notes should not be empty")
	}
	if c.Rationale.Symbol != "AAPL" || len(c.Rationale.Edges) != 5 {
		t.Errorf("rationale incomplete: %+v", c.Rationale)
	}
}

func TestAnalyzeBearishShort(t *testing.T) {
	p := New(DefaultConfig())
	result := p.Analyze(context.Background(), Request{
		Symbol:     "TSLA",
		Series:     daySeries(-1),
		TradeTypes: []models.TradeType{models.TradeDay},
	})

	if len(result.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1 (skips: %+v)", len(result.Candidates), result.Skipped)
	}
	c := result.Candidates[0]
	if c.Direction != models.DirectionShort {
		t.Errorf("direction = %v, want short", c.Direction)
	}
	if !(c.Target < c.Entry && c.Entry < c.Stop) {
		t.Errorf("short levels out of order: target=%v entry=%v stop=%v", c.Target, c.Entry, c.Stop)
	}
}

func TestAnalyzeTimeframeConflict(t *testing.T) {
	series := daySeries(1)
	series[models.TimeframeDay] = trendCandles(60, 200, -1, 24*time.Hour, false)

	p := New(DefaultConfig())
	result := p.Analyze(context.Background(), Request{
		Symbol:     "NVDA",
		Series:     series,
		TradeTypes: []models.TradeType{models.TradeDay},
	})

	if len(result.Candidates) != 0 {
		t.Fatalf("expected no candidates, got %+v", result.Candidates)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("got %d skips, want 1", len(result.Skipped))
	}
	if result.Skipped[0].Reason != models.ReasonTimeframeConflict {
		t.Errorf("reason = %v, want timeframe_conflict", result.Skipped[0].Reason)
	}
}

func TestAnalyzeMissingSwingSeries(t *testing.T) {
	p := New(DefaultConfig())
	result := p.Analyze(context.Background(), Request{
		Symbol: "MSFT",
		Series: daySeries(1),
	})

	if len(result.Candidates) != 1 {
		t.Fatalf("day candidate missing: %+v", result.Skipped)
	}
	if result.Candidates[0].TradeType != models.TradeDay {
		t.Errorf("candidate trade type = %v, want day", result.Candidates[0].TradeType)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("got %d skips, want 1", len(result.Skipped))
	}
	skip := result.Skipped[0]
	if skip.TradeType != models.TradeSwing || skip.Reason != models.ReasonInsufficientData {
		t.Errorf("skip = %+v, want swing insufficient_data", skip)
	}
}

func TestAnalyzeMalformedInput(t *testing.T) {
	series := daySeries(1)
	series[models.Timeframe1Min][10].Close = -5

	p := New(DefaultConfig())
	result := p.Analyze(context.Background(), Request{
		Symbol:     "AMD",
		Series:     series,
		TradeTypes: []models.TradeType{models.TradeDay},
	})

	if len(result.Candidates) != 0 {
		t.Fatal("malformed series must not produce a candidate")
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Reason != models.ReasonMalformedInput {
		t.Fatalf("skips = %+v, want one malformed_input", result.Skipped)
	}
	if result.Skipped[0].Detail == "" {
		t.Error("malformed_input skip should carry the validation detail")
	}
}

func TestAnalyzeNoTrigger(t *testing.T) {
	series := daySeries(1)
	// Blunt the final bar so the close stays inside the prior 3-bar range.
	lower := series[models.Timeframe1Min]
	last := len(lower) - 1
	lower[last].Close = lower[last-1].Close - 0.1
	lower[last].High = lower[last].Close + 0.2
	lower[last].Low = lower[last].Close - 0.2
	lower[last].Open = lower[last].Close

	cfg := DefaultConfig()
	cfg.RequireTrigger = true
	p := New(cfg)
	result := p.Analyze(context.Background(), Request{
		Symbol:     "META",
		Series:     series,
		TradeTypes: []models.TradeType{models.TradeDay},
	})

	if len(result.Candidates) != 0 {
		t.Fatalf("expected no candidates, got %+v", result.Candidates)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Reason != models.ReasonNoTrigger {
		t.Fatalf("skips = %+v, want one no_trigger", result.Skipped)
	}
}

func TestAnalyzeOpposingMarketBiasReducesTarget(t *testing.T) {
	p := New(DefaultConfig())
	result := p.Analyze(context.Background(), Request{
		Symbol:     "AAPL",
		Series:     daySeries(1),
		TradeTypes: []models.TradeType{models.TradeDay},
		MarketBias: trendCandles(60, 500, -1, 24*time.Hour, false),
	})

	if len(result.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1 (skips: %+v)", len(result.Candidates), result.Skipped)
	}
	c := result.Candidates[0]
	if c.RiskReward < 1.49 || c.RiskReward > 1.51 {
		t.Errorf("risk reward = %v, want 1.5 against an opposing market", c.RiskReward)
	}
}

func TestAnalyzeRankingDayBeforeSwingOnTie(t *testing.T) {
	p := New(DefaultConfig())
	result := p.Analyze(context.Background(), Request{
		Symbol: "GOOG",
		Series: fullSeries(1),
	})

	if len(result.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2 (skips: %+v)", len(result.Candidates), result.Skipped)
	}
	first, second := result.Candidates[0], result.Candidates[1]
	if first.Confidence < second.Confidence {
		t.Error("candidates not sorted by confidence descending")
	}
	if first.Confidence == second.Confidence && first.RiskReward == second.RiskReward {
		if first.TradeType != models.TradeDay {
			t.Errorf("tie should rank day before swing, got %v first", first.TradeType)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	p := New(DefaultConfig())
	req := Request{Symbol: "AAPL", Series: fullSeries(1)}

	first := p.Analyze(context.Background(), req)
	second := p.Analyze(context.Background(), req)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical input must produce identical output")
	}
}

func TestValidateSeries(t *testing.T) {
	good := trendCandles(10, 100, 1, time.Minute, false)
	if err := validateSeries(models.Timeframe1Min, good); err != nil {
		t.Errorf("valid series rejected: %v", err)
	}

	inverted := trendCandles(10, 100, 1, time.Minute, false)
	inverted[4].High, inverted[4].Low = inverted[4].Low, inverted[4].High
	if err := validateSeries(models.Timeframe1Min, inverted); err == nil {
		t.Error("inverted bar should be rejected")
	}

	outOfOrder := trendCandles(10, 100, 1, time.Minute, false)
	outOfOrder[5].Timestamp = outOfOrder[4].Timestamp
	if err := validateSeries(models.Timeframe1Min, outOfOrder); err == nil {
		t.Error("duplicate timestamp should be rejected")
	}

	negativeVolume := trendCandles(10, 100, 1, time.Minute, false)
	negativeVolume[2].Volume = -1
	if err := validateSeries(models.Timeframe1Min, negativeVolume); err == nil {
		t.Error("negative volume should be rejected")
	}
}
