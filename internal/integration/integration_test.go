// Package integration provides end-to-end tests across the data,
// analysis, narration and persistence layers.
package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"trade-planner/internal/analysis/planner"
	"trade-planner/internal/data"
	"trade-planner/internal/models"
	"trade-planner/internal/narrate"
	"trade-planner/internal/store"
)

// writeTrendCSV writes a strictly trending series to
// <dir>/<symbol>_<tf>.csv. The last bar optionally carries a volume
// spike and widened range so lower-tier trigger and edge conditions
// fire.
func writeTrendCSV(t *testing.T, dir, symbol string, tf models.Timeframe, n int, start, step float64, interval time.Duration, spikeLast bool) {
	t.Helper()

	base := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	var b strings.Builder
	b.WriteString("timestamp,open,high,low,close,volume\n")
	for i := 0; i < n; i++ {
		c := start + float64(i)*step
		high, low := c+0.3, c-0.3
		volume := int64(1000)
		if spikeLast && i == n-1 {
			high, low = c+1.0, c-1.0
			volume = 2500
		}
		b.WriteString(fmt.Sprintf("%s,%.2f,%.2f,%.2f,%.2f,%d\n",
			base.Add(time.Duration(i)*interval).Format(time.RFC3339),
			c-step/2, high, low, c, volume))
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", symbol, tf))
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// TestPlanLifecycle walks the full pipeline: candles on disk, fetch
// through the cached provider, analysis, narration, persistence and
// outcome reporting.
func TestPlanLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dir := t.TempDir()
	writeTrendCSV(t, dir, "AAPL", models.Timeframe30Min, 60, 100, 1, 30*time.Minute, false)
	writeTrendCSV(t, dir, "AAPL", models.TimeframeDay, 60, 100, 1, 24*time.Hour, false)
	writeTrendCSV(t, dir, "AAPL", models.Timeframe1Min, 60, 100, 1, time.Minute, true)

	provider := data.NewCachedProvider(data.NewCSVProvider(dir), time.Minute)

	p := planner.New(planner.DefaultConfig())
	series := make(map[models.Timeframe][]models.Candle)
	for _, tf := range p.TimeframesFor(models.TradeDay).Timeframes() {
		candles, err := provider.GetCandles(ctx, "AAPL", tf, 200)
		if err != nil {
			t.Fatalf("fetch %s: %v", tf, err)
		}
		series[tf] = candles
	}

	result := p.Analyze(ctx, planner.Request{
		Symbol:     "AAPL",
		Series:     series,
		TradeTypes: []models.TradeType{models.TradeDay},
	})

	if len(result.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1 (skips: %+v)", len(result.Candidates), result.Skipped)
	}
	candidate := result.Candidates[0]
	if candidate.Direction != models.DirectionLong {
		t.Errorf("direction = %v, want long", candidate.Direction)
	}
	if candidate.Confidence != 5 {
		t.Errorf("confidence = %d, want 5", candidate.Confidence)
	}

	rationale, err := narrate.NewTemplateNarrator().Narrate(ctx, candidate.Rationale)
	if err != nil {
		t.Fatalf("narrate: %v", err)
	}
	if !strings.Contains(rationale, "AAPL") {
		t.Errorf("rationale should mention the symbol: %q", rationale)
	}

	planStore, err := store.NewSQLiteStore(filepath.Join(dir, "plans.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer planStore.Close()

	record := &models.PlanRecord{
		Symbol:     "AAPL",
		TradeType:  candidate.TradeType,
		Direction:  candidate.Direction,
		Entry:      candidate.Entry,
		Stop:       candidate.Stop,
		Target:     candidate.Target,
		Target2:    candidate.Target2,
		Confidence: candidate.Confidence,
		RiskReward: candidate.RiskReward,
		Edges:      candidate.Edges,
		Rationale:  rationale,
		RiskNotes:  candidate.RiskNotes,
	}
	if err := planStore.SavePlan(ctx, record); err != nil {
		t.Fatalf("save plan: %v", err)
	}
	if record.ID == "" {
		t.Fatal("save should assign an ID")
	}

	if err := planStore.UpdateOutcome(ctx, record.ID, models.PlanWin, 2.0); err != nil {
		t.Fatalf("update outcome: %v", err)
	}

	saved, err := planStore.GetPlan(ctx, record.ID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if saved.Status != models.PlanWin || saved.RAchieved != 2.0 {
		t.Errorf("outcome not recorded: status=%v r=%v", saved.Status, saved.RAchieved)
	}

	summary, err := planStore.PerformanceSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Total != 1 || summary.Wins != 1 {
		t.Errorf("summary = %+v, want one winning plan", summary)
	}
	if summary.WinRate != 1.0 {
		t.Errorf("win rate = %v, want 1.0", summary.WinRate)
	}
}

// TestMissingSeriesBecomesSkip verifies that an absent timeframe file
// surfaces as a recorded skip rather than an analysis error.
func TestMissingSeriesBecomesSkip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeTrendCSV(t, dir, "TSLA", models.Timeframe30Min, 60, 100, 1, 30*time.Minute, false)

	provider := data.NewCSVProvider(dir)
	p := planner.New(planner.DefaultConfig())

	series := make(map[models.Timeframe][]models.Candle)
	for _, tf := range p.TimeframesFor(models.TradeDay).Timeframes() {
		candles, err := provider.GetCandles(ctx, "TSLA", tf, 200)
		if err != nil {
			continue
		}
		series[tf] = candles
	}

	result := p.Analyze(ctx, planner.Request{
		Symbol:     "TSLA",
		Series:     series,
		TradeTypes: []models.TradeType{models.TradeDay},
	})

	if len(result.Candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(result.Candidates))
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected one skip, got %+v", result.Skipped)
	}
	if result.Skipped[0].Reason != models.ReasonInsufficientData {
		t.Errorf("skip reason = %v, want insufficient data", result.Skipped[0].Reason)
	}
}
