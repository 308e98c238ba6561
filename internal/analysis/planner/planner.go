// Package planner runs the full multi-timeframe pipeline and produces
// ranked trade plan candidates.
package planner

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"trade-planner/internal/analysis/edges"
	"trade-planner/internal/analysis/risk"
	"trade-planner/internal/analysis/scoring"
	"trade-planner/internal/analysis/signal"
	apperrors "trade-planner/internal/errors"
	"trade-planner/internal/models"
)

// Config holds the planner wiring: tier mappings per trade type plus
// the edge and risk parameters.
type Config struct {
	Day            models.TimeframeSet
	Swing          models.TimeframeSet
	Edges          edges.Config
	Risk           risk.Config
	SlopeLookback  int
	RequireTrigger bool
	MinBars        int
}

// DefaultConfig returns the standard tier mappings and thresholds.
func DefaultConfig() Config {
	return Config{
		Day: models.TimeframeSet{
			Higher: models.Timeframe30Min,
			Middle: models.TimeframeDay,
			Lower:  models.Timeframe1Min,
		},
		Swing: models.TimeframeSet{
			Higher: models.TimeframeWeek,
			Middle: models.TimeframeDay,
			Lower:  models.Timeframe4Hour,
		},
		Edges:         edges.DefaultConfig(),
		Risk:          risk.DefaultConfig(),
		SlopeLookback: 5,
		MinBars:       50,
	}
}

// Request is one analysis invocation. Series maps each timeframe the
// configured tier sets reference to its ascending candle series.
// MarketBias optionally carries a broad-market reference series used
// for target sizing; nil means no market context.
type Request struct {
	Symbol     string
	Series     map[models.Timeframe][]models.Candle
	TradeTypes []models.TradeType
	MarketBias []models.Candle
}

// Result carries the ranked candidates plus a skip record for every
// trade type that produced none. Candidates and skips are data; the
// analysis itself never fails.
type Result struct {
	Symbol     string
	Candidates []models.TradePlanCandidate
	Skipped    []models.Skip
}

// Planner is the analysis engine. Safe for concurrent use.
type Planner struct {
	cfg        Config
	classifier *signal.Classifier
	evaluator  *edges.Evaluator
	scorer     *scoring.ConfidenceScorer
	calculator *risk.Calculator
}

// New creates a planner from the given configuration.
func New(cfg Config) *Planner {
	if cfg.MinBars <= 0 {
		cfg.MinBars = DefaultConfig().MinBars
	}
	return &Planner{
		cfg:        cfg,
		classifier: signal.NewClassifier(cfg.SlopeLookback),
		evaluator:  edges.NewEvaluator(cfg.Edges),
		scorer:     scoring.NewConfidenceScorer(),
		calculator: risk.NewCalculator(cfg.Risk),
	}
}

// Analyze evaluates the requested trade types concurrently and merges
// their results into a deterministic ranking: confidence descending,
// then risk/reward descending, then day before swing.
func (p *Planner) Analyze(ctx context.Context, req Request) Result {
	tradeTypes := req.TradeTypes
	if len(tradeTypes) == 0 {
		tradeTypes = []models.TradeType{models.TradeDay, models.TradeSwing}
	}

	marketTrend := p.marketTrend(ctx, req.MarketBias)

	result := Result{Symbol: req.Symbol}
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, tt := range tradeTypes {
		wg.Add(1)
		go func(tt models.TradeType) {
			defer wg.Done()

			candidate, skip := p.analyzeTradeType(ctx, req, tt, marketTrend)

			mu.Lock()
			if candidate != nil {
				result.Candidates = append(result.Candidates, *candidate)
			}
			if skip != nil {
				result.Skipped = append(result.Skipped, *skip)
			}
			mu.Unlock()
		}(tt)
	}

	wg.Wait()

	sort.SliceStable(result.Candidates, func(i, j int) bool {
		a, b := result.Candidates[i], result.Candidates[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.RiskReward != b.RiskReward {
			return a.RiskReward > b.RiskReward
		}
		return a.TradeType == models.TradeDay && b.TradeType == models.TradeSwing
	})
	sort.SliceStable(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].TradeType == models.TradeDay && result.Skipped[j].TradeType == models.TradeSwing
	})

	return result
}

// TimeframesFor returns the tier mapping for a trade type.
func (p *Planner) TimeframesFor(tt models.TradeType) models.TimeframeSet {
	if tt == models.TradeSwing {
		return p.cfg.Swing
	}
	return p.cfg.Day
}

func (p *Planner) minBars() int {
	if p.classifier.MinBars() > p.cfg.MinBars {
		return p.classifier.MinBars()
	}
	return p.cfg.MinBars
}

func (p *Planner) analyzeTradeType(ctx context.Context, req Request, tt models.TradeType, marketTrend models.Bias) (*models.TradePlanCandidate, *models.Skip) {
	set := p.TimeframesFor(tt)

	series := make(map[models.TierRole][]models.Candle, 3)
	for _, tier := range []struct {
		role models.TierRole
		tf   models.Timeframe
	}{
		{models.TierHigher, set.Higher},
		{models.TierMiddle, set.Middle},
		{models.TierLower, set.Lower},
	} {
		candles, ok := req.Series[tier.tf]
		if !ok || len(candles) < p.minBars() {
			return nil, &models.Skip{
				TradeType: tt,
				Reason:    models.ReasonInsufficientData,
				Detail:    fmt.Sprintf("%s tier (%s): %d bars, need %d", tier.role, tier.tf, len(candles), p.minBars()),
			}
		}
		if err := validateSeries(tier.tf, candles); err != nil {
			return nil, &models.Skip{
				TradeType: tt,
				Reason:    models.ReasonMalformedInput,
				Detail:    err.Error(),
			}
		}
		series[tier.role] = candles
	}

	snapshots := make(map[models.TierRole]models.Snapshot, 3)
	for role, tf := range map[models.TierRole]models.Timeframe{
		models.TierHigher: set.Higher,
		models.TierMiddle: set.Middle,
		models.TierLower:  set.Lower,
	} {
		snap, err := p.classifier.Classify(ctx, series[role], tf, role)
		if err != nil {
			reason := models.ReasonInsufficientData
			if apperrors.Is(err, apperrors.ErrMalformedInput) {
				reason = models.ReasonMalformedInput
			}
			return nil, &models.Skip{TradeType: tt, Reason: reason, Detail: err.Error()}
		}
		snapshots[role] = snap
	}

	higher := snapshots[models.TierHigher]
	middle := snapshots[models.TierMiddle]
	lower := snapshots[models.TierLower]

	direction, aligned := alignment(higher.TrendBias, middle.TrendBias)
	if !aligned {
		return nil, &models.Skip{
			TradeType: tt,
			Reason:    models.ReasonTimeframeConflict,
			Detail:    fmt.Sprintf("higher=%s middle=%s", higher.TrendBias, middle.TrendBias),
		}
	}

	if p.cfg.RequireTrigger && !lower.TriggerFor(direction) {
		return nil, &models.Skip{
			TradeType: tt,
			Reason:    models.ReasonNoTrigger,
			Detail:    fmt.Sprintf("no %s breakout trigger on %s", direction, set.Lower),
		}
	}

	edgeResults := p.evaluator.Evaluate(edges.Input{
		TradeType:    tt,
		Direction:    direction,
		Higher:       higher,
		Middle:       middle,
		Lower:        lower,
		LowerCandles: series[models.TierLower],
	})

	confidence := p.scorer.Score(direction, higher, middle, lower, edgeResults)

	levels, err := p.calculator.Compute(direction, series[models.TierLower], lower, marketTrend, confidence, scoring.MaxConfidence)
	if err != nil {
		return nil, &models.Skip{TradeType: tt, Reason: models.ReasonInsufficientData, Detail: err.Error()}
	}

	candidate := &models.TradePlanCandidate{
		TradeType:  tt,
		Direction:  direction,
		Entry:      levels.Entry,
		Stop:       levels.Stop,
		Target:     levels.Target,
		Target2:    levels.Target2,
		Confidence: confidence,
		RiskReward: levels.RiskReward,
		ATR:        levels.ATR,
		Edges:      edgeResults,
		Rationale: models.RationaleInputs{
			Symbol:    req.Symbol,
			TradeType: tt,
			Direction: direction,
			Higher:    higher,
			Middle:    middle,
			Lower:     lower,
			Edges:     edgeResults,
		},
		RiskNotes: riskNotes(tt, levels, marketTrend),
	}
	return candidate, nil
}

// alignment requires the higher and middle tiers to agree on a
// directional trend. Two neutral tiers agree on nothing.
func alignment(higher, middle models.Bias) (models.Direction, bool) {
	if higher != middle {
		return "", false
	}
	switch higher {
	case models.BiasBullish:
		return models.DirectionLong, true
	case models.BiasBearish:
		return models.DirectionShort, true
	}
	return "", false
}

// marketTrend classifies the optional broad-market reference series.
// Any failure degrades to neutral rather than blocking the analysis.
func (p *Planner) marketTrend(ctx context.Context, candles []models.Candle) models.Bias {
	if len(candles) == 0 {
		return models.BiasNeutral
	}
	if err := validateSeries(models.TimeframeDay, candles); err != nil {
		return models.BiasNeutral
	}
	snap, err := p.classifier.Classify(ctx, candles, models.TimeframeDay, models.TierHigher)
	if err != nil {
		return models.BiasNeutral
	}
	return snap.TrendBias
}
