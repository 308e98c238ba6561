// Package models provides domain models for the trade planning application.
package models

import (
	"time"
)

// Timeframe represents a candle aggregation interval.
type Timeframe string

const (
	Timeframe1Min  Timeframe = "1minute"
	Timeframe5Min  Timeframe = "5minute"
	Timeframe15Min Timeframe = "15minute"
	Timeframe30Min Timeframe = "30minute"
	Timeframe1Hour Timeframe = "60minute"
	Timeframe4Hour Timeframe = "4hour"
	TimeframeDay   Timeframe = "day"
	TimeframeWeek  Timeframe = "week"
)

// Intraday reports whether the timeframe is below one day. VWAP is only
// meaningful on intraday timeframes where session resets apply.
func (t Timeframe) Intraday() bool {
	switch t {
	case Timeframe1Min, Timeframe5Min, Timeframe15Min, Timeframe30Min, Timeframe1Hour, Timeframe4Hour:
		return true
	}
	return false
}

// TierRole identifies a timeframe's role in the 3-tier analysis.
type TierRole string

const (
	TierHigher TierRole = "higher"
	TierMiddle TierRole = "middle"
	TierLower  TierRole = "lower"
)

// TradeType represents the trading horizon of a plan.
type TradeType string

const (
	TradeDay   TradeType = "day"
	TradeSwing TradeType = "swing"
)

// Direction represents the side of a planned trade.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Bias is a directional classification derived from an indicator comparison.
type Bias string

const (
	BiasBullish Bias = "bullish"
	BiasBearish Bias = "bearish"
	BiasNeutral Bias = "neutral"
)

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// TimeframeSet maps the three tier roles to concrete timeframes for one
// trade type. The mapping is configuration, not a constant of the system.
type TimeframeSet struct {
	Higher Timeframe
	Middle Timeframe
	Lower  Timeframe
}

// Timeframes returns the set in higher, middle, lower order.
func (s TimeframeSet) Timeframes() []Timeframe {
	return []Timeframe{s.Higher, s.Middle, s.Lower}
}

// Snapshot holds the derived signal state for one timeframe. It is computed
// once per analysis run and never mutated afterwards.
type Snapshot struct {
	Timeframe    Timeframe
	Role         TierRole
	TrendBias    Bias
	MomentumBias Bias
	EMA20        float64
	EMA50        float64
	EMA20Slope   float64 // percent change over the slope lookback
	RSI          float64
	ATR          float64
	VWAP         float64
	HasVWAP      bool
	Close        float64
	Volume       int64

	// Entry triggers are evaluated on the lower tier only.
	TriggerEvaluated bool
	LongTrigger      bool
	ShortTrigger     bool
}

// TriggerFor reports whether the entry trigger fired for the given direction.
func (s Snapshot) TriggerFor(d Direction) bool {
	if !s.TriggerEvaluated {
		return false
	}
	if d == DirectionLong {
		return s.LongTrigger
	}
	return s.ShortTrigger
}
