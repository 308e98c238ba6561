package models

import (
	"time"
)

// Edge names for the five confirmation filters.
const (
	EdgeSlope      = "slope_filter"
	EdgeVolume     = "volume_confirmation"
	EdgePullback   = "pullback_confirmation"
	EdgeVolatility = "volatility_filter"
	EdgeDivergence = "divergence_detection"
)

// EdgeDetailNotApplicable marks an edge that is structurally unavailable for
// the evaluated trade type, e.g. pullback confirmation without VWAP.
const EdgeDetailNotApplicable = "not_applicable"

// EdgeResult records the outcome of one edge evaluation.
type EdgeResult struct {
	Name    string
	Applied bool
	Detail  string
}

// NotApplicable reports whether the edge could not be evaluated at all.
func (e EdgeResult) NotApplicable() bool {
	return !e.Applied && e.Detail == EdgeDetailNotApplicable
}

// RationaleInputs carries the structured facts a narrator needs to produce a
// human-readable rationale without re-deriving any trading logic.
type RationaleInputs struct {
	Symbol    string
	TradeType TradeType
	Direction Direction
	Higher    Snapshot
	Middle    Snapshot
	Lower     Snapshot
	Edges     []EdgeResult
}

// AppliedEdges returns the edges that fired, excluding the divergence
// penalty flag.
func (r RationaleInputs) AppliedEdges() []EdgeResult {
	var applied []EdgeResult
	for _, e := range r.Edges {
		if e.Applied && e.Name != EdgeDivergence {
			applied = append(applied, e)
		}
	}
	return applied
}

// TradePlanCandidate is the engine's output unit. Created once per successful
// analysis and immutable; ownership transfers to the caller.
type TradePlanCandidate struct {
	TradeType  TradeType
	Direction  Direction
	Entry      float64
	Stop       float64
	Target     float64
	Target2    float64 // zero when no extension target was set
	Confidence int     // integer in [0, 5]
	RiskReward float64
	ATR        float64
	Edges      []EdgeResult
	Rationale  RationaleInputs
	RiskNotes  string
}

// HasTarget2 reports whether the extension target was set.
func (p TradePlanCandidate) HasTarget2() bool {
	return p.Target2 != 0
}

// SkipReason explains why a trade type produced no candidate.
type SkipReason string

const (
	ReasonInsufficientData  SkipReason = "insufficient_data"
	ReasonTimeframeConflict SkipReason = "timeframe_conflict"
	ReasonMalformedInput    SkipReason = "malformed_input"
	ReasonNoTrigger         SkipReason = "no_trigger"
)

// Skip reports a trade type that yielded no candidate and why. Conflicts and
// missing triggers are valid outcomes, not failures; malformed input carries
// the underlying validation error as detail.
type Skip struct {
	TradeType TradeType
	Reason    SkipReason
	Detail    string
}

// PlanStatus tracks the lifecycle of a persisted plan.
type PlanStatus string

const (
	PlanPending PlanStatus = "pending"
	PlanWin     PlanStatus = "win"
	PlanLoss    PlanStatus = "loss"
	PlanExpired PlanStatus = "expired"
)

// PlanRecord is the persisted form of an emitted plan together with its
// eventual realized outcome.
type PlanRecord struct {
	ID         string
	Symbol     string
	TradeType  TradeType
	Direction  Direction
	Entry      float64
	Stop       float64
	Target     float64
	Target2    float64
	Confidence int
	RiskReward float64
	Edges      []EdgeResult
	Rationale  string
	RiskNotes  string
	Status     PlanStatus
	RAchieved  float64
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
