// Package store persists emitted plans and their realized outcomes.
package store

import (
	"context"
	"time"

	"trade-planner/internal/models"
)

// PlanFilter narrows ListPlans. Zero values mean no constraint.
type PlanFilter struct {
	Symbol    string
	TradeType models.TradeType
	Status    models.PlanStatus
	Limit     int
}

// EdgeStat aggregates outcomes for one edge across resolved plans.
type EdgeStat struct {
	Planned int
	Wins    int
	Losses  int
}

// WinRate returns the share of resolved plans featuring this edge
// that won.
func (e EdgeStat) WinRate() float64 {
	resolved := e.Wins + e.Losses
	if resolved == 0 {
		return 0
	}
	return float64(e.Wins) / float64(resolved)
}

// Summary is the aggregate performance view.
type Summary struct {
	Total    int
	Pending  int
	Wins     int
	Losses   int
	Expired  int
	WinRate  float64 // wins over wins+losses
	AverageR float64 // mean realized R over resolved plans
	Edges    map[string]EdgeStat
}

// PlanStore is the persistence interface for plans and outcomes.
type PlanStore interface {
	SavePlan(ctx context.Context, record *models.PlanRecord) error
	GetPlan(ctx context.Context, id string) (*models.PlanRecord, error)
	ListPlans(ctx context.Context, filter PlanFilter) ([]models.PlanRecord, error)
	PendingPlans(ctx context.Context) ([]models.PlanRecord, error)
	UpdateOutcome(ctx context.Context, id string, status models.PlanStatus, rAchieved float64) error
	MarkExpired(ctx context.Context, olderThan time.Duration) (int64, error)
	PerformanceSummary(ctx context.Context) (*Summary, error)
	Close() error
}
