package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	apperrors "trade-planner/internal/errors"
	"trade-planner/internal/models"
)

// SQLiteStore implements PlanStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the plan database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		trade_type TEXT NOT NULL,
		direction TEXT NOT NULL,
		entry REAL NOT NULL,
		stop REAL NOT NULL,
		target REAL NOT NULL,
		target2 REAL DEFAULT 0,
		confidence INTEGER NOT NULL,
		risk_reward REAL NOT NULL,
		edges TEXT,
		rationale TEXT,
		risk_notes TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		r_achieved REAL DEFAULT 0,
		created_at DATETIME NOT NULL,
		resolved_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_plans_symbol ON plans(symbol);
	CREATE INDEX IF NOT EXISTS idx_plans_status ON plans(status);
	CREATE INDEX IF NOT EXISTS idx_plans_created ON plans(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SavePlan inserts a new plan record. Missing ID, status and creation
// time are filled in.
func (s *SQLiteStore) SavePlan(ctx context.Context, record *models.PlanRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Status == "" {
		record.Status = models.PlanPending
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	edgesJSON, err := json.Marshal(record.Edges)
	if err != nil {
		return apperrors.NewStoreError("save_plan", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plans (id, symbol, trade_type, direction, entry, stop, target, target2,
			confidence, risk_reward, edges, rationale, risk_notes, status, r_achieved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Symbol, record.TradeType, record.Direction,
		record.Entry, record.Stop, record.Target, record.Target2,
		record.Confidence, record.RiskReward, string(edgesJSON),
		record.Rationale, record.RiskNotes, record.Status, record.RAchieved, record.CreatedAt)
	if err != nil {
		return apperrors.NewStoreError("save_plan", err)
	}
	return nil
}

const planColumns = `id, symbol, trade_type, direction, entry, stop, target, target2,
	confidence, risk_reward, edges, rationale, risk_notes, status, r_achieved, created_at, resolved_at`

// GetPlan fetches one plan by ID.
func (s *SQLiteStore) GetPlan(ctx context.Context, id string) (*models.PlanRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = ?`, id)
	record, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPlanNotFound, id)
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get_plan", err)
	}
	return record, nil
}

// ListPlans fetches plans matching the filter, newest first.
func (s *SQLiteStore) ListPlans(ctx context.Context, filter PlanFilter) ([]models.PlanRecord, error) {
	query := `SELECT ` + planColumns + ` FROM plans`
	var conditions []string
	var args []interface{}

	if filter.Symbol != "" {
		conditions = append(conditions, "symbol = ?")
		args = append(args, strings.ToUpper(filter.Symbol))
	}
	if filter.TradeType != "" {
		conditions = append(conditions, "trade_type = ?")
		args = append(args, filter.TradeType)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("list_plans", err)
	}
	defer rows.Close()

	var records []models.PlanRecord
	for rows.Next() {
		record, err := scanPlan(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("list_plans", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// PendingPlans returns all unresolved plans.
func (s *SQLiteStore) PendingPlans(ctx context.Context) ([]models.PlanRecord, error) {
	return s.ListPlans(ctx, PlanFilter{Status: models.PlanPending})
}

// UpdateOutcome resolves a plan with its realized result.
func (s *SQLiteStore) UpdateOutcome(ctx context.Context, id string, status models.PlanStatus, rAchieved float64) error {
	switch status {
	case models.PlanWin, models.PlanLoss, models.PlanExpired:
	default:
		return apperrors.NewStoreError("update_outcome",
			fmt.Errorf("status %q is not a terminal outcome", status))
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE plans SET status = ?, r_achieved = ?, resolved_at = ? WHERE id = ?`,
		status, rAchieved, time.Now().UTC(), id)
	if err != nil {
		return apperrors.NewStoreError("update_outcome", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("update_outcome", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrPlanNotFound, id)
	}
	return nil
}

// MarkExpired resolves pending plans older than the cutoff as expired
// and returns how many were affected.
func (s *SQLiteStore) MarkExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := s.db.ExecContext(ctx, `
		UPDATE plans SET status = ?, resolved_at = ? WHERE status = ? AND created_at < ?`,
		models.PlanExpired, time.Now().UTC(), models.PlanPending, cutoff)
	if err != nil {
		return 0, apperrors.NewStoreError("mark_expired", err)
	}
	return result.RowsAffected()
}

// PerformanceSummary aggregates resolved outcomes, overall and per edge.
func (s *SQLiteStore) PerformanceSummary(ctx context.Context) (*Summary, error) {
	records, err := s.ListPlans(ctx, PlanFilter{})
	if err != nil {
		return nil, err
	}

	summary := &Summary{Edges: make(map[string]EdgeStat)}
	var totalR float64
	resolved := 0

	for _, r := range records {
		summary.Total++
		switch r.Status {
		case models.PlanPending:
			summary.Pending++
			continue
		case models.PlanWin:
			summary.Wins++
		case models.PlanLoss:
			summary.Losses++
		case models.PlanExpired:
			summary.Expired++
		}
		resolved++
		totalR += r.RAchieved

		for _, e := range r.Edges {
			if !e.Applied || e.Name == models.EdgeDivergence {
				continue
			}
			stat := summary.Edges[e.Name]
			stat.Planned++
			if r.Status == models.PlanWin {
				stat.Wins++
			}
			if r.Status == models.PlanLoss {
				stat.Losses++
			}
			summary.Edges[e.Name] = stat
		}
	}

	if summary.Wins+summary.Losses > 0 {
		summary.WinRate = float64(summary.Wins) / float64(summary.Wins+summary.Losses)
	}
	if resolved > 0 {
		summary.AverageR = totalR / float64(resolved)
	}
	return summary, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (*models.PlanRecord, error) {
	var record models.PlanRecord
	var edgesJSON string
	var resolvedAt sql.NullTime

	err := row.Scan(&record.ID, &record.Symbol, &record.TradeType, &record.Direction,
		&record.Entry, &record.Stop, &record.Target, &record.Target2,
		&record.Confidence, &record.RiskReward, &edgesJSON,
		&record.Rationale, &record.RiskNotes, &record.Status, &record.RAchieved,
		&record.CreatedAt, &resolvedAt)
	if err != nil {
		return nil, err
	}

	if edgesJSON != "" {
		if err := json.Unmarshal([]byte(edgesJSON), &record.Edges); err != nil {
			return nil, fmt.Errorf("decode edges: %w", err)
		}
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		record.ResolvedAt = &t
	}
	return &record, nil
}
