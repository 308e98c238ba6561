// Package data fetches candle series from market data sources.
package data

import (
	"context"
	"errors"

	"trade-planner/internal/models"
)

var (
	// ErrSeriesNotFound is returned when no data exists for a symbol and timeframe.
	ErrSeriesNotFound = errors.New("series not found")
	// ErrInvalidSymbol is returned when an invalid symbol is provided.
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// Provider fetches historical candles for one symbol and timeframe.
// Implementations return candles in ascending timestamp order, at most
// limit bars ending at the most recent available bar.
type Provider interface {
	GetCandles(ctx context.Context, symbol string, tf models.Timeframe, limit int) ([]models.Candle, error)
	Name() string
}
