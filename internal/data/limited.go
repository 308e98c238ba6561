package data

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	apperrors "trade-planner/internal/errors"
	"trade-planner/internal/models"
)

// LimitedProvider enforces a request rate and a per-fetch timeout on
// the wrapped provider.
type LimitedProvider struct {
	inner   Provider
	limiter *rate.Limiter
	timeout time.Duration
}

// NewLimitedProvider wraps inner with a perMinute rate limit and a
// per-call timeout.
func NewLimitedProvider(inner Provider, perMinute int, timeout time.Duration) *LimitedProvider {
	if perMinute <= 0 {
		perMinute = 60
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LimitedProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		timeout: timeout,
	}
}

func (l *LimitedProvider) Name() string {
	return l.inner.Name()
}

func (l *LimitedProvider) GetCandles(ctx context.Context, symbol string, tf models.Timeframe, limit int) ([]models.Candle, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := l.limiter.Wait(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Wrapf(apperrors.ErrRateLimited, "waiting for rate limit on %s", symbol)
		}
		return nil, err
	}

	candles, err := l.inner.GetCandles(ctx, symbol, tf, limit)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Wrapf(apperrors.ErrTimeout, "fetching %s %s", symbol, tf)
		}
		return nil, err
	}
	return candles, nil
}
