package indicators

import "trade-planner/internal/models"

// ThreeBarBreakout reports whether the latest close breaks the range
// of the three bars immediately preceding it. Long means the latest
// close exceeds the highest high of those bars, short means it falls
// below the lowest low.
func ThreeBarBreakout(candles []models.Candle, direction models.Direction) (bool, error) {
	if len(candles) < 4 {
		return false, ErrInsufficientData
	}

	latest := candles[len(candles)-1]
	window := candles[len(candles)-4 : len(candles)-1]

	switch direction {
	case models.DirectionLong:
		return latest.Close > highest(highPrices(window)), nil
	case models.DirectionShort:
		return latest.Close < lowest(lowPrices(window)), nil
	}
	return false, nil
}
