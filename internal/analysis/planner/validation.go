package planner

import (
	"fmt"
	"math"

	apperrors "trade-planner/internal/errors"
	"trade-planner/internal/models"
)

// validateSeries rejects candle series the pipeline cannot trust:
// out-of-order timestamps, non-finite or non-positive prices, inverted
// bars and negative volume.
func validateSeries(tf models.Timeframe, candles []models.Candle) error {
	for i, c := range candles {
		for _, p := range []struct {
			name  string
			value float64
		}{
			{"open", c.Open},
			{"high", c.High},
			{"low", c.Low},
			{"close", c.Close},
		} {
			if math.IsNaN(p.value) || math.IsInf(p.value, 0) {
				return apperrors.NewValidationError(
					fmt.Sprintf("%s[%d].%s", tf, i, p.name), p.value, "price is not a finite number")
			}
			if p.value <= 0 {
				return apperrors.NewValidationError(
					fmt.Sprintf("%s[%d].%s", tf, i, p.name), p.value, "price must be positive")
			}
		}

		if c.High < c.Low {
			return apperrors.NewValidationError(
				fmt.Sprintf("%s[%d]", tf, i), c.High, "high below low")
		}
		if c.Volume < 0 {
			return apperrors.NewValidationError(
				fmt.Sprintf("%s[%d].volume", tf, i), c.Volume, "volume must not be negative")
		}
		if i > 0 && !candles[i-1].Timestamp.Before(c.Timestamp) {
			return apperrors.NewValidationError(
				fmt.Sprintf("%s[%d].timestamp", tf, i), c.Timestamp, "timestamps must be strictly increasing")
		}
	}
	return nil
}
