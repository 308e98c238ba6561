package indicators

import (
	"time"

	"trade-planner/internal/models"
)

// VWAP calculates the Volume Weighted Average Price. When sessionReset
// is set, the cumulative sums restart at each calendar-day boundary so
// intraday series get a fresh session anchor every trading day.
type VWAP struct {
	sessionReset bool
}

// NewVWAP creates a new VWAP indicator.
func NewVWAP(sessionReset bool) *VWAP {
	return &VWAP{sessionReset: sessionReset}
}

func (v *VWAP) Name() string {
	return "VWAP"
}

func (v *VWAP) Period() int {
	return 1
}

func (v *VWAP) Calculate(candles []models.Candle) ([]float64, error) {
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)

	var cumulativeTPV float64 // Cumulative Typical Price * Volume
	var cumulativeVol float64 // Cumulative Volume
	var session time.Time

	for i := 0; i < n; i++ {
		if v.sessionReset {
			day := candles[i].Timestamp.UTC().Truncate(24 * time.Hour)
			if i == 0 || !day.Equal(session) {
				cumulativeTPV = 0
				cumulativeVol = 0
				session = day
			}
		}

		tp := typicalPrice(candles[i])
		cumulativeTPV += tp * float64(candles[i].Volume)
		cumulativeVol += float64(candles[i].Volume)

		if cumulativeVol != 0 {
			result[i] = cumulativeTPV / cumulativeVol
		}
	}

	return result, nil
}

// AverageVolume returns the mean volume of the window bars preceding
// the latest candle, excluding the latest candle itself.
func AverageVolume(candles []models.Candle, window int) (float64, error) {
	if window <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(candles) < window+1 {
		return 0, ErrInsufficientData
	}

	var total float64
	for _, c := range candles[len(candles)-1-window : len(candles)-1] {
		total += float64(c.Volume)
	}
	return total / float64(window), nil
}
