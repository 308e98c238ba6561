package indicators

// DivergenceSignal classifies a price/RSI divergence.
type DivergenceSignal string

const (
	DivergenceNone    DivergenceSignal = "none"
	DivergenceBullish DivergenceSignal = "bullish"
	DivergenceBearish DivergenceSignal = "bearish"
)

// DetectDivergence looks for a price/RSI divergence over the lookback
// window. Bearish: the latest close prints a higher high than the
// window while RSI prints a lower high at the bar where that prior
// price high occurred. Bullish is the mirror on lows.
func DetectDivergence(closes, rsi []float64, lookback int) (DivergenceSignal, error) {
	if lookback <= 1 {
		return DivergenceNone, ErrInvalidPeriod
	}
	if len(closes) < lookback+1 || len(rsi) != len(closes) {
		return DivergenceNone, ErrInsufficientData
	}

	n := len(closes)
	window := closes[n-1-lookback : n-1]
	latestClose := closes[n-1]
	latestRSI := rsi[n-1]

	if hi := highestIndex(window); hi >= 0 {
		priorIdx := n - 1 - lookback + hi
		if latestClose > window[hi] && latestRSI < rsi[priorIdx] {
			return DivergenceBearish, nil
		}
	}

	if lo := lowestIndex(window); lo >= 0 {
		priorIdx := n - 1 - lookback + lo
		if latestClose < window[lo] && latestRSI > rsi[priorIdx] {
			return DivergenceBullish, nil
		}
	}

	return DivergenceNone, nil
}
