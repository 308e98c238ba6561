package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# trade-planner configuration

[timeframes.day]
higher = "30minute"
middle = "day"
lower = "1minute"

[timeframes.swing]
higher = "week"
middle = "day"
lower = "4hour"

[edges]
slope_threshold = 0.1
slope_lookback = 5
volume_multiple = 1.5
volume_lookback = 10
volatility_multiple = 1.25
pullback_rsi_low = 45.0
pullback_rsi_high = 65.0
divergence_lookback = 10

[risk]
atr_stop_multiple = 1.0
target_r = 2.0
reduced_target_r = 1.5
elevated_vol_ratio = 1.5
extension_target_r = 3.0
require_trigger = false

[narrator]
# "template" or "llm" (llm requires OPENAI_API_KEY)
mode = "template"
model = "gpt-4o"

[data]
# Directory containing <symbol>_<timeframe>.csv files
# csv_dir = "/path/to/data"
rate_per_minute = 120
fetch_timeout = "30s"
cache_ttl = "30s"
min_bars = 50

[logging]
level = "info"
console = true
file = true
`

// writeTemplateConfig writes a commented starter config if none exists.
func writeTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}
