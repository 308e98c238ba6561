// Package config provides configuration management for the trade planner.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"trade-planner/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Timeframes TimeframesConfig `mapstructure:"timeframes"`
	Edges      EdgeConfig       `mapstructure:"edges"`
	Risk       RiskConfig       `mapstructure:"risk"`
	Narrator   NarratorConfig   `mapstructure:"narrator"`
	Data       DataConfig       `mapstructure:"data"`
	Store      StoreConfig      `mapstructure:"store"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// TimeframesConfig holds the tier-to-timeframe mappings per trade type.
// The mapping varied across iterations of the strategy and depends on
// vendor data availability, so it is configuration rather than a constant.
type TimeframesConfig struct {
	Day   TierMapping `mapstructure:"day"`
	Swing TierMapping `mapstructure:"swing"`
}

// TierMapping names the concrete timeframe for each tier role.
type TierMapping struct {
	Higher string `mapstructure:"higher"`
	Middle string `mapstructure:"middle"`
	Lower  string `mapstructure:"lower"`
}

// Set converts the mapping to a models.TimeframeSet.
func (m TierMapping) Set() models.TimeframeSet {
	return models.TimeframeSet{
		Higher: models.Timeframe(m.Higher),
		Middle: models.Timeframe(m.Middle),
		Lower:  models.Timeframe(m.Lower),
	}
}

// EdgeConfig holds thresholds for the confirmation edges.
type EdgeConfig struct {
	SlopeThreshold     float64 `mapstructure:"slope_threshold"`      // percent
	SlopeLookback      int     `mapstructure:"slope_lookback"`       // bars
	VolumeMultiple     float64 `mapstructure:"volume_multiple"`      // vs prior average
	VolumeLookback     int     `mapstructure:"volume_lookback"`      // bars
	VolatilityMultiple float64 `mapstructure:"volatility_multiple"`  // vs ATR
	PullbackRSILow     float64 `mapstructure:"pullback_rsi_low"`     // long case lower bound
	PullbackRSIHigh    float64 `mapstructure:"pullback_rsi_high"`    // long case upper bound
	DivergenceLookback int     `mapstructure:"divergence_lookback"`  // bars
}

// RiskConfig holds the level calculation parameters.
type RiskConfig struct {
	ATRStopMultiple    float64 `mapstructure:"atr_stop_multiple"`
	TargetR            float64 `mapstructure:"target_r"`
	ReducedTargetR     float64 `mapstructure:"reduced_target_r"`
	ElevatedVolRatio   float64 `mapstructure:"elevated_vol_ratio"`
	ExtensionTargetR   float64 `mapstructure:"extension_target_r"`
	RequireTrigger     bool    `mapstructure:"require_trigger"`
}

// NarratorConfig selects and configures the rationale narrator.
type NarratorConfig struct {
	Mode   string `mapstructure:"mode"` // "template" or "llm"
	Model  string `mapstructure:"model"`
	APIKey string `mapstructure:"-"` // from OPENAI_API_KEY only
}

// DataConfig holds market data fetch settings.
type DataConfig struct {
	CSVDir         string        `mapstructure:"csv_dir"`
	RatePerMinute  int           `mapstructure:"rate_per_minute"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	MinBars        int           `mapstructure:"min_bars"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trade-planner"
	}
	return filepath.Join(home, ".config", "trade-planner")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		// No config file is fine; defaults apply and a template is written
		// so the user has something to edit.
		if err := writeTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("writing template config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timeframes.day.higher", string(models.Timeframe30Min))
	v.SetDefault("timeframes.day.middle", string(models.TimeframeDay))
	v.SetDefault("timeframes.day.lower", string(models.Timeframe1Min))
	v.SetDefault("timeframes.swing.higher", string(models.TimeframeWeek))
	v.SetDefault("timeframes.swing.middle", string(models.TimeframeDay))
	v.SetDefault("timeframes.swing.lower", string(models.Timeframe4Hour))

	v.SetDefault("edges.slope_threshold", 0.1)
	v.SetDefault("edges.slope_lookback", 5)
	v.SetDefault("edges.volume_multiple", 1.5)
	v.SetDefault("edges.volume_lookback", 10)
	v.SetDefault("edges.volatility_multiple", 1.25)
	v.SetDefault("edges.pullback_rsi_low", 45.0)
	v.SetDefault("edges.pullback_rsi_high", 65.0)
	v.SetDefault("edges.divergence_lookback", 10)

	v.SetDefault("risk.atr_stop_multiple", 1.0)
	v.SetDefault("risk.target_r", 2.0)
	v.SetDefault("risk.reduced_target_r", 1.5)
	v.SetDefault("risk.elevated_vol_ratio", 1.5)
	v.SetDefault("risk.extension_target_r", 3.0)
	v.SetDefault("risk.require_trigger", false)

	v.SetDefault("narrator.mode", "template")
	v.SetDefault("narrator.model", "gpt-4o")

	v.SetDefault("data.csv_dir", filepath.Join(DefaultConfigDir(), "data"))
	v.SetDefault("data.rate_per_minute", 120)
	v.SetDefault("data.fetch_timeout", 30*time.Second)
	v.SetDefault("data.cache_ttl", 30*time.Second)
	v.SetDefault("data.min_bars", 50)

	v.SetDefault("store.db_path", filepath.Join(DefaultConfigDir(), "planner.db"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Narrator.APIKey = v
	}
	if v := os.Getenv("NARRATOR_MODE"); v != "" {
		cfg.Narrator.Mode = v
	}
	if v := os.Getenv("PLANNER_DB_PATH"); v != "" {
		cfg.Store.DBPath = v
	}
	if v := os.Getenv("PLANNER_DATA_DIR"); v != "" {
		cfg.Data.CSVDir = v
	}
	if v := os.Getenv("PLANNER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, m := range []TierMapping{c.Timeframes.Day, c.Timeframes.Swing} {
		if m.Higher == "" || m.Middle == "" || m.Lower == "" {
			return fmt.Errorf("timeframe mapping must name higher, middle, and lower tiers")
		}
	}

	if c.Narrator.Mode != "template" && c.Narrator.Mode != "llm" {
		return fmt.Errorf("invalid narrator mode: %s (must be 'template' or 'llm')", c.Narrator.Mode)
	}

	if c.Risk.TargetR <= 0 || c.Risk.ReducedTargetR <= 0 {
		return fmt.Errorf("target_r and reduced_target_r must be positive")
	}
	if c.Risk.ReducedTargetR > c.Risk.TargetR {
		return fmt.Errorf("reduced_target_r must not exceed target_r")
	}
	if c.Risk.ATRStopMultiple <= 0 {
		return fmt.Errorf("atr_stop_multiple must be positive")
	}

	if c.Edges.VolumeMultiple <= 0 || c.Edges.VolatilityMultiple <= 0 {
		return fmt.Errorf("edge multiples must be positive")
	}
	if c.Edges.PullbackRSILow >= c.Edges.PullbackRSIHigh {
		return fmt.Errorf("pullback_rsi_low must be below pullback_rsi_high")
	}

	if c.Data.RatePerMinute <= 0 {
		return fmt.Errorf("rate_per_minute must be positive")
	}
	if c.Data.MinBars < 1 {
		return fmt.Errorf("min_bars must be at least 1")
	}

	return nil
}
