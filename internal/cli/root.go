// Package cli provides the command-line interface for the trade planner.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trade-planner/internal/analysis/edges"
	"trade-planner/internal/analysis/planner"
	"trade-planner/internal/analysis/risk"
	"trade-planner/internal/config"
	"trade-planner/internal/data"
	"trade-planner/internal/narrate"
	"trade-planner/internal/store"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.PlanStore
	Provider data.Provider
	Narrator narrate.Narrator
	Planner  *planner.Planner
}

// NewRootCmd creates the root command and wires the application.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	planStore, err := store.NewSQLiteStore(cfg.Store.DBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize store, outcome tracking unavailable")
	} else {
		app.Store = planStore
	}

	provider := data.Provider(data.NewCSVProvider(cfg.Data.CSVDir))
	provider = data.NewLimitedProvider(provider, cfg.Data.RatePerMinute, cfg.Data.FetchTimeout)
	app.Provider = data.NewCachedProvider(provider, cfg.Data.CacheTTL)

	app.Narrator = narrate.FromConfig(cfg.Narrator, logger)
	logger.Debug().Str("narrator", app.Narrator.Name()).Msg("narrator initialized")

	app.Planner = planner.New(planner.Config{
		Day:   cfg.Timeframes.Day.Set(),
		Swing: cfg.Timeframes.Swing.Set(),
		Edges: edges.Config{
			SlopeThreshold:     cfg.Edges.SlopeThreshold,
			VolumeMultiple:     cfg.Edges.VolumeMultiple,
			VolumeLookback:     cfg.Edges.VolumeLookback,
			VolatilityMultiple: cfg.Edges.VolatilityMultiple,
			PullbackRSILow:     cfg.Edges.PullbackRSILow,
			PullbackRSIHigh:    cfg.Edges.PullbackRSIHigh,
			DivergenceLookback: cfg.Edges.DivergenceLookback,
		},
		Risk: risk.Config{
			ATRStopMultiple:  cfg.Risk.ATRStopMultiple,
			TargetR:          cfg.Risk.TargetR,
			ReducedTargetR:   cfg.Risk.ReducedTargetR,
			ElevatedVolRatio: cfg.Risk.ElevatedVolRatio,
			ExtensionTargetR: cfg.Risk.ExtensionTargetR,
		},
		SlopeLookback:  cfg.Edges.SlopeLookback,
		RequireTrigger: cfg.Risk.RequireTrigger,
		MinBars:        cfg.Data.MinBars,
	})

	rootCmd := &cobra.Command{
		Use:     "planner",
		Short:   "Multi-timeframe trade plan engine",
		Long:    "Analyzes a symbol across three timeframe tiers and emits ranked trade plan candidates with ATR-based levels.",
		Version: Version,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Store != nil {
				app.Store.Close()
			}
		},
	}
	rootCmd.PersistentFlags().Bool("json", false, "output machine-readable JSON")

	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newOutcomeCmd(app))
	rootCmd.AddCommand(newExpireCmd(app))
	rootCmd.AddCommand(newPlansCmd(app))
	rootCmd.AddCommand(newReportCmd(app))

	return rootCmd
}
