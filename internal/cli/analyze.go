package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trade-planner/internal/analysis/planner"
	"trade-planner/internal/data"
	"trade-planner/internal/logging"
	"trade-planner/internal/models"
)

const fetchLimit = 200

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <symbol>",
		Short: "Produce trade plan candidates for a symbol",
		Long: `Runs the multi-timeframe analysis for a symbol:
classifies trend, momentum and entry triggers on three timeframe
tiers, evaluates the confirmation edges, scores confidence and
derives ATR-based entry, stop and target levels.`,
		Example: `  planner analyze AAPL
  planner analyze TSLA --type swing
  planner analyze NVDA --market SPY --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			symbol := strings.ToUpper(args[0])
			tradeTypes, err := parseTradeTypes(cmd)
			if err != nil {
				return err
			}
			marketSymbol, _ := cmd.Flags().GetString("market")
			save, _ := cmd.Flags().GetBool("save")

			logger := logging.WithSymbol(app.Logger, symbol)

			req := planner.Request{
				Symbol:     symbol,
				Series:     app.fetchSeries(ctx, logger, symbol, tradeTypes),
				TradeTypes: tradeTypes,
			}
			if marketSymbol != "" {
				req.MarketBias = app.fetchMarket(ctx, logger, strings.ToUpper(marketSymbol))
			}

			result := app.Planner.Analyze(ctx, req)

			rationales := make(map[int]string, len(result.Candidates))
			for i, c := range result.Candidates {
				text, err := app.Narrator.Narrate(ctx, c.Rationale)
				if err != nil {
					logger.Warn().Err(err).Msg("narration failed")
					text = ""
				}
				rationales[i] = text
				logging.LogPlan(logger, symbol, string(c.TradeType), string(c.Direction), c.Confidence, c.Entry)
			}
			for _, s := range result.Skipped {
				logging.LogSkip(logger, symbol, string(s.TradeType), string(s.Reason), s.Detail)
			}

			if save && app.Store != nil {
				for i, c := range result.Candidates {
					record := planToRecord(symbol, c, rationales[i])
					if err := app.Store.SavePlan(ctx, record); err != nil {
						logger.Error().Err(err).Msg("failed to save plan")
						continue
					}
					if !output.IsJSON() {
						output.Info("Saved plan %s", record.ID)
					}
				}
			}

			if output.IsJSON() {
				return output.JSON(analyzeResponse{
					Symbol:     symbol,
					Candidates: result.Candidates,
					Rationales: rationales,
					Skipped:    result.Skipped,
				})
			}

			printResult(output, result, rationales)
			return nil
		},
	}

	cmd.Flags().String("type", "both", "trade type to analyze: day, swing or both")
	cmd.Flags().String("market", "", "benchmark symbol for market context (e.g. SPY)")
	cmd.Flags().Bool("save", false, "persist emitted plans for outcome tracking")
	return cmd
}

type analyzeResponse struct {
	Symbol     string                      `json:"symbol"`
	Candidates []models.TradePlanCandidate `json:"candidates"`
	Rationales map[int]string              `json:"rationales"`
	Skipped    []models.Skip               `json:"skipped"`
}

func parseTradeTypes(cmd *cobra.Command) ([]models.TradeType, error) {
	value, _ := cmd.Flags().GetString("type")
	switch strings.ToLower(value) {
	case "day":
		return []models.TradeType{models.TradeDay}, nil
	case "swing":
		return []models.TradeType{models.TradeSwing}, nil
	case "both", "":
		return []models.TradeType{models.TradeDay, models.TradeSwing}, nil
	}
	return nil, fmt.Errorf("unknown trade type %q (want day, swing or both)", value)
}

// fetchSeries pulls every timeframe the requested trade types need.
// Missing series are left out so the planner records them as skips
// instead of aborting the whole analysis.
func (a *App) fetchSeries(ctx context.Context, logger zerolog.Logger, symbol string, tradeTypes []models.TradeType) map[models.Timeframe][]models.Candle {
	needed := make(map[models.Timeframe]struct{})
	for _, tt := range tradeTypes {
		for _, tf := range a.Planner.TimeframesFor(tt).Timeframes() {
			needed[tf] = struct{}{}
		}
	}

	series := make(map[models.Timeframe][]models.Candle, len(needed))
	for tf := range needed {
		start := time.Now()
		candles, err := a.Provider.GetCandles(ctx, symbol, tf, fetchLimit)
		logging.LogFetch(logger, symbol, string(tf), len(candles), time.Since(start), err)
		if err != nil {
			if !errors.Is(err, data.ErrSeriesNotFound) {
				logger.Warn().Err(err).Str("timeframe", string(tf)).Msg("fetch failed")
			}
			continue
		}
		series[tf] = candles
	}
	return series
}

// fetchMarket pulls the daily series for the benchmark symbol. Fetch
// problems degrade to no market context.
func (a *App) fetchMarket(ctx context.Context, logger zerolog.Logger, symbol string) []models.Candle {
	start := time.Now()
	candles, err := a.Provider.GetCandles(ctx, symbol, models.TimeframeDay, fetchLimit)
	logging.LogFetch(logger, symbol, string(models.TimeframeDay), len(candles), time.Since(start), err)
	if err != nil {
		logger.Warn().Err(err).Msg("market reference unavailable")
		return nil
	}
	return candles
}

func planToRecord(symbol string, c models.TradePlanCandidate, rationale string) *models.PlanRecord {
	return &models.PlanRecord{
		Symbol:     symbol,
		TradeType:  c.TradeType,
		Direction:  c.Direction,
		Entry:      c.Entry,
		Stop:       c.Stop,
		Target:     c.Target,
		Target2:    c.Target2,
		Confidence: c.Confidence,
		RiskReward: c.RiskReward,
		Edges:      c.Edges,
		Rationale:  rationale,
		RiskNotes:  c.RiskNotes,
	}
}
