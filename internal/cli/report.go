package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"trade-planner/internal/models"
	"trade-planner/internal/store"
)

func newPlansCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List saved plans",
		Example: `  planner plans
  planner plans --symbol AAPL --status pending
  planner plans --limit 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("plan store is not available")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			symbol, _ := cmd.Flags().GetString("symbol")
			status, _ := cmd.Flags().GetString("status")
			limit, _ := cmd.Flags().GetInt("limit")

			plans, err := app.Store.ListPlans(ctx, store.PlanFilter{
				Symbol: symbol,
				Status: models.PlanStatus(status),
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(plans)
			}

			if len(plans) == 0 {
				output.Warning("No plans found")
				return nil
			}

			table := NewTable(output, "ID", "SYMBOL", "TYPE", "DIR", "ENTRY", "STOP", "TARGET", "CONF", "STATUS", "R", "CREATED")
			for _, p := range plans {
				table.AddRow(
					shortID(p.ID),
					p.Symbol,
					string(p.TradeType),
					string(p.Direction),
					FormatPrice(p.Entry),
					FormatPrice(p.Stop),
					FormatPrice(p.Target),
					strconv.Itoa(p.Confidence),
					string(p.Status),
					fmt.Sprintf("%.2f", p.RAchieved),
					p.CreatedAt.Format("2006-01-02 15:04"),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "filter by symbol")
	cmd.Flags().String("status", "", "filter by status: pending, win, loss or expired")
	cmd.Flags().Int("limit", 50, "maximum number of plans to list")
	return cmd
}

func newReportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "report",
		Short:   "Show aggregate plan performance",
		Example: `  planner report`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("plan store is not available")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			summary, err := app.Store.PerformanceSummary(ctx)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(summary)
			}

			output.Bold("Plan performance")
			output.Printf("  Total    %d\n", summary.Total)
			output.Printf("  Pending  %d\n", summary.Pending)
			output.Printf("  Wins     %d\n", summary.Wins)
			output.Printf("  Losses   %d\n", summary.Losses)
			output.Printf("  Expired  %d\n", summary.Expired)
			output.Printf("  Win rate %.1f%%\n", summary.WinRate*100)
			output.Printf("  Avg R    %.2f\n", summary.AverageR)

			if len(summary.Edges) > 0 {
				output.Println()
				output.Bold("By edge")
				names := make([]string, 0, len(summary.Edges))
				for name := range summary.Edges {
					names = append(names, name)
				}
				sort.Strings(names)

				table := NewTable(output, "EDGE", "PLANNED", "WINS", "LOSSES", "WIN RATE")
				for _, name := range names {
					stat := summary.Edges[name]
					table.AddRow(
						name,
						strconv.Itoa(stat.Planned),
						strconv.Itoa(stat.Wins),
						strconv.Itoa(stat.Losses),
						fmt.Sprintf("%.1f%%", stat.WinRate()*100),
					)
				}
				table.Render()
			}
			return nil
		},
	}
}

// shortID truncates a UUID to its first segment for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
