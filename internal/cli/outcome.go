package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trade-planner/internal/logging"
	"trade-planner/internal/models"
)

func newOutcomeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outcome <plan-id> <win|loss|expired>",
		Short: "Record the outcome of a saved plan",
		Example: `  planner outcome 3f1c win --r 2.0
  planner outcome 3f1c loss --r -1.0
  planner outcome 3f1c expired`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("plan store is not available")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			planID := args[0]
			status, err := parseOutcome(args[1])
			if err != nil {
				return err
			}
			rAchieved, _ := cmd.Flags().GetFloat64("r")

			if err := app.Store.UpdateOutcome(ctx, planID, status, rAchieved); err != nil {
				return err
			}
			logging.LogOutcome(app.Logger, planID, string(status), rAchieved)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"plan_id":    planID,
					"status":     status,
					"r_achieved": rAchieved,
				})
			}
			output.Success("Plan %s recorded as %s (%.2fR)", planID, status, rAchieved)
			return nil
		},
	}

	cmd.Flags().Float64("r", 0, "realized R multiple for the trade")
	return cmd
}

func parseOutcome(value string) (models.PlanStatus, error) {
	switch strings.ToLower(value) {
	case "win":
		return models.PlanWin, nil
	case "loss":
		return models.PlanLoss, nil
	case "expired":
		return models.PlanExpired, nil
	}
	return "", fmt.Errorf("unknown outcome %q (want win, loss or expired)", value)
}

func newExpireCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expire",
		Short:   "Expire stale pending plans",
		Example: `  planner expire --older-than 48h`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("plan store is not available")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			olderThan, _ := cmd.Flags().GetDuration("older-than")

			expired, err := app.Store.MarkExpired(ctx, olderThan)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"expired":    expired,
					"older_than": olderThan.String(),
				})
			}
			output.Info("Expired %d pending plan(s) older than %s", expired, olderThan)
			return nil
		},
	}

	cmd.Flags().Duration("older-than", 48*time.Hour, "expire pending plans created before this age")
	return cmd
}
