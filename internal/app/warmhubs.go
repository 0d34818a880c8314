package app

import (
	"context"
	"os"
	"time"
)

// warmHubs computes all five hubs on startup so the first dashboard load is
// served from cache. Each Get call writes its snapshot as a side effect.
func warmHubs(ctx context.Context, a *App) {
	if os.Getenv("CLARITY_WARM_HUBS") == "off" {
		a.Logger.Info().Msg("Warm hubs: disabled via CLARITY_WARM_HUBS=off")
		return
	}

	start := time.Now()
	userID := a.Config.DefaultUser

	a.IncomeService.GetIncomeHub(ctx, userID)
	a.PerformanceService.GetPerformanceHub(ctx, userID)
	a.StrategyService.GetPortfolioStrategyHub(ctx, userID)
	a.TaxService.GetTaxStrategyHub(ctx, userID)
	a.PlanningService.GetFinancialPlanningHub(ctx, userID)

	a.Logger.Info().
		Str("user", userID).
		Dur("duration", time.Since(start)).
		Msg("Warm hubs: all hub caches populated")
}
