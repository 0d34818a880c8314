// Package interfaces defines service contracts for Clarity
package interfaces

import (
	"context"

	"github.com/clarityfi/clarity/internal/models"
)

// Hub accessors never return an error: missing records, storage failures,
// and collaborator failures all degrade to the documented default view
// model, observable only via logs. The Set accessors write a manual
// override snapshot to the hub cache and report errors normally.

// IncomeService produces the income hub view model.
type IncomeService interface {
	GetIncomeHub(ctx context.Context, userID string) *models.IncomeHubData
	SetIncomeHub(ctx context.Context, userID string, data *models.IncomeHubData) error
}

// PerformanceService produces the performance hub view model.
type PerformanceService interface {
	GetPerformanceHub(ctx context.Context, userID string) *models.PerformanceHubData
	SetPerformanceHub(ctx context.Context, userID string, data *models.PerformanceHubData) error
}

// StrategyService produces the portfolio strategy hub view model.
type StrategyService interface {
	GetPortfolioStrategyHub(ctx context.Context, userID string) *models.PortfolioStrategyHubData
	SetPortfolioStrategyHub(ctx context.Context, userID string, data *models.PortfolioStrategyHubData) error
}

// TaxService produces the tax strategy hub view model.
type TaxService interface {
	GetTaxStrategyHub(ctx context.Context, userID string) *models.TaxStrategyHubData
	SetTaxStrategyHub(ctx context.Context, userID string, data *models.TaxStrategyHubData) error
}

// PlanningService produces the financial planning hub view model.
type PlanningService interface {
	GetFinancialPlanningHub(ctx context.Context, userID string) *models.FinancialPlanningHubData
	SetFinancialPlanningHub(ctx context.Context, userID string, data *models.FinancialPlanningHubData) error
}
