// Package income aggregates the income hub view model
package income

import (
	"context"
	"time"

	"github.com/clarityfi/clarity/internal/common"
	"github.com/clarityfi/clarity/internal/interfaces"
	"github.com/clarityfi/clarity/internal/models"
)

// Fixed expense milestone thresholds: the monthly dividend income needed to
// call a household bucket "covered". Deliberately a flat heuristic, not
// derived from the user's actual bills.
var expenseMilestoneCatalog = []models.ExpenseMilestone{
	{Name: "Housing", Threshold: 500},
	{Name: "Utilities", Threshold: 200},
	{Name: "Food", Threshold: 400},
}

// Service implements IncomeService
type Service struct {
	storage interfaces.StorageManager
	ttl     time.Duration
	logger  *common.Logger
}

// NewService creates a new income hub service
func NewService(storage interfaces.StorageManager, cfg *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		ttl:     cfg.Hubs.GetCacheTTL(),
		logger:  logger,
	}
}

// GetIncomeHub returns the income hub view model. Fetch failures degrade to
// the zero-value default; the accessor never fails.
func (s *Service) GetIncomeHub(ctx context.Context, userID string) *models.IncomeHubData {
	if snap, err := s.storage.HubCache().GetHub(ctx, models.HubIncome); err == nil && snap.IsFresh(s.ttl) {
		if data, err := models.DecodeSnapshot[models.IncomeHubData](snap); err == nil {
			return data
		}
	}

	records := s.storage.Records()

	holdings, err := records.ListHoldings(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Income hub: failed to load holdings")
		return models.DefaultIncomeHubData()
	}

	incomes, err := records.ListIncomes(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Income hub: failed to load incomes")
		return models.DefaultIncomeHubData()
	}

	expenses, err := records.ListExpenses(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Income hub: failed to load expenses")
		return models.DefaultIncomeHubData()
	}

	profile, err := records.GetTaxProfile(ctx, userID)
	if err != nil {
		// No profile is a normal state for new users — apply defaults.
		profile = models.DefaultTaxProfile(userID)
	}

	data := ComputeIncomeHub(holdings, incomes, expenses, profile)

	s.writeCache(ctx, data, false)

	return data
}

// SetIncomeHub writes a manual override snapshot for the income hub.
func (s *Service) SetIncomeHub(ctx context.Context, userID string, data *models.IncomeHubData) error {
	data.ComputedAt = time.Now().UTC()
	snap, err := models.NewHubSnapshot(models.HubIncome, data, true)
	if err != nil {
		return err
	}
	return s.storage.HubCache().PutHub(ctx, snap)
}

func (s *Service) writeCache(ctx context.Context, data *models.IncomeHubData, manual bool) {
	snap, err := models.NewHubSnapshot(models.HubIncome, data, manual)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Income hub: failed to build cache snapshot")
		return
	}
	if err := s.storage.HubCache().PutHub(ctx, snap); err != nil {
		s.logger.Warn().Err(err).Msg("Income hub: cache write failed")
	}
}

// ComputeIncomeHub derives the income waterfall from raw records.
// Income and expense sums include only MONTHLY and unset-frequency entries
// (unset treated as monthly); quarterly and annual entries are excluded from
// the monthly totals, matching the dashboard's long-standing behavior.
func ComputeIncomeHub(holdings []*models.Holding, incomes []*models.Income, expenses []*models.Expense, profile *models.TaxProfile) *models.IncomeHubData {
	monthlyDividendIncome := 0.0
	for _, h := range holdings {
		monthlyDividendIncome += h.AnnualDividend() / 12
	}

	monthlyIncomes := 0.0
	for _, in := range incomes {
		if includedInMonthlySum(in.Frequency) {
			monthlyIncomes += in.Amount
		}
	}

	monthlyExpenses := 0.0
	for _, ex := range expenses {
		if includedInMonthlySum(ex.Frequency) {
			monthlyExpenses += ex.Amount
		}
	}

	effectiveRate := models.DefaultEffectiveTaxRate
	if profile != nil {
		effectiveRate = profile.EffectiveRate
	}

	grossMonthly := monthlyIncomes + monthlyDividendIncome
	taxOwed := grossMonthly * effectiveRate
	netMonthly := grossMonthly - taxOwed
	availableToReinvest := netMonthly - monthlyExpenses

	milestones := make([]models.ExpenseMilestone, len(expenseMilestoneCatalog))
	for i, m := range expenseMilestoneCatalog {
		m.Covered = monthlyDividendIncome > m.Threshold
		milestones[i] = m
	}

	return &models.IncomeHubData{
		MonthlyDividendIncome: monthlyDividendIncome,
		GrossMonthly:          grossMonthly,
		TaxOwed:               taxOwed,
		NetMonthly:            netMonthly,
		MonthlyExpenses:       monthlyExpenses,
		AvailableToReinvest:   availableToReinvest,
		AboveZeroLine:         availableToReinvest > 0,
		ExpenseMilestones:     milestones,
		ComputedAt:            time.Now().UTC(),
	}
}

// includedInMonthlySum reports whether an entry's frequency is counted in
// the monthly totals.
func includedInMonthlySum(f models.Frequency) bool {
	return f == models.FrequencyMonthly || f == ""
}

// Ensure Service implements IncomeService
var _ interfaces.IncomeService = (*Service)(nil)
