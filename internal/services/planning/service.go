// Package planning aggregates the financial planning hub view model
package planning

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/clarityfi/clarity/internal/common"
	"github.com/clarityfi/clarity/internal/interfaces"
	"github.com/clarityfi/clarity/internal/models"
)

// Expense multiples per FIRE variant.
const (
	leanMultiple        = 20.0
	traditionalMultiple = 25.0
	fatMultiple         = 30.0
	coastMultiple       = 25.0
)

// projectionYears is the horizon of the compounding series (inclusive of
// year 0, so the series has projectionYears+1 points).
const projectionYears = 10

// Fixed net-worth milestones shown ahead of any user goals.
var fixedMilestones = []models.Milestone{
	{Name: "First $10K", Target: 10_000},
	{Name: "First $100K", Target: 100_000},
	{Name: "Half Million", Target: 500_000},
	{Name: "Millionaire", Target: 1_000_000},
}

// Service implements PlanningService
type Service struct {
	storage interfaces.StorageManager
	market  common.MarketConfig
	ttl     time.Duration
	logger  *common.Logger
}

// NewService creates a new financial planning hub service
func NewService(storage interfaces.StorageManager, cfg *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		market:  cfg.Market,
		ttl:     cfg.Hubs.GetCacheTTL(),
		logger:  logger,
	}
}

// GetFinancialPlanningHub returns the planning hub view model. Fetch
// failures degrade to the zero-value default; the accessor never fails.
func (s *Service) GetFinancialPlanningHub(ctx context.Context, userID string) *models.FinancialPlanningHubData {
	if snap, err := s.storage.HubCache().GetHub(ctx, models.HubFinancialPlanning); err == nil && snap.IsFresh(s.ttl) {
		if data, err := models.DecodeSnapshot[models.FinancialPlanningHubData](snap); err == nil {
			return data
		}
	}

	records := s.storage.Records()

	holdings, err := records.ListHoldings(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Planning hub: failed to load holdings")
		return models.DefaultFinancialPlanningHubData()
	}

	expenses, err := records.ListExpenses(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Planning hub: failed to load expenses")
		return models.DefaultFinancialPlanningHubData()
	}

	goals, err := records.ListGoals(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Planning hub: failed to load goals")
		return models.DefaultFinancialPlanningHubData()
	}

	data := ComputeFinancialPlanningHub(holdings, expenses, goals, s.market)

	s.writeCache(ctx, data, false)

	return data
}

// SetFinancialPlanningHub writes a manual override snapshot for the planning hub.
func (s *Service) SetFinancialPlanningHub(ctx context.Context, userID string, data *models.FinancialPlanningHubData) error {
	data.ComputedAt = time.Now().UTC()
	snap, err := models.NewHubSnapshot(models.HubFinancialPlanning, data, true)
	if err != nil {
		return err
	}
	return s.storage.HubCache().PutHub(ctx, snap)
}

func (s *Service) writeCache(ctx context.Context, data *models.FinancialPlanningHubData, manual bool) {
	snap, err := models.NewHubSnapshot(models.HubFinancialPlanning, data, manual)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Planning hub: failed to build cache snapshot")
		return
	}
	if err := s.storage.HubCache().PutHub(ctx, snap); err != nil {
		s.logger.Warn().Err(err).Msg("Planning hub: cache write failed")
	}
}

// ComputeFinancialPlanningHub derives FIRE targets, milestones, and the
// compounding projection series.
// Annual expenses use the same monthly-entry filter as the income hub
// (MONTHLY and unset only), multiplied by 12.
func ComputeFinancialPlanningHub(holdings []*models.Holding, expenses []*models.Expense, goals []*models.FinancialGoal, market common.MarketConfig) *models.FinancialPlanningHubData {
	portfolioValue := 0.0
	for _, h := range holdings {
		portfolioValue += h.CurrentValue()
	}

	monthlyExpenses := 0.0
	for _, ex := range expenses {
		if ex.Frequency == models.FrequencyMonthly || ex.Frequency == "" {
			monthlyExpenses += ex.Amount
		}
	}
	annualExpenses := monthlyExpenses * 12

	return &models.FinancialPlanningHubData{
		FireTargets: computeFireTargets(portfolioValue, annualExpenses, market.GrowthRate),
		Milestones:  computeMilestones(portfolioValue, goals),
		Projections: computeProjections(portfolioValue, market),
		ComputedAt:  time.Now().UTC(),
	}
}

func computeFireTargets(current, annualExpenses, growthRate float64) []models.FireTarget {
	targets := []models.FireTarget{
		{Type: models.FireTypeLean, TargetValue: annualExpenses * leanMultiple},
		{Type: models.FireTypeTraditional, TargetValue: annualExpenses * traditionalMultiple},
		{Type: models.FireTypeFat, TargetValue: annualExpenses * fatMultiple},
		{Type: models.FireTypeCoast, TargetValue: annualExpenses * coastMultiple},
	}

	for i := range targets {
		t := &targets[i]
		t.ProgressPct = progressPct(current, t.TargetValue)
		if t.Type == models.FireTypeCoast {
			t.YearsToTarget = coastYearsToTarget(current, t.TargetValue, growthRate)
		} else {
			t.YearsToTarget = linearYearsToTarget(current, t.TargetValue, growthRate)
		}
	}
	return targets
}

// linearYearsToTarget estimates years to close the gap assuming growth on
// the current balance only. A zero or negative balance can never close a
// positive gap under this model, hence the sentinel.
func linearYearsToTarget(current, target, growthRate float64) float64 {
	gap := target - current
	if gap <= 0 {
		return 0
	}
	annualGrowth := current * growthRate
	if annualGrowth <= 0 {
		return models.YearsUnreachable
	}
	return gap / annualGrowth
}

// coastYearsToTarget solves target = current × (1+g)^n for n. Guards avoid
// evaluating log on non-positive arguments.
func coastYearsToTarget(current, target, growthRate float64) float64 {
	if target <= 0 || current >= target {
		return 0
	}
	if current <= 0 || growthRate <= 0 {
		return models.YearsUnreachable
	}
	return math.Log(target/current) / math.Log(1+growthRate)
}

// progressPct reports current/target as a percentage clamped to [0,100].
func progressPct(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	pct := current / target * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// computeMilestones combines the fixed net-worth checkpoints with the
// user's active goals, sorted by target ascending.
func computeMilestones(portfolioValue float64, goals []*models.FinancialGoal) []models.Milestone {
	milestones := make([]models.Milestone, 0, len(fixedMilestones)+len(goals))
	milestones = append(milestones, fixedMilestones...)

	for _, g := range goals {
		if !g.IsActive {
			continue
		}
		milestones = append(milestones, models.Milestone{
			Name:   g.Name,
			Target: g.TargetAmount,
		})
	}

	for i := range milestones {
		m := &milestones[i]
		m.Percentage = progressPct(portfolioValue, m.Target)
		m.Completed = portfolioValue >= m.Target
	}

	sort.SliceStable(milestones, func(i, j int) bool {
		return milestones[i].Target < milestones[j].Target
	})
	return milestones
}

// computeProjections builds the 11-point compounding series (years 0..10).
// The annual contribution is fixed at the configured fraction of the
// STARTING portfolio value for every year of the horizon, not recomputed
// as the balance grows.
func computeProjections(startValue float64, market common.MarketConfig) []models.ProjectionPoint {
	contribution := startValue * market.ContributionRate

	points := make([]models.ProjectionPoint, 0, projectionYears+1)
	value := startValue
	for year := 0; year <= projectionYears; year++ {
		points = append(points, models.ProjectionPoint{
			Year:               year,
			Value:              value,
			AnnualDividends:    value * market.ProjectionDividendYield,
			AnnualContribution: contribution,
		})
		value = value*(1+market.GrowthRate) + contribution
	}
	return points
}

// Ensure Service implements PlanningService
var _ interfaces.PlanningService = (*Service)(nil)
