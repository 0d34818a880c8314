// Package performance aggregates the performance hub view model
package performance

import (
	"context"
	"time"

	"github.com/clarityfi/clarity/internal/common"
	"github.com/clarityfi/clarity/internal/interfaces"
	"github.com/clarityfi/clarity/internal/models"
)

// Service implements PerformanceService
type Service struct {
	storage interfaces.StorageManager
	market  common.MarketConfig
	ttl     time.Duration
	logger  *common.Logger
}

// NewService creates a new performance hub service
func NewService(storage interfaces.StorageManager, cfg *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		market:  cfg.Market,
		ttl:     cfg.Hubs.GetCacheTTL(),
		logger:  logger,
	}
}

// GetPerformanceHub returns the performance hub view model. Fetch failures
// degrade to the zero-value default; the accessor never fails.
func (s *Service) GetPerformanceHub(ctx context.Context, userID string) *models.PerformanceHubData {
	if snap, err := s.storage.HubCache().GetHub(ctx, models.HubPerformance); err == nil && snap.IsFresh(s.ttl) {
		if data, err := models.DecodeSnapshot[models.PerformanceHubData](snap); err == nil {
			return data
		}
	}

	holdings, err := s.storage.Records().ListHoldings(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Performance hub: failed to load holdings")
		return models.DefaultPerformanceHubData(s.market.SPYPrice)
	}

	data := ComputePerformanceHub(holdings, s.market)

	s.writeCache(ctx, data, false)

	return data
}

// SetPerformanceHub writes a manual override snapshot for the performance hub.
func (s *Service) SetPerformanceHub(ctx context.Context, userID string, data *models.PerformanceHubData) error {
	data.ComputedAt = time.Now().UTC()
	snap, err := models.NewHubSnapshot(models.HubPerformance, data, true)
	if err != nil {
		return err
	}
	return s.storage.HubCache().PutHub(ctx, snap)
}

func (s *Service) writeCache(ctx context.Context, data *models.PerformanceHubData, manual bool) {
	snap, err := models.NewHubSnapshot(models.HubPerformance, data, manual)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Performance hub: failed to build cache snapshot")
		return
	}
	if err := s.storage.HubCache().PutHub(ctx, snap); err != nil {
		s.logger.Warn().Err(err).Msg("Performance hub: cache write failed")
	}
}

// ComputePerformanceHub derives portfolio performance from holdings.
// Division guards: the weighted yield is 0 when total value is 0, and total
// return is 0 when total cost basis is 0.
func ComputePerformanceHub(holdings []*models.Holding, market common.MarketConfig) *models.PerformanceHubData {
	totalValue := 0.0
	totalCost := 0.0
	yearlyDividends := 0.0
	weightedYieldSum := 0.0

	perHolding := make([]models.HoldingPerformance, 0, len(holdings))
	for _, h := range holdings {
		value := h.CurrentValue()
		cost := h.TotalCost()
		annualDiv := h.AnnualDividend()

		totalValue += value
		totalCost += cost
		yearlyDividends += annualDiv
		weightedYieldSum += h.DividendYieldPct * value

		returnPct := 0.0
		if cost > 0 {
			returnPct = (value - cost) / cost * 100
		}

		perHolding = append(perHolding, models.HoldingPerformance{
			Ticker:         h.Ticker,
			Shares:         h.Shares,
			CurrentValue:   value,
			CostBasis:      cost,
			AnnualDividend: annualDiv,
			YieldPct:       h.DividendYieldPct,
			ReturnPct:      returnPct,
		})
	}

	dividendYieldPct := 0.0
	if totalValue > 0 {
		dividendYieldPct = weightedYieldSum / totalValue
	}

	totalReturnPct := 0.0
	if totalCost > 0 {
		totalReturnPct = (totalValue - totalCost) / totalCost * 100
	}

	for i := range perHolding {
		if totalValue > 0 {
			perHolding[i].WeightPct = perHolding[i].CurrentValue / totalValue * 100
		}
	}

	return &models.PerformanceHubData{
		PortfolioValue:   totalValue,
		SPYPrice:         market.SPYPrice,
		TotalReturnPct:   totalReturnPct,
		DividendYieldPct: dividendYieldPct,
		MonthlyDividends: yearlyDividends / 12,
		YearlyDividends:  yearlyDividends,
		SPYComparisonPct: totalReturnPct - market.AssumedSPYReturnPct,
		Holdings:         perHolding,
		ComputedAt:       time.Now().UTC(),
	}
}

// Ensure Service implements PerformanceService
var _ interfaces.PerformanceService = (*Service)(nil)
