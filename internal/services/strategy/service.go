// Package strategy aggregates the portfolio strategy hub view model
package strategy

import (
	"context"
	"sort"
	"time"

	"github.com/clarityfi/clarity/internal/common"
	"github.com/clarityfi/clarity/internal/interfaces"
	"github.com/clarityfi/clarity/internal/models"
)

// Service implements StrategyService
type Service struct {
	storage    interfaces.StorageManager
	riskClient interfaces.RiskMetricsClient // nil when no risk service is configured
	market     common.MarketConfig
	riskCfg    common.RiskDataConfig
	ttl        time.Duration
	logger     *common.Logger
}

// NewService creates a new portfolio strategy hub service. riskClient may be
// nil; risk metrics then always come from the configured fallback values.
func NewService(storage interfaces.StorageManager, riskClient interfaces.RiskMetricsClient, cfg *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage:    storage,
		riskClient: riskClient,
		market:     cfg.Market,
		riskCfg:    cfg.Clients.RiskData,
		ttl:        cfg.Hubs.GetCacheTTL(),
		logger:     logger,
	}
}

// GetPortfolioStrategyHub returns the strategy hub view model. Fetch
// failures degrade to the zero-value default; the accessor never fails.
func (s *Service) GetPortfolioStrategyHub(ctx context.Context, userID string) *models.PortfolioStrategyHubData {
	if snap, err := s.storage.HubCache().GetHub(ctx, models.HubPortfolioStrategy); err == nil && snap.IsFresh(s.ttl) {
		if data, err := models.DecodeSnapshot[models.PortfolioStrategyHubData](snap); err == nil {
			return data
		}
	}

	holdings, err := s.storage.Records().ListHoldings(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Strategy hub: failed to load holdings")
		return models.DefaultPortfolioStrategyHubData()
	}

	data := ComputePortfolioStrategyHub(holdings)
	data.RiskMetrics = s.fetchRiskMetrics(ctx, userID)

	s.writeCache(ctx, data, false)

	return data
}

// SetPortfolioStrategyHub writes a manual override snapshot for the strategy hub.
func (s *Service) SetPortfolioStrategyHub(ctx context.Context, userID string, data *models.PortfolioStrategyHubData) error {
	data.ComputedAt = time.Now().UTC()
	snap, err := models.NewHubSnapshot(models.HubPortfolioStrategy, data, true)
	if err != nil {
		return err
	}
	return s.storage.HubCache().PutHub(ctx, snap)
}

// fetchRiskMetrics asks the risk service under a bounded timeout. Any
// failure returns the configured fallback metrics tagged with the reason,
// logged once per computation.
func (s *Service) fetchRiskMetrics(ctx context.Context, userID string) models.RiskMetrics {
	if s.riskClient == nil {
		return s.fallbackRiskMetrics("risk service not configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.riskCfg.GetTimeout())
	defer cancel()

	metrics, err := s.riskClient.CalculateRiskMetrics(callCtx, userID, s.riskCfg.Period)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Strategy hub: risk metrics unavailable, using fallback")
		return s.fallbackRiskMetrics(err.Error())
	}

	metrics.Source = models.RiskSourceComputed
	metrics.FallbackReason = ""
	return *metrics
}

func (s *Service) fallbackRiskMetrics(reason string) models.RiskMetrics {
	return models.RiskMetrics{
		Beta:           s.market.FallbackBeta,
		VolatilityPct:  s.market.FallbackVolatilityPct,
		SharpeRatio:    s.market.FallbackSharpeRatio,
		MaxDrawdownPct: s.market.FallbackMaxDrawdownPct,
		Source:         models.RiskSourceFallback,
		FallbackReason: reason,
	}
}

func (s *Service) writeCache(ctx context.Context, data *models.PortfolioStrategyHubData, manual bool) {
	snap, err := models.NewHubSnapshot(models.HubPortfolioStrategy, data, manual)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Strategy hub: failed to build cache snapshot")
		return
	}
	if err := s.storage.HubCache().PutHub(ctx, snap); err != nil {
		s.logger.Warn().Err(err).Msg("Strategy hub: cache write failed")
	}
}

// ComputePortfolioStrategyHub derives allocations and the strategy catalog
// from holdings. RiskMetrics is left zero for the caller to fill in.
func ComputePortfolioStrategyHub(holdings []*models.Holding) *models.PortfolioStrategyHubData {
	totalValue := 0.0
	for _, h := range holdings {
		totalValue += h.CurrentValue()
	}

	allocations := make([]models.HoldingAllocation, 0, len(holdings))
	sectorValues := make(map[string]float64)
	sectorTickers := make(map[string][]string)

	for _, h := range holdings {
		value := h.CurrentValue()
		sector := h.SectorOrDefault()

		weight := 0.0
		if totalValue > 0 {
			weight = value / totalValue * 100
		}

		allocations = append(allocations, models.HoldingAllocation{
			Ticker:       h.Ticker,
			Sector:       sector,
			CurrentValue: value,
			WeightPct:    weight,
		})

		sectorValues[sector] += value
		sectorTickers[sector] = append(sectorTickers[sector], h.Ticker)
	}

	sectors := make([]models.SectorAllocation, 0, len(sectorValues))
	for sector, value := range sectorValues {
		weight := 0.0
		if totalValue > 0 {
			weight = value / totalValue * 100
		}
		sectors = append(sectors, models.SectorAllocation{
			Sector:    sector,
			Value:     value,
			WeightPct: weight,
			Holdings:  sectorTickers[sector],
		})
	}
	sort.Slice(sectors, func(i, j int) bool {
		if sectors[i].Value != sectors[j].Value {
			return sectors[i].Value > sectors[j].Value
		}
		return sectors[i].Sector < sectors[j].Sector
	})

	return &models.PortfolioStrategyHubData{
		Holdings:         allocations,
		SectorAllocation: sectors,
		RiskMetrics:      models.RiskMetrics{},
		Strategies:       buildStrategyCatalog(holdings, sectors),
		ComputedAt:       time.Now().UTC(),
	}
}

// buildStrategyCatalog evaluates the fixed strategy list against the
// portfolio's current shape.
func buildStrategyCatalog(holdings []*models.Holding, sectors []models.SectorAllocation) []models.StrategyEntry {
	diversification := models.StrategyEntry{
		ID:          "sector-diversification",
		Name:        "Sector Diversification",
		Description: "Spread positions across more than three sectors to limit concentration risk.",
		Status:      models.StrategyStatusSuggested,
	}
	if len(sectors) > 3 {
		diversification.Status = models.StrategyStatusActive
	}

	dividendFocus := models.StrategyEntry{
		ID:          "dividend-focus",
		Name:        "Dividend Focus",
		Description: "Hold income-producing positions with a meaningful dividend yield.",
		Status:      models.StrategyStatusSuggested,
	}
	for _, h := range holdings {
		if h.DividendYieldPct >= 3.0 {
			dividendFocus.Status = models.StrategyStatusActive
			break
		}
	}

	positionSizing := models.StrategyEntry{
		ID:          "position-sizing",
		Name:        "Position Sizing",
		Description: "Keep any single position under a quarter of total portfolio value.",
		Status:      models.StrategyStatusSuggested,
	}
	if len(holdings) > 0 {
		positionSizing.Status = models.StrategyStatusActive
		totalValue := 0.0
		for _, h := range holdings {
			totalValue += h.CurrentValue()
		}
		for _, h := range holdings {
			if totalValue > 0 && h.CurrentValue()/totalValue > 0.25 {
				positionSizing.Status = models.StrategyStatusSuggested
				break
			}
		}
	}

	return []models.StrategyEntry{diversification, dividendFocus, positionSizing}
}

// Ensure Service implements StrategyService
var _ interfaces.StrategyService = (*Service)(nil)
