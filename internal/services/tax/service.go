// Package tax aggregates the tax strategy hub view model
package tax

import (
	"context"
	"time"

	"github.com/clarityfi/clarity/internal/common"
	"github.com/clarityfi/clarity/internal/interfaces"
	"github.com/clarityfi/clarity/internal/models"
)

// Qualified dividend rate assumed by the asset-location estimate.
const qualifiedDividendRate = 0.15

// Service implements TaxService
type Service struct {
	storage interfaces.StorageManager
	ttl     time.Duration
	logger  *common.Logger
}

// NewService creates a new tax strategy hub service
func NewService(storage interfaces.StorageManager, cfg *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		ttl:     cfg.Hubs.GetCacheTTL(),
		logger:  logger,
	}
}

// GetTaxStrategyHub returns the tax strategy hub view model. Fetch failures
// degrade to the zero-value default; the accessor never fails.
func (s *Service) GetTaxStrategyHub(ctx context.Context, userID string) *models.TaxStrategyHubData {
	if snap, err := s.storage.HubCache().GetHub(ctx, models.HubTaxStrategy); err == nil && snap.IsFresh(s.ttl) {
		if data, err := models.DecodeSnapshot[models.TaxStrategyHubData](snap); err == nil {
			return data
		}
	}

	records := s.storage.Records()

	holdings, err := records.ListHoldings(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Tax hub: failed to load holdings")
		return models.DefaultTaxStrategyHubData()
	}

	profile, err := records.GetTaxProfile(ctx, userID)
	if err != nil {
		profile = nil // no profile: the view prompts for tax setup
	}

	data := ComputeTaxStrategyHub(holdings, profile)

	s.writeCache(ctx, data, false)

	return data
}

// SetTaxStrategyHub writes a manual override snapshot for the tax hub.
func (s *Service) SetTaxStrategyHub(ctx context.Context, userID string, data *models.TaxStrategyHubData) error {
	data.ComputedAt = time.Now().UTC()
	snap, err := models.NewHubSnapshot(models.HubTaxStrategy, data, true)
	if err != nil {
		return err
	}
	return s.storage.HubCache().PutHub(ctx, snap)
}

func (s *Service) writeCache(ctx context.Context, data *models.TaxStrategyHubData, manual bool) {
	snap, err := models.NewHubSnapshot(models.HubTaxStrategy, data, manual)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Tax hub: failed to build cache snapshot")
		return
	}
	if err := s.storage.HubCache().PutHub(ctx, snap); err != nil {
		s.logger.Warn().Err(err).Msg("Tax hub: cache write failed")
	}
}

// ComputeTaxStrategyHub derives the tax strategy catalog with heuristic
// savings estimates. A nil profile produces a single setup prompt with zero
// savings rather than guessing at rates.
func ComputeTaxStrategyHub(holdings []*models.Holding, profile *models.TaxProfile) *models.TaxStrategyHubData {
	if profile == nil {
		return &models.TaxStrategyHubData{
			Strategies: []models.TaxStrategy{
				{
					ID:          "tax-setup",
					Name:        "Tax Setup Required",
					Description: "Add your tax profile (state and brackets) to unlock strategy estimates.",
				},
			},
			ComputedAt: time.Now().UTC(),
		}
	}

	portfolioValue := 0.0
	annualDividends := 0.0
	for _, h := range holdings {
		portfolioValue += h.CurrentValue()
		annualDividends += h.AnnualDividend()
	}

	// Heuristic estimates, not tax advice. Each assumes a fixed fraction of
	// the portfolio participates in the strategy.
	lossHarvesting := portfolioValue * 0.02 * profile.MarginalRate

	assetLocation := annualDividends * (profile.MarginalRate - qualifiedDividendRate)
	if assetLocation < 0 {
		assetLocation = 0
	}

	rothConversion := portfolioValue * 0.01 * (profile.MarginalRate - profile.EffectiveRate)
	if rothConversion < 0 {
		rothConversion = 0
	}

	charitable := annualDividends * 0.10 * profile.MarginalRate

	strategies := []models.TaxStrategy{
		{
			ID:               "loss-harvesting",
			Name:             "Tax Loss Harvesting",
			Description:      "Realize losses on underwater positions to offset capital gains.",
			EstimatedSavings: lossHarvesting,
		},
		{
			ID:               "asset-location",
			Name:             "Asset Location",
			Description:      "Hold dividend payers in tax-advantaged accounts to capture the qualified rate.",
			EstimatedSavings: assetLocation,
		},
		{
			ID:               "roth-conversion",
			Name:             "Roth Conversion",
			Description:      "Convert a slice of pre-tax assets in low-income years.",
			EstimatedSavings: rothConversion,
		},
		{
			ID:               "charitable-giving",
			Name:             "Charitable Giving",
			Description:      "Donate appreciated shares instead of cash.",
			EstimatedSavings: charitable,
		},
	}

	total := 0.0
	for _, st := range strategies {
		total += st.EstimatedSavings
	}

	return &models.TaxStrategyHubData{
		CurrentLocation:  profile.State,
		TaxRate:          profile.EffectiveRate,
		Strategies:       strategies,
		PotentialSavings: total,
		ComputedAt:       time.Now().UTC(),
	}
}

// Ensure Service implements TaxService
var _ interfaces.TaxService = (*Service)(nil)
