package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarityfi/clarity/internal/models"
)

func TestRecordStoreHoldingCRUD(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	holding := &models.Holding{
		UserID:           "local",
		Ticker:           "SCHD",
		Shares:           100,
		CostBasis:        60,
		CurrentPrice:     80,
		DividendYieldPct: 3.5,
	}
	require.NoError(t, m.Records().SaveHolding(ctx, holding))

	// Saving the same ticker replaces the position.
	holding.Shares = 150
	require.NoError(t, m.Records().SaveHolding(ctx, holding))

	holdings, err := m.Records().ListHoldings(ctx, "local")
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, 150.0, holdings[0].Shares)
	assert.False(t, holdings[0].UpdatedAt.IsZero())

	// Other users see nothing.
	other, err := m.Records().ListHoldings(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, m.Records().DeleteHolding(ctx, "local", "SCHD"))
	assert.Error(t, m.Records().DeleteHolding(ctx, "local", "SCHD"))
}

func TestRecordStoreValidationRejected(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	err := m.Records().SaveHolding(ctx, &models.Holding{UserID: "local", Ticker: "", Shares: 1, CostBasis: 10})
	assert.Error(t, err)

	err = m.Records().SaveGoal(ctx, &models.FinancialGoal{ID: "g1", UserID: "local", Name: "House", TargetAmount: -5})
	assert.Error(t, err)
}

func TestRecordStoreListReturnsCopies(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	require.NoError(t, m.Records().SaveIncome(ctx, &models.Income{ID: "i1", UserID: "local", Amount: 1000}))

	incomes, err := m.Records().ListIncomes(ctx, "local")
	require.NoError(t, err)
	require.Len(t, incomes, 1)

	// Mutating a listed record must not touch the store.
	incomes[0].Amount = 9999

	again, err := m.Records().ListIncomes(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, again[0].Amount)
}

func TestRecordStoreTaxProfileLifecycle(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	_, err := m.Records().GetTaxProfile(ctx, "local")
	assert.Error(t, err, "missing profile should be an error")

	profile := &models.TaxProfile{UserID: "local", State: "TX", EffectiveRate: 0.18, MarginalRate: 0.24}
	require.NoError(t, m.Records().SaveTaxProfile(ctx, profile))

	got, err := m.Records().GetTaxProfile(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, "TX", got.State)

	require.NoError(t, m.Records().DeleteTaxProfile(ctx, "local"))
	_, err = m.Records().GetTaxProfile(ctx, "local")
	assert.Error(t, err)
}

func TestHubCacheRoundTrip(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	_, err := m.HubCache().GetHub(ctx, models.HubPerformance)
	assert.Error(t, err, "empty cache should miss")

	data := models.DefaultPerformanceHubData(580.25)
	data.PortfolioValue = 12345
	snap, err := models.NewHubSnapshot(models.HubPerformance, data, false)
	require.NoError(t, err)
	require.NoError(t, m.HubCache().PutHub(ctx, snap))

	got, err := m.HubCache().GetHub(ctx, models.HubPerformance)
	require.NoError(t, err)
	decoded, err := models.DecodeSnapshot[models.PerformanceHubData](got)
	require.NoError(t, err)
	assert.Equal(t, 12345.0, decoded.PortfolioValue)

	require.NoError(t, m.HubCache().DeleteHub(ctx, models.HubPerformance))
	_, err = m.HubCache().GetHub(ctx, models.HubPerformance)
	assert.Error(t, err)
}
