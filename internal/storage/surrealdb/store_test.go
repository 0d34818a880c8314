package surrealdb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/clarityfi/clarity/internal/common"
	"github.com/clarityfi/clarity/internal/models"
)

// Live-database tests. Set CLARITY_TEST_DB_ADDRESS to a running SurrealDB
// instance (e.g. ws://localhost:8000/rpc) to enable.
func newLiveManager(t *testing.T) *Manager {
	t.Helper()
	addr := os.Getenv("CLARITY_TEST_DB_ADDRESS")
	if addr == "" {
		t.Skip("CLARITY_TEST_DB_ADDRESS not set, skipping live SurrealDB tests")
	}

	cfg := common.NewDefaultConfig()
	cfg.Storage.Address = addr
	cfg.Storage.Namespace = "clarity_test"
	cfg.Storage.Database = fmt.Sprintf("test_%d", time.Now().UnixNano())
	cfg.Storage.Username = os.Getenv("CLARITY_TEST_DB_USERNAME")
	cfg.Storage.Password = os.Getenv("CLARITY_TEST_DB_PASSWORD")

	m, err := NewManager(common.NewSilentLogger(), cfg)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestRecordStoreHoldingRoundTrip(t *testing.T) {
	m := newLiveManager(t)
	ctx := context.Background()

	holding := &models.Holding{
		UserID:           "tester",
		Ticker:           "SCHD",
		Shares:           100,
		CostBasis:        60,
		CurrentPrice:     80,
		DividendYieldPct: 3.5,
		Sector:           "Financials",
	}
	if err := m.Records().SaveHolding(ctx, holding); err != nil {
		t.Fatalf("failed to save holding: %v", err)
	}

	// Upsert under the same ID replaces, not duplicates.
	holding.CurrentPrice = 85
	if err := m.Records().SaveHolding(ctx, holding); err != nil {
		t.Fatalf("failed to update holding: %v", err)
	}

	holdings, err := m.Records().ListHoldings(ctx, "tester")
	if err != nil {
		t.Fatalf("failed to list holdings: %v", err)
	}
	if len(holdings) != 1 {
		t.Fatalf("expected 1 holding after upsert, got %d", len(holdings))
	}
	if holdings[0].CurrentPrice != 85 {
		t.Fatalf("expected updated price 85, got %.2f", holdings[0].CurrentPrice)
	}

	if err := m.Records().DeleteHolding(ctx, "tester", "SCHD"); err != nil {
		t.Fatalf("failed to delete holding: %v", err)
	}
	holdings, err = m.Records().ListHoldings(ctx, "tester")
	if err != nil {
		t.Fatalf("failed to list holdings after delete: %v", err)
	}
	if len(holdings) != 0 {
		t.Fatalf("expected no holdings after delete, got %d", len(holdings))
	}
}

func TestRecordStoreTaxProfileRoundTrip(t *testing.T) {
	m := newLiveManager(t)
	ctx := context.Background()

	if _, err := m.Records().GetTaxProfile(ctx, "tester"); err == nil {
		t.Fatal("expected error for missing tax profile")
	}

	profile := &models.TaxProfile{UserID: "tester", State: "WA", EffectiveRate: 0.2, MarginalRate: 0.24}
	if err := m.Records().SaveTaxProfile(ctx, profile); err != nil {
		t.Fatalf("failed to save tax profile: %v", err)
	}

	got, err := m.Records().GetTaxProfile(ctx, "tester")
	if err != nil {
		t.Fatalf("failed to get tax profile: %v", err)
	}
	if got.State != "WA" || got.EffectiveRate != 0.2 {
		t.Fatalf("unexpected profile round trip: %+v", got)
	}
}

func TestHubCacheStoreRoundTrip(t *testing.T) {
	m := newLiveManager(t)
	ctx := context.Background()

	if _, err := m.HubCache().GetHub(ctx, models.HubIncome); err == nil {
		t.Fatal("expected error for missing snapshot")
	}

	data := models.DefaultIncomeHubData()
	data.MonthlyDividendIncome = 42
	snap, err := models.NewHubSnapshot(models.HubIncome, data, false)
	if err != nil {
		t.Fatalf("failed to build snapshot: %v", err)
	}
	if err := m.HubCache().PutHub(ctx, snap); err != nil {
		t.Fatalf("failed to put snapshot: %v", err)
	}

	got, err := m.HubCache().GetHub(ctx, models.HubIncome)
	if err != nil {
		t.Fatalf("failed to get snapshot: %v", err)
	}
	decoded, err := models.DecodeSnapshot[models.IncomeHubData](got)
	if err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	if decoded.MonthlyDividendIncome != 42 {
		t.Fatalf("unexpected decoded payload: %+v", decoded)
	}

	if err := m.HubCache().DeleteHub(ctx, models.HubIncome); err != nil {
		t.Fatalf("failed to delete snapshot: %v", err)
	}
	if _, err := m.HubCache().GetHub(ctx, models.HubIncome); err == nil {
		t.Fatal("expected error after snapshot delete")
	}
}
