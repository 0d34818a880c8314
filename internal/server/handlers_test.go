package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clarityfi/clarity/internal/app"
	"github.com/clarityfi/clarity/internal/common"
	"github.com/clarityfi/clarity/internal/models"
	"github.com/clarityfi/clarity/internal/services/income"
	"github.com/clarityfi/clarity/internal/services/performance"
	"github.com/clarityfi/clarity/internal/services/planning"
	"github.com/clarityfi/clarity/internal/services/strategy"
	"github.com/clarityfi/clarity/internal/services/tax"
	"github.com/clarityfi/clarity/internal/storage/memory"
)

// newTestServer builds a server over in-memory storage and no risk client.
func newTestServer(t *testing.T) (*Server, *memory.Manager) {
	t.Helper()
	cfg := common.NewDefaultConfig()
	logger := common.NewSilentLogger()
	storage := memory.NewManager()

	a := &app.App{
		Config:             cfg,
		Logger:             logger,
		Storage:            storage,
		IncomeService:      income.NewService(storage, cfg, logger),
		PerformanceService: performance.NewService(storage, cfg, logger),
		StrategyService:    strategy.NewService(storage, nil, cfg, logger),
		TaxService:         tax.NewService(storage, cfg, logger),
		PlanningService:    planning.NewService(storage, cfg, logger),
	}
	return NewServer(a), storage
}

func doRequest(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["status"] != "ok" {
		t.Fatalf("unexpected health body: %v", body)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/health", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for POST /api/health, got %d", rec.Code)
	}
}

func TestVersionEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/version", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if _, ok := body["version"]; !ok {
		t.Fatalf("version missing from body: %v", body)
	}
}

func TestConfigEndpointMasksSecrets(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.app.Config.Clients.RiskData.APIKey = "super-secret-key-1234"

	rec := doRequest(t, srv, http.MethodGet, "/api/config", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "super-secret-key") {
		t.Fatal("API key leaked in config response")
	}
	if !strings.Contains(rec.Body.String(), "1234") {
		t.Fatal("expected masked key suffix in config response")
	}
}

func TestHubGetUnknownHub(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/hubs/astrology", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown hub, got %d", rec.Code)
	}
}

func TestHubGetEmptyStoreDefaults(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, hub := range models.AllHubs {
		rec := doRequest(t, srv, http.MethodGet, "/api/hubs/"+string(hub), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for empty-store %s hub, got %d", hub, rec.Code)
		}
	}
}

func TestHubPutOverrideThenGet(t *testing.T) {
	srv, _ := newTestServer(t)

	override := models.DefaultIncomeHubData()
	override.MonthlyDividendIncome = 777
	rec := doRequest(t, srv, http.MethodPut, "/api/hubs/income", override)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for hub override, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/hubs/income", nil)
	data := decodeBody[models.IncomeHubData](t, rec)
	if data.MonthlyDividendIncome != 777 {
		t.Fatalf("expected override served, got %.2f", data.MonthlyDividendIncome)
	}
}

func TestDashboardReturnsAllFiveHubs(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody[DashboardResponse](t, rec)
	if resp.Income == nil || resp.Performance == nil || resp.PortfolioStrategy == nil ||
		resp.TaxStrategy == nil || resp.FinancialPlanning == nil {
		t.Fatalf("dashboard missing hubs: %+v", resp)
	}
}

func TestHoldingsCRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	holding := models.Holding{
		Ticker:           "SCHD",
		Shares:           100,
		CostBasis:        60,
		CurrentPrice:     80,
		DividendYieldPct: 3.5,
		Sector:           "Financials",
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/holdings", holding)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 creating holding, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[models.Holding](t, rec)
	if created.UserID != "local" {
		t.Fatalf("expected default user assigned, got %q", created.UserID)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/holdings", nil)
	listed := decodeBody[[]models.Holding](t, rec)
	if len(listed) != 1 || listed[0].Ticker != "SCHD" {
		t.Fatalf("unexpected holdings list: %+v", listed)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/holdings/SCHD", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting holding, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/holdings/SCHD", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting missing holding, got %d", rec.Code)
	}
}

func TestHoldingValidationRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/holdings", models.Holding{Ticker: "BAD", Shares: -1, CostBasis: 10})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative shares, got %d", rec.Code)
	}
}

func TestIncomeAssignsIDAndNormalizesFrequency(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/incomes", map[string]interface{}{
		"amount":    5000,
		"frequency": "monthly",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 creating income, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[models.Income](t, rec)
	if created.ID == "" {
		t.Fatal("expected generated income ID")
	}
	if created.Frequency != models.FrequencyMonthly {
		t.Fatalf("expected normalized MONTHLY frequency, got %q", created.Frequency)
	}
}

func TestRecordWriteInvalidatesHubCache(t *testing.T) {
	srv, storage := newTestServer(t)

	// Prime the income hub cache with an empty-store computation.
	rec := doRequest(t, srv, http.MethodGet, "/api/hubs/income", nil)
	before := decodeBody[models.IncomeHubData](t, rec)
	if before.GrossMonthly != 0 {
		t.Fatalf("expected empty gross, got %.2f", before.GrossMonthly)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/incomes", map[string]interface{}{"amount": 2000})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 creating income, got %d", rec.Code)
	}

	// Snapshot must be gone so the next read recomputes.
	if _, err := storage.HubCache().GetHub(context.Background(), models.HubIncome); err == nil {
		t.Fatal("expected income hub snapshot invalidated after record write")
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/hubs/income", nil)
	after := decodeBody[models.IncomeHubData](t, rec)
	if after.GrossMonthly == 0 {
		t.Fatal("expected recomputed hub to include new income entry")
	}
}

func TestTaxProfileLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/tax-profile", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing profile, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPut, "/api/tax-profile", models.TaxProfile{State: "WA", EffectiveRate: 0.2, MarginalRate: 0.24})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 saving profile, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodPut, "/api/tax-profile", models.TaxProfile{State: "WA", EffectiveRate: 22, MarginalRate: 0.24})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range rate, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/tax-profile", nil)
	profile := decodeBody[models.TaxProfile](t, rec)
	if profile.State != "WA" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/tax-profile", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting profile, got %d", rec.Code)
	}
}

func TestUserIDHeaderScopesRecords(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/holdings", bytes.NewReader([]byte(`{"ticker":"JEPI","shares":10,"cost_basis":50,"current_price":55}`)))
	req.Header.Set(UserIDHeader, "alice")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Default user sees nothing.
	recDefault := doRequest(t, srv, http.MethodGet, "/api/holdings", nil)
	if body := decodeBody[[]models.Holding](t, recDefault); len(body) != 0 {
		t.Fatalf("expected no holdings for default user, got %+v", body)
	}

	// The header user sees the holding.
	req = httptest.NewRequest(http.MethodGet, "/api/holdings", nil)
	req.Header.Set(UserIDHeader, "alice")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if body := decodeBody[[]models.Holding](t, rec); len(body) != 1 {
		t.Fatalf("expected one holding for alice, got %+v", body)
	}
}

func TestProjectionChartEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	// Empty portfolio: nothing to chart.
	rec := doRequest(t, srv, http.MethodGet, "/api/hubs/financial-planning/chart", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty projection, got %d", rec.Code)
	}

	doRequest(t, srv, http.MethodPost, "/api/holdings", models.Holding{
		Ticker: "SCHD", Shares: 100, CostBasis: 60, CurrentPrice: 80, DividendYieldPct: 3.5,
	})

	rec = doRequest(t, srv, http.MethodGet, "/api/hubs/financial-planning/chart", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for chart, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %s", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatal("expected PNG payload")
	}
}

func TestCorrelationIDHeader(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/health", nil)
	if rec.Header().Get("X-Correlation-ID") == "" {
		t.Fatal("expected generated correlation ID header")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec2 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec2, req)
	if rec2.Header().Get("X-Correlation-ID") != "req-42" {
		t.Fatalf("expected propagated correlation ID, got %q", rec2.Header().Get("X-Correlation-ID"))
	}
}
