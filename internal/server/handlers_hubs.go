package server

import (
	"errors"
	"net/http"
	"sync"

	"github.com/clarityfi/clarity/internal/common"
	"github.com/clarityfi/clarity/internal/models"
	"github.com/clarityfi/clarity/internal/services/planning"
)

// routeHubs handles GET and PUT /api/hubs/{hub}.
func (s *Server) routeHubs(w http.ResponseWriter, r *http.Request) {
	name := pathSuffix(r, "/api/hubs/")
	hub, err := models.ParseHub(name)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleHubGet(w, r, hub)
	case http.MethodPut:
		s.handleHubPut(w, r, hub)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

func (s *Server) handleHubGet(w http.ResponseWriter, r *http.Request, hub models.Hub) {
	ctx := r.Context()
	userID := common.ResolveUserID(ctx, s.app.Config.DefaultUser)

	switch hub {
	case models.HubIncome:
		WriteJSON(w, http.StatusOK, s.app.IncomeService.GetIncomeHub(ctx, userID))
	case models.HubPerformance:
		WriteJSON(w, http.StatusOK, s.app.PerformanceService.GetPerformanceHub(ctx, userID))
	case models.HubPortfolioStrategy:
		WriteJSON(w, http.StatusOK, s.app.StrategyService.GetPortfolioStrategyHub(ctx, userID))
	case models.HubTaxStrategy:
		WriteJSON(w, http.StatusOK, s.app.TaxService.GetTaxStrategyHub(ctx, userID))
	case models.HubFinancialPlanning:
		WriteJSON(w, http.StatusOK, s.app.PlanningService.GetFinancialPlanningHub(ctx, userID))
	}
}

// handleHubPut writes a manual override snapshot for a hub.
func (s *Server) handleHubPut(w http.ResponseWriter, r *http.Request, hub models.Hub) {
	ctx := r.Context()
	userID := common.ResolveUserID(ctx, s.app.Config.DefaultUser)

	var err error
	switch hub {
	case models.HubIncome:
		var data models.IncomeHubData
		if !DecodeJSON(w, r, &data) {
			return
		}
		err = s.app.IncomeService.SetIncomeHub(ctx, userID, &data)
	case models.HubPerformance:
		var data models.PerformanceHubData
		if !DecodeJSON(w, r, &data) {
			return
		}
		err = s.app.PerformanceService.SetPerformanceHub(ctx, userID, &data)
	case models.HubPortfolioStrategy:
		var data models.PortfolioStrategyHubData
		if !DecodeJSON(w, r, &data) {
			return
		}
		err = s.app.StrategyService.SetPortfolioStrategyHub(ctx, userID, &data)
	case models.HubTaxStrategy:
		var data models.TaxStrategyHubData
		if !DecodeJSON(w, r, &data) {
			return
		}
		err = s.app.TaxService.SetTaxStrategyHub(ctx, userID, &data)
	case models.HubFinancialPlanning:
		var data models.FinancialPlanningHubData
		if !DecodeJSON(w, r, &data) {
			return
		}
		err = s.app.PlanningService.SetFinancialPlanningHub(ctx, userID, &data)
	}

	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to store hub override: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "stored", "hub": string(hub)})
}

// DashboardResponse bundles all five hub view models.
type DashboardResponse struct {
	Income            *models.IncomeHubData            `json:"income"`
	Performance       *models.PerformanceHubData       `json:"performance"`
	PortfolioStrategy *models.PortfolioStrategyHubData `json:"portfolio_strategy"`
	TaxStrategy       *models.TaxStrategyHubData       `json:"tax_strategy"`
	FinancialPlanning *models.FinancialPlanningHubData `json:"financial_planning"`
}

// handleDashboard returns all five hubs, computed concurrently. Hub
// accessors never fail, so the response is always complete.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()
	userID := common.ResolveUserID(ctx, s.app.Config.DefaultUser)

	var resp DashboardResponse
	var wg sync.WaitGroup
	wg.Add(5)
	go func() { defer wg.Done(); resp.Income = s.app.IncomeService.GetIncomeHub(ctx, userID) }()
	go func() { defer wg.Done(); resp.Performance = s.app.PerformanceService.GetPerformanceHub(ctx, userID) }()
	go func() {
		defer wg.Done()
		resp.PortfolioStrategy = s.app.StrategyService.GetPortfolioStrategyHub(ctx, userID)
	}()
	go func() { defer wg.Done(); resp.TaxStrategy = s.app.TaxService.GetTaxStrategyHub(ctx, userID) }()
	go func() {
		defer wg.Done()
		resp.FinancialPlanning = s.app.PlanningService.GetFinancialPlanningHub(ctx, userID)
	}()
	wg.Wait()

	WriteJSON(w, http.StatusOK, resp)
}

// handleProjectionChart renders the planning projection series as a PNG.
func (s *Server) handleProjectionChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()
	userID := common.ResolveUserID(ctx, s.app.Config.DefaultUser)

	data := s.app.PlanningService.GetFinancialPlanningHub(ctx, userID)

	png, err := planning.RenderProjectionChart(data)
	if err != nil {
		if errors.Is(err, planning.ErrEmptyProjection) {
			WriteError(w, http.StatusNotFound, "No projection data to chart")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to render projection chart")
		WriteError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
