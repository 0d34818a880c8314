package server

import (
	"net/http"
	"time"

	"github.com/clarityfi/clarity/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Hubs
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/hubs/financial-planning/chart", s.handleProjectionChart)
	mux.HandleFunc("/api/hubs/", s.routeHubs)

	// Records
	mux.HandleFunc("/api/holdings/", s.routeHoldings)
	mux.HandleFunc("/api/holdings", s.routeHoldings)
	mux.HandleFunc("/api/incomes/", s.routeIncomes)
	mux.HandleFunc("/api/incomes", s.routeIncomes)
	mux.HandleFunc("/api/expenses/", s.routeExpenses)
	mux.HandleFunc("/api/expenses", s.routeExpenses)
	mux.HandleFunc("/api/goals/", s.routeGoals)
	mux.HandleFunc("/api/goals", s.routeGoals)
	mux.HandleFunc("/api/tax-profile", s.handleTaxProfile)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleConfig reports the effective runtime configuration with secrets masked.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cfg := s.app.Config

	storage := "memory"
	if cfg.Storage.Address != "" {
		storage = cfg.Storage.Address
	}

	riskdata := map[string]interface{}{
		"base_url": cfg.Clients.RiskData.BaseURL,
		"period":   cfg.Clients.RiskData.Period,
		"timeout":  cfg.Clients.RiskData.GetTimeout().String(),
	}
	if cfg.Clients.RiskData.APIKey != "" {
		riskdata["api_key"] = maskSecret(cfg.Clients.RiskData.APIKey)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":  cfg.Environment,
		"default_user": cfg.DefaultUser,
		"storage":      storage,
		"riskdata":     riskdata,
		"hubs": map[string]string{
			"cache_ttl":        cfg.Hubs.GetCacheTTL().String(),
			"refresh_interval": cfg.Hubs.GetRefreshInterval().String(),
		},
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
