package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/clarityfi/clarity/internal/common"
	"github.com/clarityfi/clarity/internal/models"
)

// invalidateHubs drops cached snapshots so the next hub read recomputes
// from the updated records. Cache deletes are best-effort.
func (s *Server) invalidateHubs(r *http.Request, hubs ...models.Hub) {
	ctx := r.Context()
	for _, hub := range hubs {
		if err := s.app.Storage.HubCache().DeleteHub(ctx, hub); err != nil {
			s.logger.Debug().Err(err).Str("hub", string(hub)).Msg("Hub cache invalidation skipped")
		}
	}
}

func (s *Server) userID(r *http.Request) string {
	return common.ResolveUserID(r.Context(), s.app.Config.DefaultUser)
}

// --- Holdings ---

// routeHoldings handles /api/holdings and /api/holdings/{ticker}.
func (s *Server) routeHoldings(w http.ResponseWriter, r *http.Request) {
	ticker := pathSuffix(r, "/api/holdings")
	userID := s.userID(r)

	switch {
	case r.Method == http.MethodGet && ticker == "":
		holdings, err := s.app.Storage.Records().ListHoldings(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to list holdings: "+err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, holdings)

	case r.Method == http.MethodPost || r.Method == http.MethodPut:
		var holding models.Holding
		if !DecodeJSON(w, r, &holding) {
			return
		}
		holding.UserID = userID
		if ticker != "" {
			holding.Ticker = ticker
		}
		if err := s.app.Storage.Records().SaveHolding(r.Context(), &holding); err != nil {
			WriteError(w, http.StatusBadRequest, "Failed to save holding: "+err.Error())
			return
		}
		s.invalidateHubs(r, models.AllHubs...)
		WriteJSON(w, http.StatusOK, holding)

	case r.Method == http.MethodDelete && ticker != "":
		if err := s.app.Storage.Records().DeleteHolding(r.Context(), userID, ticker); err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		s.invalidateHubs(r, models.AllHubs...)
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "ticker": ticker})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	}
}

// --- Income entries ---

func (s *Server) routeIncomes(w http.ResponseWriter, r *http.Request) {
	id := pathSuffix(r, "/api/incomes")
	userID := s.userID(r)

	switch {
	case r.Method == http.MethodGet && id == "":
		incomes, err := s.app.Storage.Records().ListIncomes(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to list incomes: "+err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, incomes)

	case r.Method == http.MethodPost || r.Method == http.MethodPut:
		var income models.Income
		if !DecodeJSON(w, r, &income) {
			return
		}
		income.UserID = userID
		if id != "" {
			income.ID = id
		}
		if income.ID == "" {
			income.ID = uuid.New().String()
		}
		income.Frequency = models.ParseFrequency(string(income.Frequency))
		if income.Amount < 0 {
			WriteError(w, http.StatusBadRequest, "Income amount cannot be negative")
			return
		}
		if err := s.app.Storage.Records().SaveIncome(r.Context(), &income); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to save income: "+err.Error())
			return
		}
		s.invalidateHubs(r, models.HubIncome)
		WriteJSON(w, http.StatusOK, income)

	case r.Method == http.MethodDelete && id != "":
		if err := s.app.Storage.Records().DeleteIncome(r.Context(), userID, id); err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		s.invalidateHubs(r, models.HubIncome)
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	}
}

// --- Expense entries ---

func (s *Server) routeExpenses(w http.ResponseWriter, r *http.Request) {
	id := pathSuffix(r, "/api/expenses")
	userID := s.userID(r)

	switch {
	case r.Method == http.MethodGet && id == "":
		expenses, err := s.app.Storage.Records().ListExpenses(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to list expenses: "+err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, expenses)

	case r.Method == http.MethodPost || r.Method == http.MethodPut:
		var expense models.Expense
		if !DecodeJSON(w, r, &expense) {
			return
		}
		expense.UserID = userID
		if id != "" {
			expense.ID = id
		}
		if expense.ID == "" {
			expense.ID = uuid.New().String()
		}
		expense.Frequency = models.ParseFrequency(string(expense.Frequency))
		if expense.Amount < 0 {
			WriteError(w, http.StatusBadRequest, "Expense amount cannot be negative")
			return
		}
		if err := s.app.Storage.Records().SaveExpense(r.Context(), &expense); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to save expense: "+err.Error())
			return
		}
		s.invalidateHubs(r, models.HubIncome, models.HubFinancialPlanning)
		WriteJSON(w, http.StatusOK, expense)

	case r.Method == http.MethodDelete && id != "":
		if err := s.app.Storage.Records().DeleteExpense(r.Context(), userID, id); err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		s.invalidateHubs(r, models.HubIncome, models.HubFinancialPlanning)
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	}
}

// --- Financial goals ---

func (s *Server) routeGoals(w http.ResponseWriter, r *http.Request) {
	id := pathSuffix(r, "/api/goals")
	userID := s.userID(r)

	switch {
	case r.Method == http.MethodGet && id == "":
		goals, err := s.app.Storage.Records().ListGoals(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to list goals: "+err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, goals)

	case r.Method == http.MethodPost || r.Method == http.MethodPut:
		var goal models.FinancialGoal
		if !DecodeJSON(w, r, &goal) {
			return
		}
		goal.UserID = userID
		if id != "" {
			goal.ID = id
		}
		if goal.ID == "" {
			goal.ID = uuid.New().String()
		}
		if err := s.app.Storage.Records().SaveGoal(r.Context(), &goal); err != nil {
			WriteError(w, http.StatusBadRequest, "Failed to save goal: "+err.Error())
			return
		}
		s.invalidateHubs(r, models.HubFinancialPlanning)
		WriteJSON(w, http.StatusOK, goal)

	case r.Method == http.MethodDelete && id != "":
		if err := s.app.Storage.Records().DeleteGoal(r.Context(), userID, id); err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		s.invalidateHubs(r, models.HubFinancialPlanning)
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	}
}

// --- Tax profile ---

// handleTaxProfile handles GET/PUT/DELETE /api/tax-profile (one per user).
func (s *Server) handleTaxProfile(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(r)

	switch r.Method {
	case http.MethodGet:
		profile, err := s.app.Storage.Records().GetTaxProfile(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, profile)

	case http.MethodPut, http.MethodPost:
		var profile models.TaxProfile
		if !DecodeJSON(w, r, &profile) {
			return
		}
		profile.UserID = userID
		if profile.EffectiveRate < 0 || profile.EffectiveRate > 1 || profile.MarginalRate < 0 || profile.MarginalRate > 1 {
			WriteError(w, http.StatusBadRequest, "Tax rates must be fractions between 0 and 1")
			return
		}
		if err := s.app.Storage.Records().SaveTaxProfile(r.Context(), &profile); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to save tax profile: "+err.Error())
			return
		}
		s.invalidateHubs(r, models.HubIncome, models.HubTaxStrategy)
		WriteJSON(w, http.StatusOK, profile)

	case http.MethodDelete:
		if err := s.app.Storage.Records().DeleteTaxProfile(r.Context(), userID); err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		s.invalidateHubs(r, models.HubIncome, models.HubTaxStrategy)
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete)
	}
}
