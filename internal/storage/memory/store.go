// Package memory provides an in-process StorageManager used when no
// database address is configured, and by tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/clarityfi/clarity/internal/interfaces"
	"github.com/clarityfi/clarity/internal/models"
)

// Manager is an in-memory implementation of StorageManager.
type Manager struct {
	records  *RecordStore
	hubCache *HubCacheStore
}

// NewManager creates an empty in-memory storage manager.
func NewManager() *Manager {
	return &Manager{
		records:  NewRecordStore(),
		hubCache: NewHubCacheStore(),
	}
}

func (m *Manager) Records() interfaces.RecordStore    { return m.records }
func (m *Manager) HubCache() interfaces.HubCacheStore { return m.hubCache }
func (m *Manager) Close() error                       { return nil }

// RecordStore holds financial records keyed by user.
type RecordStore struct {
	mu          sync.RWMutex
	holdings    map[string]map[string]*models.Holding // userID -> ticker
	incomes     map[string]map[string]*models.Income  // userID -> id
	expenses    map[string]map[string]*models.Expense
	taxProfiles map[string]*models.TaxProfile
	goals       map[string]map[string]*models.FinancialGoal
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		holdings:    make(map[string]map[string]*models.Holding),
		incomes:     make(map[string]map[string]*models.Income),
		expenses:    make(map[string]map[string]*models.Expense),
		taxProfiles: make(map[string]*models.TaxProfile),
		goals:       make(map[string]map[string]*models.FinancialGoal),
	}
}

func (r *RecordStore) ListHoldings(ctx context.Context, userID string) ([]*models.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Holding, 0, len(r.holdings[userID]))
	for _, h := range r.holdings[userID] {
		cp := *h
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}

func (r *RecordStore) SaveHolding(ctx context.Context, holding *models.Holding) error {
	if err := holding.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.holdings[holding.UserID] == nil {
		r.holdings[holding.UserID] = make(map[string]*models.Holding)
	}
	holding.UpdatedAt = time.Now().UTC()
	cp := *holding
	r.holdings[holding.UserID][holding.Ticker] = &cp
	return nil
}

func (r *RecordStore) DeleteHolding(ctx context.Context, userID, ticker string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.holdings[userID][ticker]; !ok {
		return fmt.Errorf("holding %s not found", ticker)
	}
	delete(r.holdings[userID], ticker)
	return nil
}

func (r *RecordStore) ListIncomes(ctx context.Context, userID string) ([]*models.Income, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Income, 0, len(r.incomes[userID]))
	for _, in := range r.incomes[userID] {
		cp := *in
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RecordStore) SaveIncome(ctx context.Context, income *models.Income) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.incomes[income.UserID] == nil {
		r.incomes[income.UserID] = make(map[string]*models.Income)
	}
	income.UpdatedAt = time.Now().UTC()
	cp := *income
	r.incomes[income.UserID][income.ID] = &cp
	return nil
}

func (r *RecordStore) DeleteIncome(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.incomes[userID][id]; !ok {
		return fmt.Errorf("income %s not found", id)
	}
	delete(r.incomes[userID], id)
	return nil
}

func (r *RecordStore) ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Expense, 0, len(r.expenses[userID]))
	for _, ex := range r.expenses[userID] {
		cp := *ex
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RecordStore) SaveExpense(ctx context.Context, expense *models.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.expenses[expense.UserID] == nil {
		r.expenses[expense.UserID] = make(map[string]*models.Expense)
	}
	expense.UpdatedAt = time.Now().UTC()
	cp := *expense
	r.expenses[expense.UserID][expense.ID] = &cp
	return nil
}

func (r *RecordStore) DeleteExpense(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.expenses[userID][id]; !ok {
		return fmt.Errorf("expense %s not found", id)
	}
	delete(r.expenses[userID], id)
	return nil
}

func (r *RecordStore) GetTaxProfile(ctx context.Context, userID string) (*models.TaxProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.taxProfiles[userID]
	if !ok {
		return nil, fmt.Errorf("tax profile for %s not found", userID)
	}
	cp := *profile
	return &cp, nil
}

func (r *RecordStore) SaveTaxProfile(ctx context.Context, profile *models.TaxProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile.UpdatedAt = time.Now().UTC()
	cp := *profile
	r.taxProfiles[profile.UserID] = &cp
	return nil
}

func (r *RecordStore) DeleteTaxProfile(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.taxProfiles[userID]; !ok {
		return fmt.Errorf("tax profile for %s not found", userID)
	}
	delete(r.taxProfiles, userID)
	return nil
}

func (r *RecordStore) ListGoals(ctx context.Context, userID string) ([]*models.FinancialGoal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.FinancialGoal, 0, len(r.goals[userID]))
	for _, g := range r.goals[userID] {
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RecordStore) SaveGoal(ctx context.Context, goal *models.FinancialGoal) error {
	if err := goal.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.goals[goal.UserID] == nil {
		r.goals[goal.UserID] = make(map[string]*models.FinancialGoal)
	}
	goal.UpdatedAt = time.Now().UTC()
	cp := *goal
	r.goals[goal.UserID][goal.ID] = &cp
	return nil
}

func (r *RecordStore) DeleteGoal(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.goals[userID][id]; !ok {
		return fmt.Errorf("goal %s not found", id)
	}
	delete(r.goals[userID], id)
	return nil
}

func (r *RecordStore) Close() error { return nil }

// HubCacheStore holds the latest snapshot per hub.
type HubCacheStore struct {
	mu    sync.RWMutex
	snaps map[models.Hub]*models.HubSnapshot
}

func NewHubCacheStore() *HubCacheStore {
	return &HubCacheStore{snaps: make(map[models.Hub]*models.HubSnapshot)}
}

func (h *HubCacheStore) GetHub(ctx context.Context, hub models.Hub) (*models.HubSnapshot, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	snap, ok := h.snaps[hub]
	if !ok {
		return nil, fmt.Errorf("no snapshot for hub %s", hub)
	}
	cp := *snap
	return &cp, nil
}

func (h *HubCacheStore) PutHub(ctx context.Context, snapshot *models.HubSnapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	cp := *snapshot
	h.snaps[snapshot.Hub] = &cp
	return nil
}

func (h *HubCacheStore) DeleteHub(ctx context.Context, hub models.Hub) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.snaps, hub)
	return nil
}

// Ensure interface compliance
var _ interfaces.StorageManager = (*Manager)(nil)
var _ interfaces.RecordStore = (*RecordStore)(nil)
var _ interfaces.HubCacheStore = (*HubCacheStore)(nil)
