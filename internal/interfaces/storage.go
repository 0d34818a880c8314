// Package interfaces defines service contracts for Clarity
package interfaces

import (
	"context"

	"github.com/clarityfi/clarity/internal/models"
)

// StorageManager coordinates the storage backends.
type StorageManager interface {
	Records() RecordStore
	HubCache() HubCacheStore

	// Lifecycle
	Close() error
}

// RecordStore persists the financial records the hub aggregators read.
// List methods return empty slices (not errors) when a user has no records;
// single-record getters return an error when the record is absent.
type RecordStore interface {
	// Holdings
	ListHoldings(ctx context.Context, userID string) ([]*models.Holding, error)
	SaveHolding(ctx context.Context, holding *models.Holding) error
	DeleteHolding(ctx context.Context, userID, ticker string) error

	// Income entries
	ListIncomes(ctx context.Context, userID string) ([]*models.Income, error)
	SaveIncome(ctx context.Context, income *models.Income) error
	DeleteIncome(ctx context.Context, userID, id string) error

	// Expense entries
	ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error)
	SaveExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, userID, id string) error

	// Tax profile (at most one per user)
	GetTaxProfile(ctx context.Context, userID string) (*models.TaxProfile, error)
	SaveTaxProfile(ctx context.Context, profile *models.TaxProfile) error
	DeleteTaxProfile(ctx context.Context, userID string) error

	// Financial goals
	ListGoals(ctx context.Context, userID string) ([]*models.FinancialGoal, error)
	SaveGoal(ctx context.Context, goal *models.FinancialGoal) error
	DeleteGoal(ctx context.Context, userID, id string) error

	Close() error
}

// HubCacheStore persists the last successful computation per hub.
// Keyed by hub name only — the cache schema is single-tenant.
// Not correctness-critical: a miss simply triggers recomputation.
type HubCacheStore interface {
	GetHub(ctx context.Context, hub models.Hub) (*models.HubSnapshot, error)
	PutHub(ctx context.Context, snapshot *models.HubSnapshot) error
	DeleteHub(ctx context.Context, hub models.Hub) error
}
