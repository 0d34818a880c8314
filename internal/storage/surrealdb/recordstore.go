package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/clarityfi/clarity/internal/common"
	"github.com/clarityfi/clarity/internal/interfaces"
	"github.com/clarityfi/clarity/internal/models"
)

// RecordStore persists financial records in SurrealDB.
type RecordStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewRecordStore(db *surrealdb.DB, logger *common.Logger) *RecordStore {
	return &RecordStore{
		db:     db,
		logger: logger,
	}
}

func recordID(userID, id string) string {
	return userID + "_" + id
}

// upsert writes a record under a deterministic ID with a small retry loop;
// SurrealDB websocket writes occasionally fail transiently.
func upsert[T any](ctx context.Context, db *surrealdb.DB, table, id string, record *T) error {
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{"rid": surrealmodels.NewRecordID(table, id), "record": record}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]T](ctx, db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to upsert %s record after retries: %w", table, lastErr)
}

// listByUser fetches all of a user's rows from a table.
func listByUser[T any](ctx context.Context, db *surrealdb.DB, table, userID, orderBy string) ([]*T, error) {
	sql := fmt.Sprintf("SELECT * FROM %s WHERE user_id = $user_id ORDER BY %s ASC", table, orderBy)
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]T](ctx, db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", table, err)
	}

	var mapped []*T
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
	}
	return mapped, nil
}

func deleteRecord[T any](ctx context.Context, db *surrealdb.DB, table, id string) error {
	_, err := surrealdb.Delete[T](ctx, db, surrealmodels.NewRecordID(table, id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete %s record: %w", table, err)
	}
	return nil
}

// --- Holdings ---

func (s *RecordStore) ListHoldings(ctx context.Context, userID string) ([]*models.Holding, error) {
	return listByUser[models.Holding](ctx, s.db, "holding", userID, "ticker")
}

func (s *RecordStore) SaveHolding(ctx context.Context, holding *models.Holding) error {
	if err := holding.Validate(); err != nil {
		return err
	}
	holding.UpdatedAt = time.Now().UTC()
	return upsert(ctx, s.db, "holding", recordID(holding.UserID, holding.Ticker), holding)
}

func (s *RecordStore) DeleteHolding(ctx context.Context, userID, ticker string) error {
	return deleteRecord[models.Holding](ctx, s.db, "holding", recordID(userID, ticker))
}

// --- Income entries ---

func (s *RecordStore) ListIncomes(ctx context.Context, userID string) ([]*models.Income, error) {
	return listByUser[models.Income](ctx, s.db, "income", userID, "id")
}

func (s *RecordStore) SaveIncome(ctx context.Context, income *models.Income) error {
	income.UpdatedAt = time.Now().UTC()
	return upsert(ctx, s.db, "income", recordID(income.UserID, income.ID), income)
}

func (s *RecordStore) DeleteIncome(ctx context.Context, userID, id string) error {
	return deleteRecord[models.Income](ctx, s.db, "income", recordID(userID, id))
}

// --- Expense entries ---

func (s *RecordStore) ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	return listByUser[models.Expense](ctx, s.db, "expense", userID, "id")
}

func (s *RecordStore) SaveExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().UTC()
	return upsert(ctx, s.db, "expense", recordID(expense.UserID, expense.ID), expense)
}

func (s *RecordStore) DeleteExpense(ctx context.Context, userID, id string) error {
	return deleteRecord[models.Expense](ctx, s.db, "expense", recordID(userID, id))
}

// --- Tax profile ---

func (s *RecordStore) GetTaxProfile(ctx context.Context, userID string) (*models.TaxProfile, error) {
	profile, err := surrealdb.Select[models.TaxProfile](ctx, s.db, surrealmodels.NewRecordID("tax_profile", userID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("tax profile for %s not found", userID)
		}
		return nil, fmt.Errorf("failed to select tax profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("tax profile for %s not found", userID)
	}
	return profile, nil
}

func (s *RecordStore) SaveTaxProfile(ctx context.Context, profile *models.TaxProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	return upsert(ctx, s.db, "tax_profile", profile.UserID, profile)
}

func (s *RecordStore) DeleteTaxProfile(ctx context.Context, userID string) error {
	return deleteRecord[models.TaxProfile](ctx, s.db, "tax_profile", userID)
}

// --- Financial goals ---

func (s *RecordStore) ListGoals(ctx context.Context, userID string) ([]*models.FinancialGoal, error) {
	return listByUser[models.FinancialGoal](ctx, s.db, "goal", userID, "id")
}

func (s *RecordStore) SaveGoal(ctx context.Context, goal *models.FinancialGoal) error {
	if err := goal.Validate(); err != nil {
		return err
	}
	goal.UpdatedAt = time.Now().UTC()
	return upsert(ctx, s.db, "goal", recordID(goal.UserID, goal.ID), goal)
}

func (s *RecordStore) DeleteGoal(ctx context.Context, userID, id string) error {
	return deleteRecord[models.FinancialGoal](ctx, s.db, "goal", recordID(userID, id))
}

func (s *RecordStore) Close() error { return nil }

// Compile-time check
var _ interfaces.RecordStore = (*RecordStore)(nil)
