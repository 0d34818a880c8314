package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/clarityfi/clarity/internal/common"
	"github.com/clarityfi/clarity/internal/interfaces"
	"github.com/clarityfi/clarity/internal/models"
)

// HubCacheStore persists hub snapshots in SurrealDB, one row per hub.
type HubCacheStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewHubCacheStore(db *surrealdb.DB, logger *common.Logger) *HubCacheStore {
	return &HubCacheStore{
		db:     db,
		logger: logger,
	}
}

func (s *HubCacheStore) GetHub(ctx context.Context, hub models.Hub) (*models.HubSnapshot, error) {
	snap, err := surrealdb.Select[models.HubSnapshot](ctx, s.db, surrealmodels.NewRecordID("hub_cache", string(hub)))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("no snapshot for hub %s", hub)
		}
		return nil, fmt.Errorf("failed to select hub snapshot: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("no snapshot for hub %s", hub)
	}
	return snap, nil
}

func (s *HubCacheStore) PutHub(ctx context.Context, snapshot *models.HubSnapshot) error {
	return upsert(ctx, s.db, "hub_cache", string(snapshot.Hub), snapshot)
}

func (s *HubCacheStore) DeleteHub(ctx context.Context, hub models.Hub) error {
	return deleteRecord[models.HubSnapshot](ctx, s.db, "hub_cache", string(hub))
}

// Compile-time check
var _ interfaces.HubCacheStore = (*HubCacheStore)(nil)
