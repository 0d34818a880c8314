// Package storage selects a StorageManager implementation from config.
package storage

import (
	"github.com/clarityfi/clarity/internal/common"
	"github.com/clarityfi/clarity/internal/interfaces"
	"github.com/clarityfi/clarity/internal/storage/memory"
	"github.com/clarityfi/clarity/internal/storage/surrealdb"
)

// NewStorageManager returns a SurrealDB-backed manager when a database
// address is configured, otherwise the in-memory manager. The in-memory
// manager loses all records on restart; it exists for local development
// and tests.
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	if config.Storage.Address == "" {
		logger.Warn().Msg("No storage address configured, using in-memory storage (records are not persisted)")
		return memory.NewManager(), nil
	}
	return surrealdb.NewManager(logger, config)
}
