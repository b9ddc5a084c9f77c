package scheduler

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/lombahub/internal/index"
	"github.com/MrSnakeDoc/lombahub/internal/logger"
)

// CatalogSyncer seeds the index from the cached catalog on startup, so the
// API can answer before the catalog file is parsed.
type CatalogSyncer struct {
	cache  CatalogCache
	index  *index.CatalogIndex
	logger logger.Logger
}

// NewCatalogSyncer creates a new catalog syncer
func NewCatalogSyncer(cache CatalogCache, idx *index.CatalogIndex, log logger.Logger) *CatalogSyncer {
	return &CatalogSyncer{
		cache:  cache,
		index:  idx,
		logger: log,
	}
}

// Sync copies the cached catalog into the index. An empty cache is not an error.
func (cs *CatalogSyncer) Sync(ctx context.Context) error {
	list, err := cs.cache.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cached catalog: %w", err)
	}

	if len(list) == 0 {
		cs.logger.Info("No cached catalog found in redis")
		return nil
	}

	cs.index.Update(list)
	cs.logger.Info("Seeded catalog from redis", logger.Int("count", len(list)))
	return nil
}
