package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/lombahub/internal/domain"
	"github.com/MrSnakeDoc/lombahub/internal/index"
	"github.com/MrSnakeDoc/lombahub/internal/logger"
	"github.com/MrSnakeDoc/lombahub/internal/metrics"
	"github.com/MrSnakeDoc/lombahub/internal/sources/catalogfile"
)

// CatalogCache keeps the last good catalog outside the process.
type CatalogCache interface {
	SaveCatalog(ctx context.Context, list []*domain.Competition) error
	LoadCatalog(ctx context.Context) ([]*domain.Competition, error)
}

// CatalogReloader periodically reloads the catalog file into the index
type CatalogReloader struct {
	loader        *catalogfile.Loader
	mapper        *catalogfile.Mapper
	cache         CatalogCache
	index         *index.CatalogIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
	now           func() time.Time
}

// NewCatalogReloader creates a new catalog reloader. cache may be nil.
func NewCatalogReloader(
	catalogFile string,
	cache CatalogCache,
	idx *index.CatalogIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	return &CatalogReloader{
		loader:        catalogfile.NewLoader(catalogFile),
		mapper:        catalogfile.NewMapper(),
		cache:         cache,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
		now:           time.Now,
	}
}

// Start loads the catalog once, then keeps reloading it on every tick and
// manual trigger until ctx is done or Stop is called. A failed first load is
// fatal only when the index holds no snapshot yet (e.g. none seeded from cache).
func (cr *CatalogReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		if cr.index.Count() == 0 {
			return fmt.Errorf("initial reload failed: %w", err)
		}
		cr.logger.Warn("Initial catalog reload failed, serving the cached catalog",
			logger.Error(err),
			logger.Int("count", cr.index.Count()))
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cr.reloadAndLog(ctx)
			case <-cr.manualTrigger:
				cr.logger.Info("Manual catalog reload triggered")
				cr.reloadAndLog(ctx)
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *CatalogReloader) Stop() {
	close(cr.stopCh)
}

func (cr *CatalogReloader) reloadAndLog(ctx context.Context) {
	if err := cr.Reload(ctx); err != nil {
		cr.logger.Error("Failed to reload catalog, keeping the previous one",
			logger.Error(err))
	}
}

// Reload reads, validates and publishes the catalog. On failure the index
// keeps serving the previous snapshot.
func (cr *CatalogReloader) Reload(ctx context.Context) error {
	file, err := cr.loader.Load()
	if err != nil {
		metrics.ObserveReload(0, 0, err)
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	res, err := cr.mapper.Map(file)
	for _, s := range res.Skipped {
		cr.logger.Warn("Skipping catalog record",
			logger.Int("position", s.Position),
			logger.String("id", s.ID),
			logger.String("reason", s.Reason))
	}
	if err != nil {
		metrics.ObserveReload(0, 0, err)
		return fmt.Errorf("failed to map catalog: %w", err)
	}

	stale := catalogfile.CountStale(res.Competitions, cr.now())
	if stale > 0 {
		cr.logger.Warn("Catalog has open competitions past their deadline; status is kept as published",
			logger.Int("count", stale))
	}

	cr.index.Update(res.Competitions)
	metrics.ObserveReload(len(res.Competitions), stale, nil)

	cr.logger.Info("Catalog loaded",
		logger.String("file", cr.loader.Path()),
		logger.Int("count", len(res.Competitions)),
		logger.Int("skipped", len(res.Skipped)),
		logger.Uint64("version", cr.index.Version()))

	if cr.cache != nil {
		if err := cr.cache.SaveCatalog(ctx, res.Competitions); err != nil {
			cr.logger.Warn("Failed to cache catalog in redis", logger.Error(err))
		}
	}

	return nil
}
