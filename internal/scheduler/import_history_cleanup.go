package scheduler

import (
	"context"
	"time"

	"foodtruck_backend/platform/logger"
)

const (
	defaultImportHistoryCleanupInterval = 6 * time.Hour
	defaultImportHistoryRetention       = 30 * 24 * time.Hour
)

// ImportPruner deletes old import history; *repository.Repository implements it.
type ImportPruner interface {
	DeleteImportsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ImportHistoryCleanup periodically prunes food_truck_imports.
type ImportHistoryCleanup struct {
	repo      ImportPruner
	log       *logger.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

func NewImportHistoryCleanup(repo ImportPruner, log *logger.Logger, interval, retention time.Duration) *ImportHistoryCleanup {
	if interval <= 0 {
		interval = defaultImportHistoryCleanupInterval
	}
	if retention <= 0 {
		retention = defaultImportHistoryRetention
	}

	return &ImportHistoryCleanup{
		repo:      repo,
		log:       log,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

func (c *ImportHistoryCleanup) Run(ctx context.Context) {
	if c == nil || c.repo == nil {
		return
	}

	c.cleanup(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *ImportHistoryCleanup) cleanup(ctx context.Context) {
	deleted, err := c.repo.DeleteImportsBefore(ctx, c.now().Add(-c.retention))
	if err != nil {
		c.log.Warn("import history cleanup failed", "error", err)
		return
	}

	if deleted > 0 {
		c.log.Info("import history cleanup deleted old imports", "deleted", deleted)
	}
}
