// Package loader keeps the in-memory registry current: it loads a source,
// swaps the new snapshot in, and listens for reload notifications.
package loader

import (
	"context"
	"fmt"
	"time"

	"foodtruck_backend/internal/events"
	"foodtruck_backend/internal/trucks/registry"
	"foodtruck_backend/internal/trucks/source"
	"foodtruck_backend/platform/logger"
	"foodtruck_backend/platform/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Result summarises a successful reload.
type Result struct {
	ID       uuid.UUID
	Source   string
	Records  int
	Skipped  int
	Previous int
	Took     time.Duration
}

// Reloader replaces the registry snapshot from a source. Concurrent calls
// share one load. A failed load leaves the current snapshot in place.
type Reloader struct {
	source source.Source
	store  *registry.Store
	bus    events.Bus
	log    *logger.Logger
	group  singleflight.Group
	now    func() time.Time
}

func NewReloader(src source.Source, store *registry.Store, bus events.Bus, log *logger.Logger) *Reloader {
	return &Reloader{
		source: src,
		store:  store,
		bus:    bus,
		log:    log,
		now:    time.Now,
	}
}

// Reload loads the source and publishes a new snapshot.
func (r *Reloader) Reload(ctx context.Context) (Result, error) {
	v, err, _ := r.group.Do("reload", func() (any, error) {
		return r.reload(ctx)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (r *Reloader) reload(ctx context.Context) (Result, error) {
	id := uuid.New()
	name := r.source.Name()
	start := r.now()

	batch, err := r.source.Load(ctx)
	if err != nil {
		r.fail(ctx, id, name, err)
		return Result{}, fmt.Errorf("reload %s: %w", name, err)
	}

	previous := 0
	if cur := r.store.Current(); cur != nil {
		previous = cur.Len()
	}
	// An empty export almost always means the upstream broke, not that
	// every permit vanished.
	if len(batch.Records) == 0 && previous > 0 {
		err := fmt.Errorf("source returned no records, keeping %d", previous)
		r.fail(ctx, id, name, err)
		return Result{}, fmt.Errorf("reload %s: %w", name, err)
	}

	r.store.Swap(registry.NewSnapshot(batch.Records, name, r.now()))

	res := Result{
		ID:       id,
		Source:   name,
		Records:  len(batch.Records),
		Skipped:  batch.Skipped,
		Previous: previous,
		Took:     r.now().Sub(start),
	}

	metrics.RegistryRecords.Set(float64(res.Records))
	metrics.RegistryReloads.WithLabelValues("success").Inc()
	r.log.WithContext(ctx).RegistryLoaded(name, res.Records, res.Skipped, res.Took)
	if r.bus != nil {
		r.bus.Publish(ctx, events.RegistryReloaded{
			BaseEvent: events.NewBaseEvent(),
			ReloadID:  id,
			Source:    name,
			Records:   res.Records,
			Previous:  previous,
			Took:      res.Took,
		})
	}
	return res, nil
}

func (r *Reloader) fail(ctx context.Context, id uuid.UUID, name string, err error) {
	metrics.RegistryReloads.WithLabelValues("failure").Inc()
	r.log.WithContext(ctx).RegistryReloadFailed(name, err)
	if r.bus != nil {
		r.bus.Publish(ctx, events.RegistryReloadFailed{
			BaseEvent: events.NewBaseEvent(),
			ReloadID:  id,
			Source:    name,
			Reason:    err.Error(),
		})
	}
}

// Run reloads every interval until ctx is done. Errors are logged by
// Reload and do not stop the loop.
func (r *Reloader) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = r.Reload(ctx)
		}
	}
}
