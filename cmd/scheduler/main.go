package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"foodtruck_backend/internal/adapters/storage"
	"foodtruck_backend/internal/events"
	"foodtruck_backend/internal/scheduler"
	"foodtruck_backend/internal/trucks/importer"
	"foodtruck_backend/internal/trucks/loader"
	"foodtruck_backend/internal/trucks/repository"
	"foodtruck_backend/internal/trucks/source"
	"foodtruck_backend/platform/apperr"
	"foodtruck_backend/platform/config"
	"foodtruck_backend/platform/db"
	"foodtruck_backend/platform/logger"
	"foodtruck_backend/platform/redisx"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "cron", cfg.GetRegistryImportCron())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool, log)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

	repo := repository.New(pool)
	eventBus := events.NewInMemoryBus(log)
	eventBus.Subscribe(events.RegistryImported{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		imported, ok := e.(events.RegistryImported)
		if !ok {
			return nil
		}
		log.Debug("registry import event", "batch_id", imported.BatchID, "records", imported.Records)
		return nil
	}))

	redisClient, err := redisx.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
		panic("failed to initialize redis client: " + err.Error())
	}
	defer func() { _ = redisClient.Close() }()

	imp := importer.New(repo, log).
		WithBus(eventBus).
		WithNotifier(loader.NewNotifier(redisClient, cfg.GetRegistryReloadChannel()))

	deps := source.Deps{Bucket: cfg.GetMinIOBucket()}
	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure registry bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucketExists(ctx, cfg.GetMinIOBucket())
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinIOBucket())
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		deps.Objects = storageSvc
		imp.WithArchive(storageSvc, cfg.GetMinIOBucket())
	}

	sources := func(kind, path string) (source.Source, error) {
		if strings.EqualFold(strings.TrimSpace(kind), "postgres") {
			return nil, errors.New("cannot import from the table being replaced")
		}
		return source.Build(kind, path, deps)
	}

	periodic, err := scheduler.NewPeriodic(cfg, log)
	if err != nil {
		log.Error("failed to initialize registry refresh schedule", "error", err)
		panic("failed to initialize registry refresh schedule: " + err.Error())
	}
	go periodic.Run(ctx)

	refreshClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize refresh client", "error", err)
		panic("failed to initialize refresh client: " + err.Error())
	}
	defer func() { _ = refreshClient.Close() }()
	bootstrapRegistry(ctx, repo, refreshClient, log)

	cleanupInterval := getDurationEnv("IMPORT_HISTORY_CLEANUP_INTERVAL", 6*time.Hour)
	retention := getDurationEnv("IMPORT_HISTORY_RETENTION", 30*24*time.Hour)
	importHistoryCleanup := scheduler.NewImportHistoryCleanup(repo, log, cleanupInterval, retention)
	go importHistoryCleanup.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, imp, sources, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	eventBus.Wait()
}

// bootstrapRegistry queues an immediate refresh when nothing has ever been
// imported, so a fresh deployment does not wait for the first cron tick.
func bootstrapRegistry(ctx context.Context, repo *repository.Repository, client scheduler.RefreshScheduler, log *logger.Logger) {
	latest, err := repo.LatestImport(ctx)
	switch {
	case apperr.Is(err, apperr.KindNotFound):
		log.Info("no registry import on record, queueing one")
		if err := client.EnqueueRegistryRefresh(ctx, scheduler.RefreshRegistryPayload{Reason: "bootstrap"}); err != nil {
			log.Error("failed to queue bootstrap refresh", "error", err)
		}
	case err != nil:
		log.Warn("failed to read latest registry import", "error", err)
	default:
		log.Info("latest registry import",
			"import_id", latest.ID,
			"source", latest.Source,
			"records", latest.Records,
			"imported_at", latest.ImportedAt,
		)
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return parsed
}
