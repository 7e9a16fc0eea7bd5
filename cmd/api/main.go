package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodtruck_backend/internal/adapters/storage"
	"foodtruck_backend/internal/events"
	apphttp "foodtruck_backend/internal/http"
	"foodtruck_backend/internal/http/router"
	"foodtruck_backend/internal/trucks"
	"foodtruck_backend/internal/trucks/loader"
	"foodtruck_backend/internal/trucks/registry"
	"foodtruck_backend/internal/trucks/repository"
	"foodtruck_backend/internal/trucks/source"
	"foodtruck_backend/platform/config"
	"foodtruck_backend/platform/db"
	"foodtruck_backend/platform/logger"
	"foodtruck_backend/platform/redisx"
	"foodtruck_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const storageBucketEnsureErrPrefix = "failed to ensure storage bucket exists: "
const storageBucketEnsureErrMsg = "failed to ensure storage bucket exists"

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, bucket string) {
	if err := withRetry(ctx, log, "ensure registry bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error(storageBucketEnsureErrMsg, "error", err, "bucket", bucket)
		panic(storageBucketEnsureErrPrefix + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "source", cfg.GetRegistrySource())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Registry source
	// ========================================================================

	deps := source.Deps{Bucket: cfg.GetMinIOBucket()}

	if cfg.GetRegistrySource() == "postgres" {
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
		log.Info("database connection established")
		deps.Rows = repository.New(pool)
	}

	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, storageSvc, cfg.GetMinIOBucket())
		log.Info("storage service initialized", "bucket", cfg.GetMinIOBucket())
		deps.Objects = storageSvc
	}

	src, err := source.Build(cfg.GetRegistrySource(), cfg.GetRegistrySourcePath(), deps)
	if err != nil {
		log.Error("invalid registry source", "error", err)
		panic("invalid registry source: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)
	eventBus.Subscribe(events.RegistryReloaded{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		reloaded, ok := e.(events.RegistryReloaded)
		if !ok {
			return nil
		}
		log.Debug("registry snapshot swapped",
			"reload_id", reloaded.ReloadID,
			"records", reloaded.Records,
			"previous", reloaded.Previous,
			"took", reloaded.Took,
		)
		return nil
	}))
	store := registry.NewStore()
	reloader := loader.NewReloader(src, store, eventBus, log)

	// The API serves 503 until a load succeeds, so a slow upstream does not
	// keep it from starting.
	if err := withRetry(ctx, log, "initial registry load", 3, 2*time.Second, func() error {
		_, err := reloader.Reload(ctx)
		return err
	}); err != nil {
		log.Error("serving without a registry", "source", src.Name(), "error", err)
	}

	if interval := cfg.GetRegistryRefreshInterval(); interval > 0 {
		go reloader.Run(ctx, interval)
	}

	if cfg.GetRedisURL() != "" {
		client, err := redisx.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize redis client", "error", err)
			panic("failed to initialize redis client: " + err.Error())
		}
		defer func() { _ = client.Close() }()

		sub := loader.NewSubscriber(client, cfg.GetRegistryReloadChannel(), reloader, log)
		go func() {
			if err := sub.Run(ctx); err != nil {
				log.Error("registry reload subscription stopped", "error", err)
			}
		}()
	} else {
		log.Warn("REDIS_URL not configured; import notifications disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	val := validator.New()
	trucksModule := trucks.NewModule(store, val, log)

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   trucksModule,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			trucksModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
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
