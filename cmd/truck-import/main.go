// Command truck-import copies a food truck export into Postgres and tells
// running API instances to reload.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"foodtruck_backend/internal/adapters/storage"
	"foodtruck_backend/internal/trucks/importer"
	"foodtruck_backend/internal/trucks/loader"
	"foodtruck_backend/internal/trucks/repository"
	"foodtruck_backend/internal/trucks/source"
	"foodtruck_backend/platform/config"
	"foodtruck_backend/platform/db"
	"foodtruck_backend/platform/logger"
	"foodtruck_backend/platform/redisx"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	kind := flag.String("source", cfg.GetImportSource(), "source kind: csv, xlsx, yaml or minio")
	path := flag.String("path", cfg.GetImportSourcePath(), "comma-separated files, URLs or object keys")
	notify := flag.Bool("notify", true, "publish a reload notification when REDIS_URL is set")
	archive := flag.Bool("archive", cfg.IsMinIOEnabled(), "upload a CSV copy of the import to MinIO")
	flag.Parse()

	log := logger.New(cfg.Env)
	log.Info("starting food truck import", "source", *kind, "path", *path)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.GetDatabaseURL() == "" {
		log.Error("DATABASE_URL is required for imports")
		os.Exit(2)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

	imp := importer.New(repository.New(pool), log)
	deps := source.Deps{Bucket: cfg.GetMinIOBucket()}

	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		deps.Objects = storageSvc
		if *archive {
			if err := storageSvc.EnsureBucketExists(ctx, cfg.GetMinIOBucket()); err != nil {
				log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinIOBucket())
				panic("failed to ensure storage bucket exists: " + err.Error())
			}
			imp.WithArchive(storageSvc, cfg.GetMinIOBucket())
		}
	}

	if *notify && cfg.GetRedisURL() != "" {
		client, err := redisx.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize redis client", "error", err)
			panic("failed to initialize redis client: " + err.Error())
		}
		defer func() { _ = client.Close() }()
		imp.WithNotifier(loader.NewNotifier(client, cfg.GetRegistryReloadChannel()))
	}

	if *kind == "postgres" {
		log.Error("cannot import from the table being replaced")
		os.Exit(2)
	}
	src, err := source.Build(*kind, *path, deps)
	if err != nil {
		log.Error("invalid import source", "error", err)
		os.Exit(2)
	}

	sum, err := imp.Import(ctx, src)
	if err != nil {
		log.Error("import failed", "source", src.Name(), "error", err)
		os.Exit(1)
	}

	log.Info("import complete",
		"import_id", sum.ImportID,
		"records", sum.Records,
		"skipped", sum.Skipped,
		"archive_key", sum.ArchiveKey,
		"notified", sum.Notified,
	)
}
