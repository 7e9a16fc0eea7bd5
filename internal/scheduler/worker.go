package scheduler

import (
	"context"
	"fmt"

	"foodtruck_backend/internal/trucks/importer"
	"foodtruck_backend/internal/trucks/source"
	"foodtruck_backend/platform/config"
	"foodtruck_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Importer runs one import; *importer.Importer implements it.
type Importer interface {
	Import(ctx context.Context, src source.Source) (importer.Summary, error)
}

// SourceFactory builds the source a refresh task should read.
type SourceFactory func(kind, path string) (source.Source, error)

type Worker struct {
	server      *asynq.Server
	mux         *asynq.ServeMux
	importer    Importer
	sources     SourceFactory
	defaultKind string
	defaultPath string
	log         *logger.Logger
}

func NewWorker(cfg interface {
	config.SchedulerConfig
	config.ImportConfig
}, imp Importer, sources SourceFactory, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 2
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:      server,
		mux:         mux,
		importer:    imp,
		sources:     sources,
		defaultKind: cfg.GetImportSource(),
		defaultPath: cfg.GetImportSourcePath(),
		log:         log,
	}

	mux.HandleFunc(TaskRefreshRegistry, w.handleRefreshRegistry)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleRefreshRegistry(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRefreshRegistryPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	kind, path := payload.Source, payload.Path
	if kind == "" {
		kind = w.defaultKind
	}
	if path == "" {
		path = w.defaultPath
	}

	src, err := w.sources(kind, path)
	if err != nil {
		// A bad source will not get better on retry.
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	sum, err := w.importer.Import(ctx, src)
	if err != nil {
		w.log.Warn("registry refresh failed", "source", src.Name(), "reason", payload.Reason, "error", err)
		return err
	}

	w.log.Info("registry refresh complete",
		"import_id", sum.ImportID,
		"source", sum.Source,
		"records", sum.Records,
		"skipped", sum.Skipped,
		"notified", sum.Notified,
		"reason", payload.Reason,
	)
	return nil
}
