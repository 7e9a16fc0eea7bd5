package scheduler

import (
	"context"
	"fmt"
	"time"

	"foodtruck_backend/platform/config"
	"foodtruck_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Periodic enqueues a registry refresh on the configured cron schedule.
type Periodic struct {
	scheduler *asynq.Scheduler
	entryID   string
	log       *logger.Logger
}

func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*Periodic, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}
	spec := cfg.GetRegistryImportCron()
	if spec == "" {
		return nil, fmt.Errorf("registry import cron not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	s := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC})

	task, err := NewRefreshRegistryTask(RefreshRegistryPayload{Reason: "cron"})
	if err != nil {
		return nil, err
	}
	entryID, err := s.Register(spec, task, asynq.Queue(queueName(cfg)), asynq.Unique(refreshUniqueTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid REGISTRY_IMPORT_CRON %q: %w", spec, err)
	}

	return &Periodic{scheduler: s, entryID: entryID, log: log}, nil
}

// Run starts the scheduler and stops it when ctx is done.
func (p *Periodic) Run(ctx context.Context) {
	if p == nil || p.scheduler == nil {
		return
	}

	if err := p.scheduler.Start(); err != nil {
		p.log.Error("registry refresh scheduler failed to start", "error", err)
		return
	}
	p.log.Info("registry refresh scheduled", "entry_id", p.entryID)

	<-ctx.Done()
	p.scheduler.Shutdown()
}
