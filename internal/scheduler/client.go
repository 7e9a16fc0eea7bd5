package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodtruck_backend/platform/config"
	"foodtruck_backend/platform/redisx"

	"github.com/hibiken/asynq"
)

// refreshUniqueTTL stops a burst of manual refreshes from queueing several
// imports of the same data.
const refreshUniqueTTL = 5 * time.Minute

type Client struct {
	client *asynq.Client
	queue  string
}

// RefreshScheduler enqueues registry imports.
type RefreshScheduler interface {
	EnqueueRegistryRefresh(ctx context.Context, payload RefreshRegistryPayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueRegistryRefresh queues an import. A refresh already waiting in the
// queue absorbs the request.
func (c *Client) EnqueueRegistryRefresh(ctx context.Context, payload RefreshRegistryPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewRefreshRegistryTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.Unique(refreshUniqueTTL))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	if q := cfg.GetAsynqQueueName(); q != "" {
		return q
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redisx.ParseURL(redisURL, tlsInsecure)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

var _ RefreshScheduler = (*Client)(nil)
