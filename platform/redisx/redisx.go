// Package redisx builds go-redis clients from configuration.
package redisx

import (
	"crypto/tls"
	"fmt"

	"foodtruck_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// ParseURL parses a redis:// or rediss:// URL. tlsInsecure skips
// certificate verification, for managed Redis behind self-signed certs.
func ParseURL(redisURL string, tlsInsecure bool) (*redis.Options, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		opt.TLSConfig = clone
	} else if tlsInsecure {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return opt, nil
}

// NewClient returns a client for cfg. The connection is lazy; callers that
// need to fail fast should Ping.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.GetRedisURL() == "" {
		return nil, fmt.Errorf("redis url not configured")
	}
	opt, err := ParseURL(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return redis.NewClient(opt), nil
}
