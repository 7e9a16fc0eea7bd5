// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"
	"time"

	"foodtruck_backend/internal/events"
	"foodtruck_backend/platform/config"
	"foodtruck_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.RateLimitConfig
}

// HealthReport describes what the instance is currently serving.
type HealthReport struct {
	Records  int
	Source   string
	LoadedAt time.Time
}

// HealthChecker is used for readiness checks. An error means the instance
// should not receive traffic yet.
type HealthChecker interface {
	Health(ctx context.Context) (HealthReport, error)
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	Config RouterConfig
	Logger *logger.Logger
	Health HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	Modules  []Module
}
