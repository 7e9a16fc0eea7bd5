// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"foodtruck_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Truck Registry Events
// =============================================================================

// RegistryReloaded is published after a new snapshot has been swapped in.
type RegistryReloaded struct {
	BaseEvent
	ReloadID uuid.UUID     `json:"reloadId"`
	Source   string        `json:"source"`
	Records  int           `json:"records"`
	Previous int           `json:"previous"`
	Took     time.Duration `json:"took"`
}

func (e RegistryReloaded) EventName() string { return "trucks.registry.reloaded" }

// RegistryReloadFailed is published when a reload could not replace the
// active snapshot. The previous snapshot keeps serving.
type RegistryReloadFailed struct {
	BaseEvent
	ReloadID uuid.UUID `json:"reloadId"`
	Source   string    `json:"source"`
	Reason   string    `json:"reason"`
}

func (e RegistryReloadFailed) EventName() string { return "trucks.registry.reload_failed" }

// RegistryImported is published by the import pipeline after the
// food_trucks table has been replaced.
type RegistryImported struct {
	BaseEvent
	BatchID uuid.UUID `json:"batchId"`
	Source  string    `json:"source"`
	Records int       `json:"records"`
}

func (e RegistryImported) EventName() string { return "trucks.registry.imported" }
