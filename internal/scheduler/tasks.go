package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskRefreshRegistry = "trucks.registry.refresh"

// RefreshRegistryPayload asks a worker to import the registry. Empty fields
// fall back to the worker's configured source.
type RefreshRegistryPayload struct {
	Source string `json:"source,omitempty"`
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func NewRefreshRegistryTask(payload RefreshRegistryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRefreshRegistry, data), nil
}

func ParseRefreshRegistryPayload(task *asynq.Task) (RefreshRegistryPayload, error) {
	var payload RefreshRegistryPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RefreshRegistryPayload{}, err
	}
	return payload, nil
}
