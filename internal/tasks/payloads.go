package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type constants keep queue producers and consumers in sync.
const (
	TypeFeedRefresh = "feed:refresh"
)

// FeedRefreshPayload carries the minimum needed to trace a cache refresh run.
type FeedRefreshPayload struct {
	CorrelationID string `json:"correlation_id"`
}

// NewFeedRefreshTask builds a feed cache refresh task.
func NewFeedRefreshTask(correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(FeedRefreshPayload{CorrelationID: correlationID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeFeedRefresh, payload), nil
}
