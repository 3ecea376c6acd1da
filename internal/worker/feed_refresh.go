package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"skaplSite/internal/feed"
	"skaplSite/internal/tasks"
)

// FeedRefresher re-fetches the feed and rewrites the cache entry.
// Implemented by feed.Cache.
type FeedRefresher interface {
	Refresh(ctx context.Context) ([]feed.Post, error)
}

// FeedRefreshHandler consumes feed:refresh tasks so the blog listing never
// serves a cold cache.
type FeedRefreshHandler struct {
	cache  FeedRefresher
	logger *slog.Logger
}

// NewFeedRefreshHandler constructs the handler.
func NewFeedRefreshHandler(cache FeedRefresher, logger *slog.Logger) *FeedRefreshHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedRefreshHandler{cache: cache, logger: logger}
}

// ProcessTask implements asynq.Handler.
func (h *FeedRefreshHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.FeedRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("decode feed refresh payload", slog.String("error", err.Error()))
		return err
	}

	log := h.logger.With(slog.String("correlation_id", payload.CorrelationID))

	posts, err := h.cache.Refresh(ctx)
	if err != nil {
		log.Error("feed cache refresh failed", slog.String("error", err.Error()))
		return err
	}

	log.Info("feed cache refreshed", slog.Int("posts", len(posts)))
	return nil
}
