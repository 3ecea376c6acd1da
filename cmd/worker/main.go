package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"skaplSite/internal/config"
	"skaplSite/internal/feed"
	"skaplSite/internal/metrics"
	"skaplSite/internal/tasks"
	"skaplSite/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	redisAddr := cfg.Redis.Addr()
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	aggregator := feed.NewAggregator(cfg.Feed, logger)
	postCache := feed.NewCache(redisClient, aggregator, time.Duration(cfg.Feed.CacheTTLSeconds)*time.Second, logger)
	refreshHandler := worker.NewFeedRefreshHandler(postCache, logger)

	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}

	// Warm the cache right away instead of waiting for the first tick.
	client := asynq.NewClient(redisOpt)
	if task, err := tasks.NewFeedRefreshTask(uuid.NewString()); err != nil {
		logger.Warn("build initial feed refresh task failed", slog.Any("error", err))
	} else if _, err := client.Enqueue(task); err != nil {
		logger.Warn("enqueue initial feed refresh failed", slog.Any("error", err))
	}
	if err := client.Close(); err != nil {
		logger.Warn("close asynq client failed", slog.Any("error", err))
	}

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})
	periodicTask, err := tasks.NewFeedRefreshTask("scheduled")
	if err != nil {
		log.Fatalf("build feed refresh task: %v", err)
	}
	if _, err := scheduler.Register("@every 1h", periodicTask); err != nil {
		log.Fatalf("register feed refresh schedule: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("start scheduler: %v", err)
	}
	defer scheduler.Shutdown()

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
	})

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeFeedRefresh, refreshHandler)

	logger.Info("worker service started", slog.String("redis_addr", redisAddr))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
