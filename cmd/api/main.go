package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"skaplSite/internal/api"
	"skaplSite/internal/auth"
	"skaplSite/internal/config"
	"skaplSite/internal/database"
	"skaplSite/internal/feed"
	"skaplSite/internal/storage"
	"skaplSite/internal/submission"
	"skaplSite/internal/turnstile"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	log.Printf("api bootstrapped mode=%s db host=%s port=%d db=%s sslmode=%s",
		cfg.API.Mode,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	log.Printf("database ready")

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	log.Printf("storage client ready, bucket=%s", cfg.MinIO.Bucket)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()

	verifier := turnstile.NewClient(cfg.Turnstile)
	aggregator := feed.NewAggregator(cfg.Feed, logger)
	postCache := feed.NewCache(redisClient, aggregator, time.Duration(cfg.Feed.CacheTTLSeconds)*time.Second, logger)
	store := database.NewStore(db)

	var scanner submission.Scanner
	if cfg.Upload.ClamdAddr != "" {
		scanner = submission.NewClamdScanner(cfg.Upload.ClamdAddr)
		log.Printf("resume virus scanning enabled, clamd=%s", cfg.Upload.ClamdAddr)
	}

	pipeline := submission.NewPipeline(submission.Options{
		Verifier:       verifier,
		Blobs:          storageClient,
		Recorder:       store,
		Scanner:        scanner,
		Logger:         logger,
		MaxResumeBytes: cfg.Upload.MaxBytes,
		Positions:      cfg.Careers.PositionList(),
	})

	var authService *auth.AuthService
	if cfg.Admin.PasswordHash != "" && cfg.Admin.JWTSecret != "" {
		authService, err = auth.NewAuthService(
			cfg.Admin.PasswordHash,
			cfg.Admin.JWTSecret,
			time.Duration(cfg.Admin.TokenTTLMinutes)*time.Minute,
		)
		if err != nil {
			log.Fatalf("init auth service: %v", err)
		}
	} else {
		logger.Warn("admin credentials not configured, admin endpoints disabled")
	}

	router := api.NewRouter(cfg, logger)
	api.RegisterRoutes(router, api.Deps{
		Config:      cfg,
		Store:       store,
		Pipeline:    pipeline,
		Verifier:    verifier,
		Posts:       postCache,
		Blobs:       storageClient,
		BlobRemover: storageClient,
		AuthService: authService,
		RedisClient: redisClient,
	})

	address := fmt.Sprintf(":%d", cfg.API.Port)
	log.Printf("api listening on %s", address)
	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}
