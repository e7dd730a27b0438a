package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"hotornot/internal/cache"
	"hotornot/internal/config"
	"hotornot/internal/database"
	"hotornot/internal/log"
	"hotornot/internal/queue"
	"hotornot/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)
	if !cfg.RedisEnabled() {
		logger.Fatal().Msg("worker requires redis (set HOTORNOT_REDIS_ADDR)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	store, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("store close error")
		}
	}()

	leaderboard := cache.NewLeaderboard(client, cfg.Leaderboard.Key, cfg.Leaderboard.Size)
	processor := tasks.NewProcessor(leaderboard, store.Images, cfg.Leaderboard.Size, logger)
	consumer := queue.NewConsumer(client, queue.Config{
		Stream:        cfg.Redis.Stream,
		Group:         cfg.Redis.Group,
		Consumer:      cfg.Redis.Consumer,
		ClaimInterval: cfg.Redis.ClaimInterval,
	}, logger, processor)

	// Seed the sorted set so the API has something to read before the
	// first scheduled rebuild.
	if err := processor.Rebuild(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial leaderboard rebuild failed")
	}

	logger.Info().Str("stream", cfg.Redis.Stream).Str("consumer", cfg.Redis.Consumer).Msg("worker started")
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("consumer stopped unexpectedly")
		return
	}
	logger.Info().Msg("worker exited cleanly")
}
