package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hotornot/internal/cache"
	"hotornot/internal/config"
	"hotornot/internal/database"
	"hotornot/internal/events"
	"hotornot/internal/handlers"
	"hotornot/internal/jobs"
	"hotornot/internal/live"
	"hotornot/internal/log"
	"hotornot/internal/repository"
	"hotornot/internal/server"
	"hotornot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	logger.Info().Str("backend", store.Name()).Msg("store ready")

	var (
		redisClient *redis.Client
		ranking     service.RankingReader
		stream      *events.StreamPublisher
		queue       jobs.Enqueuer
	)
	if cfg.RedisEnabled() {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		ranking = cache.NewLeaderboard(redisClient, cfg.Leaderboard.Key, cfg.Leaderboard.Size)
		stream = events.NewStreamPublisher(redisClient, cfg.Redis.Stream)
		queue = stream
	} else {
		logger.Info().Msg("redis disabled; leaderboard served from store, no vote events")
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := live.NewHub(logger)
	go hub.Run(hubCtx)

	publishers := events.Fanout{hub}
	if stream != nil {
		publishers = append(publishers, stream)
	}

	handlerSet := handlers.NewHandlerSet(logger, handlers.Dependencies{
		Config:      cfg,
		Store:       store,
		Cache:       redisClient,
		Pairs:       service.NewPairService(store.Images, store.Profiles, logger),
		Votes:       service.NewVoteService(store.Images, store.Opponents, store.Votes, publishers, logger),
		Profiles:    service.NewProfileService(store.Votes),
		Leaderboard: service.NewLeaderboardService(store.Images, ranking, cfg.Leaderboard.MaxLimit, logger),
		Hub:         hub,
	})
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(queue, cfg.Leaderboard.RebuildSchedule, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")
	shutdown(logger, httpServer, scheduler, stopHub, store, redisClient)
}

func shutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, stopHub context.CancelFunc, store *repository.Store, redisClient *redis.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop()
	stopHub()

	if err := store.Close(ctx); err != nil {
		logger.Error().Err(err).Msg("store close error")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
