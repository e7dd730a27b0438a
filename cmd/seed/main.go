package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotornot/internal/config"
	"hotornot/internal/database"
	"hotornot/internal/log"
	"hotornot/internal/seed"
	"hotornot/internal/storage"
)

func main() {
	var (
		prefix = flag.String("prefix", "", "bucket prefix holding <username>/<file> images (defaults to storage.prefix)")
		dryRun = flag.Bool("dry-run", false, "report what would be imported without writing")
		check  = flag.Bool("check", false, "print the store backend and image count, then exit")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := log.New(cfg.Environment, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.Close(closeCtx)
	}()

	if *check {
		count, err := store.Images.Count(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("count images failed")
		}
		fmt.Printf("backend: %s\nimages: %d\n", store.Name(), count)
		return
	}

	objects, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		logger.Fatal().Err(err).Msg("bucket check failed")
	}

	if *prefix == "" {
		*prefix = cfg.Storage.Prefix
	}

	importer := seed.NewImporter(objects, store.Images, store.Profiles, logger)
	report, err := importer.Run(ctx, seed.Options{Prefix: *prefix, DryRun: *dryRun})
	if err != nil {
		logger.Fatal().Err(err).Msg("import failed")
	}

	logger.Info().
		Str("bucket", objects.Bucket()).
		Bool("dry_run", *dryRun).
		Int("listed", report.Listed).
		Int("created", report.Created).
		Int("existing", report.Existing).
		Int("ignored", report.Ignored).
		Int("profiles", report.Profiles).
		Msg("import finished")
}
