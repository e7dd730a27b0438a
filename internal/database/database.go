package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"hotornot/internal/config"
	"hotornot/internal/repository"
	"hotornot/internal/repository/memory"
	mongostore "hotornot/internal/repository/mongo"
	pgstore "hotornot/internal/repository/postgres"
)

var ErrUnsupportedScheme = errors.New("unsupported database scheme")

// Open connects the backend selected by the connection string scheme and
// prepares its schema or indexes.
func Open(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*repository.Store, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, config.ErrMissingDatabaseURI
	}

	scheme, err := Scheme(cfg.URI)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case "mongodb", "mongodb+srv":
		client, err := NewMongoClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store := mongostore.NewStore(client, cfg.Name)
		if err := mongostore.EnsureIndexes(ctx, client.Database(cfg.Name)); err != nil {
			log.Warn().Err(err).Msg("ensure mongo indexes failed")
		}
		log.Info().Str("backend", store.Name()).Str("database", cfg.Name).Msg("store connected")
		return store, nil

	case "postgres", "postgresql":
		pool, err := NewPostgresPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pgstore.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		store := pgstore.NewStore(pool)
		log.Info().Str("backend", store.Name()).Msg("store connected")
		return store, nil

	case "memory":
		log.Warn().Msg("using in-memory store, data is lost on exit")
		return memory.New(), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
}

func Scheme(uri string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return "", fmt.Errorf("parse database uri: %w", err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("%w: missing scheme", ErrUnsupportedScheme)
	}
	return strings.ToLower(u.Scheme), nil
}
