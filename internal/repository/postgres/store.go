// Package postgres stores images, model profiles and votes in relational
// tables through a pgx pool.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"hotornot/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS images (
	id             TEXT PRIMARY KEY,
	url            TEXT NOT NULL,
	name           TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	model_id       TEXT NOT NULL DEFAULT '',
	model_name     TEXT NOT NULL DEFAULT '',
	model_username TEXT NOT NULL DEFAULT '',
	is_active      BOOLEAN NOT NULL DEFAULT TRUE,
	rating         INTEGER,
	wins           INTEGER NOT NULL DEFAULT 0 CHECK (wins >= 0),
	losses         INTEGER NOT NULL DEFAULT 0 CHECK (losses >= 0),
	times_rated    INTEGER NOT NULL DEFAULT 0,
	win_rate       DOUBLE PRECISION NOT NULL DEFAULT 0,
	last_opponents JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS images_active_idx ON images (is_active);
CREATE INDEX IF NOT EXISTS images_url_idx ON images (url);

CREATE TABLE IF NOT EXISTS model_profiles (
	username   TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	instagram  TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS votes (
	id         TEXT PRIMARY KEY,
	voter_id   TEXT NOT NULL,
	winner_id  TEXT NOT NULL,
	loser_id   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CHECK (winner_id <> loser_id)
);
CREATE INDEX IF NOT EXISTS votes_voter_created_idx ON votes (voter_id, created_at DESC);
`

// EnsureSchema creates missing tables and indexes. Existing tables are left
// untouched.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

func NewStore(pool *pgxpool.Pool) *repository.Store {
	images := NewImageRepository(pool)
	return &repository.Store{
		Images:    images,
		Opponents: images,
		Profiles:  NewProfileRepository(pool),
		Votes:     NewVoteRepository(pool),
		Backend:   backend{pool: pool},
	}
}

type backend struct {
	pool *pgxpool.Pool
}

func (b backend) Name() string {
	return "postgres"
}

func (b backend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

func (b backend) Close(context.Context) error {
	b.pool.Close()
	return nil
}
