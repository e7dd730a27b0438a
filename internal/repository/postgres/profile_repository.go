package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"hotornot/internal/models"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) SocialHandles(ctx context.Context, usernames []string) (map[string]string, error) {
	handles := make(map[string]string, len(usernames))
	if len(usernames) == 0 {
		return handles, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT username, instagram FROM model_profiles WHERE username = ANY($1)`, usernames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var username, instagram string
		if err := rows.Scan(&username, &instagram); err != nil {
			return nil, err
		}
		handles[username] = instagram
	}
	return handles, rows.Err()
}

func (r *ProfileRepository) UpsertProfile(ctx context.Context, profile models.ModelProfile) error {
	const query = `
		INSERT INTO model_profiles (username, name, instagram, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (username) DO UPDATE
		SET name = EXCLUDED.name, instagram = EXCLUDED.instagram, updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, profile.Username, profile.Name, profile.Instagram)
	return err
}
