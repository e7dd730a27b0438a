package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotornot/internal/ids"
	"hotornot/internal/models"
	"hotornot/internal/repository"
)

const imageColumns = `
	id, url, name, description, model_id, model_name, model_username, is_active,
	COALESCE(rating, 0), wins, losses, times_rated, win_rate, last_opponents,
	created_at, updated_at
`

type ImageRepository struct {
	pool *pgxpool.Pool
}

func NewImageRepository(pool *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{pool: pool}
}

func (r *ImageRepository) GetByID(ctx context.Context, id string) (models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = $1`

	image, err := scanImage(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Image{}, repository.ErrImageNotFound
		}
		return models.Image{}, err
	}
	return image, nil
}

func (r *ImageRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Image, error) {
	if len(ids) == 0 {
		return []models.Image{}, nil
	}
	query := `
		SELECT ` + imageColumns + `
		FROM images i
		JOIN unnest($1::text[]) WITH ORDINALITY AS wanted(id, ord) USING (id)
		ORDER BY wanted.ord
	`
	return r.query(ctx, query, ids)
}

func (r *ImageRepository) SampleActive(ctx context.Context, size int) ([]models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE is_active ORDER BY random() LIMIT $1`
	return r.query(ctx, query, size)
}

func (r *ImageRepository) List(ctx context.Context, limit int) ([]models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images ORDER BY created_at LIMIT $1`
	return r.query(ctx, query, limit)
}

func (r *ImageRepository) TopRated(ctx context.Context, limit int) ([]models.Image, error) {
	query := `
		SELECT ` + imageColumns + `
		FROM images
		ORDER BY COALESCE(rating, $2) DESC, id
		LIMIT $1
	`
	return r.query(ctx, query, limit, models.DefaultRating)
}

func (r *ImageRepository) RecordWin(ctx context.Context, id string, outcome models.Outcome) error {
	const query = `
		UPDATE images
		SET wins = wins + 1,
		    times_rated = times_rated + 1,
		    rating = $2,
		    win_rate = $3,
		    updated_at = $4
		WHERE id = $1
	`
	return r.exec(ctx, query, id, outcome.Rating, outcome.WinRate, outcome.At)
}

func (r *ImageRepository) RecordLoss(ctx context.Context, id string, outcome models.Outcome) error {
	const query = `
		UPDATE images
		SET losses = losses + 1,
		    times_rated = times_rated + 1,
		    rating = $2,
		    win_rate = $3,
		    updated_at = $4
		WHERE id = $1
	`
	return r.exec(ctx, query, id, outcome.Rating, outcome.WinRate, outcome.At)
}

// AppendOpponent appends to last_opponents and keeps the newest
// OpponentHistoryLimit entries.
func (r *ImageRepository) AppendOpponent(ctx context.Context, imageID string, opponent models.Opponent) error {
	const query = `
		UPDATE images
		SET last_opponents = (
			SELECT COALESCE(jsonb_agg(entry ORDER BY ord), '[]'::jsonb)
			FROM (
				SELECT entry, ord
				FROM jsonb_array_elements(
					CASE WHEN jsonb_typeof(last_opponents) = 'array' THEN last_opponents ELSE '[]'::jsonb END
					|| jsonb_build_array($2::jsonb)
				) WITH ORDINALITY AS history(entry, ord)
				ORDER BY ord DESC
				LIMIT $3
			) newest
		)
		WHERE id = $1
	`
	payload, err := json.Marshal(opponent)
	if err != nil {
		return fmt.Errorf("marshal opponent: %w", err)
	}
	return r.exec(ctx, query, imageID, string(payload), models.OpponentHistoryLimit)
}

func (r *ImageRepository) Create(ctx context.Context, image *models.Image) error {
	const query = `
		INSERT INTO images (
			id, url, name, description, model_id, model_name, model_username, is_active,
			rating, wins, losses, times_rated, win_rate, last_opponents, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, '[]'::jsonb, $14, $15
		)
	`
	if image.ID == "" {
		image.ID = ids.New()
	}
	now := time.Now().UTC()
	if image.CreatedAt.IsZero() {
		image.CreatedAt = now
	}
	if image.UpdatedAt.IsZero() {
		image.UpdatedAt = now
	}
	image.ApplyDefaults()

	_, err := r.pool.Exec(ctx, query,
		image.ID,
		image.URL,
		image.Name,
		image.Description,
		image.ModelID,
		image.ModelName,
		image.ModelUsername,
		image.IsActive,
		image.Rating,
		image.Wins,
		image.Losses,
		image.TimesRated,
		image.WinRate,
		image.CreatedAt,
		image.UpdatedAt,
	)
	return err
}

func (r *ImageRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM images WHERE url = $1)`, url).Scan(&exists)
	return exists, err
}

func (r *ImageRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM images`).Scan(&n)
	return n, err
}

func (r *ImageRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrImageNotFound
	}
	return nil
}

func (r *ImageRepository) query(ctx context.Context, query string, args ...any) ([]models.Image, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := make([]models.Image, 0)
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func scanImage(row pgx.Row) (models.Image, error) {
	var (
		image   models.Image
		history []byte
	)
	if err := row.Scan(
		&image.ID,
		&image.URL,
		&image.Name,
		&image.Description,
		&image.ModelID,
		&image.ModelName,
		&image.ModelUsername,
		&image.IsActive,
		&image.Rating,
		&image.Wins,
		&image.Losses,
		&image.TimesRated,
		&image.WinRate,
		&history,
		&image.CreatedAt,
		&image.UpdatedAt,
	); err != nil {
		return models.Image{}, err
	}
	image.LastOpponents = decodeOpponents(history)
	image.ApplyDefaults()
	return image, nil
}

func decodeOpponents(raw []byte) []models.Opponent {
	if len(raw) == 0 {
		return nil
	}
	var history []models.Opponent
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil
	}
	return history
}
