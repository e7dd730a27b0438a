package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hotornot/internal/ids"
	"hotornot/internal/models"
)

type VoteRepository struct {
	pool *pgxpool.Pool
}

func NewVoteRepository(pool *pgxpool.Pool) *VoteRepository {
	return &VoteRepository{pool: pool}
}

func (r *VoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	const query = `
		INSERT INTO votes (id, voter_id, winner_id, loser_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if vote.ID == "" {
		vote.ID = ids.New()
	}
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, query, vote.ID, vote.VoterID, vote.WinnerID, vote.LoserID, vote.CreatedAt)
	return err
}

func (r *VoteRepository) CountByVoter(ctx context.Context, voterID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM votes WHERE voter_id = $1`, voterID).Scan(&n)
	return n, err
}

func (r *VoteRepository) RecentByVoter(ctx context.Context, voterID string, limit int) ([]models.Vote, error) {
	const query = `
		SELECT id, voter_id, winner_id, loser_id, created_at
		FROM votes
		WHERE voter_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, voterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	votes := make([]models.Vote, 0, limit)
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.VoterID, &v.WinnerID, &v.LoserID, &v.CreatedAt); err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func (r *VoteRepository) CountImagesByVoter(ctx context.Context, voterID string) (int64, error) {
	const query = `
		SELECT COUNT(*) FROM (
			SELECT winner_id FROM votes WHERE voter_id = $1
			UNION
			SELECT loser_id FROM votes WHERE voter_id = $1
		) seen
	`
	var n int64
	err := r.pool.QueryRow(ctx, query, voterID).Scan(&n)
	return n, err
}

// TopWinnersByVoter limits before joining so a deleted image shortens the
// list rather than pulling in the next winner.
func (r *VoteRepository) TopWinnersByVoter(ctx context.Context, voterID string, limit int) ([]models.TopWinner, error) {
	const query = `
		SELECT top.winner_id, top.wins, i.url, i.model_name, i.model_username
		FROM (
			SELECT winner_id, COUNT(*) AS wins
			FROM votes
			WHERE voter_id = $1
			GROUP BY winner_id
			ORDER BY wins DESC, winner_id
			LIMIT $2
		) top
		JOIN images i ON i.id = top.winner_id
		ORDER BY top.wins DESC, top.winner_id
	`
	rows, err := r.pool.Query(ctx, query, voterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	winners := make([]models.TopWinner, 0, limit)
	for rows.Next() {
		var w models.TopWinner
		if err := rows.Scan(&w.ImageID, &w.Count, &w.URL, &w.ModelName, &w.ModelUsername); err != nil {
			return nil, err
		}
		if w.ModelName == "" {
			w.ModelName = models.DefaultModelName
		}
		if w.ModelUsername == "" {
			w.ModelUsername = models.DefaultModelUsername
		}
		winners = append(winners, w)
	}
	return winners, rows.Err()
}
