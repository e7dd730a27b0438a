// Package repository declares the storage contracts used by the voting core.
// Backends live in the mongo, postgres and memory subpackages.
package repository

import (
	"context"
	"errors"

	"hotornot/internal/models"
)

var ErrImageNotFound = errors.New("image not found")

type ImageRepository interface {
	GetByID(ctx context.Context, id string) (models.Image, error)
	// GetByIDs returns the images that exist, in the order of ids.
	GetByIDs(ctx context.Context, ids []string) ([]models.Image, error)
	SampleActive(ctx context.Context, size int) ([]models.Image, error)
	// List returns up to limit images with no activity filter.
	List(ctx context.Context, limit int) ([]models.Image, error)
	TopRated(ctx context.Context, limit int) ([]models.Image, error)
	// RecordWin increments wins and timesRated and sets rating, winRate
	// and updatedAt, without rewriting the rest of the record.
	RecordWin(ctx context.Context, id string, outcome models.Outcome) error
	// RecordLoss is RecordWin for the losing side.
	RecordLoss(ctx context.Context, id string, outcome models.Outcome) error
	Create(ctx context.Context, image *models.Image) error
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// OpponentLog is the non-critical history channel. Callers log its errors
// and carry on.
type OpponentLog interface {
	AppendOpponent(ctx context.Context, imageID string, opponent models.Opponent) error
}

type ModelProfileRepository interface {
	// SocialHandles maps username to instagram handle for the usernames
	// that have a profile.
	SocialHandles(ctx context.Context, usernames []string) (map[string]string, error)
	UpsertProfile(ctx context.Context, profile models.ModelProfile) error
}

type VoteRepository interface {
	Create(ctx context.Context, vote *models.Vote) error
	CountByVoter(ctx context.Context, voterID string) (int64, error)
	// RecentByVoter returns votes newest first.
	RecentByVoter(ctx context.Context, voterID string, limit int) ([]models.Vote, error)
	// CountImagesByVoter counts distinct winner and loser ids.
	CountImagesByVoter(ctx context.Context, voterID string) (int64, error)
	// TopWinnersByVoter groups the voter's votes by winner, orders by
	// count descending then id, and joins current image display fields.
	// Winners whose image no longer exists are dropped.
	TopWinnersByVoter(ctx context.Context, voterID string, limit int) ([]models.TopWinner, error)
}

type Backend interface {
	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Store is the handle created once at start-up and shared by every request.
type Store struct {
	Images    ImageRepository
	Opponents OpponentLog
	Profiles  ModelProfileRepository
	Votes     VoteRepository
	Backend   Backend
}

func (s *Store) Name() string {
	return s.Backend.Name()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Backend.Ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.Backend.Close(ctx)
}
