package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"hotornot/internal/models"
	"hotornot/internal/repository"
)

const DefaultLeaderboardLimit = 10

// RankingReader returns image ids ordered by rating, best first. The redis
// sorted set maintained by the worker implements it.
type RankingReader interface {
	TopIDs(ctx context.Context, limit int) ([]string, error)
}

type LeaderboardService struct {
	images   repository.ImageRepository
	ranking  RankingReader
	maxLimit int
	log      zerolog.Logger
}

// NewLeaderboardService builds the service. ranking may be nil, in which
// case every read goes to the image store.
func NewLeaderboardService(images repository.ImageRepository, ranking RankingReader, maxLimit int, log zerolog.Logger) *LeaderboardService {
	if maxLimit <= 0 {
		maxLimit = 50
	}
	return &LeaderboardService{
		images:   images,
		ranking:  ranking,
		maxLimit: maxLimit,
		log:      log,
	}
}

func (s *LeaderboardService) ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLeaderboardLimit
	case limit > s.maxLimit:
		return s.maxLimit
	default:
		return limit
	}
}

func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	limit = s.ClampLimit(limit)

	if s.ranking != nil {
		entries, err := s.fromRanking(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("cached leaderboard unavailable, reading image store")
		}
	}

	images, err := s.images.TopRated(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top rated images: %w", err)
	}
	return rank(images), nil
}

func (s *LeaderboardService) fromRanking(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	ids, err := s.ranking.TopIDs(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	images, err := s.images.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load ranked images: %w", err)
	}
	return rank(images), nil
}

func rank(images []models.Image) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, len(images))
	for i, img := range images {
		entries[i] = models.LeaderboardEntry{Rank: i + 1, Image: img}
	}
	return entries
}
