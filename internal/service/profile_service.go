package service

import (
	"context"
	"fmt"

	"hotornot/internal/models"
	"hotornot/internal/repository"
	"hotornot/internal/security"
)

const (
	RecentVotesLimit = 10
	TopWinnersLimit  = 5
)

type ProfileService struct {
	votes repository.VoteRepository
}

func NewProfileService(votes repository.VoteRepository) *ProfileService {
	return &ProfileService{votes: votes}
}

// Get aggregates a voter's history. A voter with no votes gets a zero
// profile, not an error.
func (s *ProfileService) Get(ctx context.Context, voterID string) (models.Profile, error) {
	id := security.NormalizeVoterID(voterID)
	profile := models.Profile{
		VoterID:     id,
		RecentVotes: []models.Vote{},
		TopWinners:  []models.TopWinner{},
	}

	total, err := s.votes.CountByVoter(ctx, id)
	if err != nil {
		return models.Profile{}, fmt.Errorf("count votes: %w", err)
	}
	profile.TotalVotes = total
	if total == 0 {
		return profile, nil
	}

	recent, err := s.votes.RecentByVoter(ctx, id, RecentVotesLimit)
	if err != nil {
		return models.Profile{}, fmt.Errorf("recent votes: %w", err)
	}
	profile.RecentVotes = recent

	unique, err := s.votes.CountImagesByVoter(ctx, id)
	if err != nil {
		return models.Profile{}, fmt.Errorf("count voted images: %w", err)
	}
	profile.UniqueModelsVoted = unique

	top, err := s.votes.TopWinnersByVoter(ctx, id, TopWinnersLimit)
	if err != nil {
		return models.Profile{}, fmt.Errorf("top winners: %w", err)
	}
	profile.TopWinners = top

	return profile, nil
}
