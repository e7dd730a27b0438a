package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"hotornot/internal/events"
	"hotornot/internal/models"
	"hotornot/internal/rating"
	"hotornot/internal/repository"
	"hotornot/internal/security"
)

var (
	ErrInvalidVote     = errors.New("invalid vote")
	ErrMissingImageIDs = fmt.Errorf("%w: both winnerId and loserId are required", ErrInvalidVote)
	ErrSameImage       = fmt.Errorf("%w: winnerId and loserId must differ", ErrInvalidVote)
)

type VoteInput struct {
	WinnerID string
	LoserID  string
	VoterID  string
}

type VoteResult struct {
	VoteID          string
	WinnerNewRating int
	LoserNewRating  int
}

type VoteService struct {
	images    repository.ImageRepository
	opponents repository.OpponentLog
	votes     repository.VoteRepository
	publisher events.Publisher
	log       zerolog.Logger
	now       func() time.Time
}

func NewVoteService(images repository.ImageRepository, opponents repository.OpponentLog, votes repository.VoteRepository, publisher events.Publisher, log zerolog.Logger) *VoteService {
	return &VoteService{
		images:    images,
		opponents: opponents,
		votes:     votes,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Cast applies one vote. The rating updates, history appends and the vote
// insert are separate writes with no transaction around them: a failure
// part way leaves the earlier writes in place.
func (s *VoteService) Cast(ctx context.Context, input VoteInput) (VoteResult, error) {
	if input.WinnerID == "" || input.LoserID == "" {
		return VoteResult{}, ErrMissingImageIDs
	}
	if input.WinnerID == input.LoserID {
		return VoteResult{}, ErrSameImage
	}

	winner, err := s.images.GetByID(ctx, input.WinnerID)
	if err != nil {
		return VoteResult{}, fmt.Errorf("load winner %s: %w", input.WinnerID, err)
	}
	loser, err := s.images.GetByID(ctx, input.LoserID)
	if err != nil {
		return VoteResult{}, fmt.Errorf("load loser %s: %w", input.LoserID, err)
	}

	newWinner, newLoser := rating.Update(winner.Rating, loser.Rating)
	at := s.now().UTC()

	if err := s.images.RecordWin(ctx, winner.ID, models.Outcome{
		Rating:  newWinner,
		WinRate: rating.WinRateAfterWin(winner.Wins, winner.Losses),
		At:      at,
	}); err != nil {
		return VoteResult{}, fmt.Errorf("record win: %w", err)
	}
	s.appendOpponent(ctx, winner.ID, models.Opponent{
		ID:        loser.ID,
		ModelID:   loser.ModelID,
		Rating:    loser.Rating,
		Result:    models.OpponentResultWin,
		Timestamp: at,
	})

	if err := s.images.RecordLoss(ctx, loser.ID, models.Outcome{
		Rating:  newLoser,
		WinRate: rating.WinRateAfterLoss(loser.Wins, loser.Losses),
		At:      at,
	}); err != nil {
		return VoteResult{}, fmt.Errorf("record loss: %w", err)
	}
	s.appendOpponent(ctx, loser.ID, models.Opponent{
		ID:        winner.ID,
		ModelID:   winner.ModelID,
		Rating:    winner.Rating,
		Result:    models.OpponentResultLoss,
		Timestamp: at,
	})

	vote := models.Vote{
		VoterID:   security.NormalizeVoterID(input.VoterID),
		WinnerID:  winner.ID,
		LoserID:   loser.ID,
		CreatedAt: at,
	}
	if err := s.votes.Create(ctx, &vote); err != nil {
		return VoteResult{}, fmt.Errorf("insert vote: %w", err)
	}

	s.publish(ctx, events.VoteRecorded{
		VoteID:          vote.ID,
		VoterID:         vote.VoterID,
		WinnerID:        vote.WinnerID,
		LoserID:         vote.LoserID,
		WinnerNewRating: newWinner,
		LoserNewRating:  newLoser,
		At:              at,
	})

	return VoteResult{
		VoteID:          vote.ID,
		WinnerNewRating: newWinner,
		LoserNewRating:  newLoser,
	}, nil
}

func (s *VoteService) appendOpponent(ctx context.Context, imageID string, opponent models.Opponent) {
	if s.opponents == nil {
		return
	}
	if err := s.opponents.AppendOpponent(ctx, imageID, opponent); err != nil {
		s.log.Warn().Err(err).Str("image_id", imageID).Msg("append opponent history failed")
	}
}

func (s *VoteService) publish(ctx context.Context, event events.VoteRecorded) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishVote(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("vote_id", event.VoteID).Msg("publish vote event failed")
	}
}
