package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hotornot/internal/events"
	"hotornot/internal/models"
)

type Leaderboard interface {
	Record(ctx context.Context, ratings map[string]int) error
	Replace(ctx context.Context, images []models.Image) error
}

type RatedImages interface {
	TopRated(ctx context.Context, limit int) ([]models.Image, error)
}

// Processor handles the tasks on the votes stream. Returning an error
// leaves the message pending for a retry; unknown and malformed tasks are
// logged and dropped.
type Processor struct {
	leaderboard Leaderboard
	images      RatedImages
	size        int
	logger      zerolog.Logger
}

func NewProcessor(leaderboard Leaderboard, images RatedImages, size int, logger zerolog.Logger) *Processor {
	return &Processor{
		leaderboard: leaderboard,
		images:      images,
		size:        size,
		logger:      logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	taskType, _ := msg.Values["type"].(string)
	data, _ := msg.Values["data"].(string)

	switch taskType {
	case events.TypeVoteRecorded:
		var event events.VoteRecorded
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			p.logger.Warn().Err(err).Str("message_id", msg.ID).Msg("dropping malformed vote event")
			return nil
		}
		return p.handleVote(ctx, event)
	case events.TypeLeaderboardRebuild:
		return p.Rebuild(ctx)
	default:
		p.logger.Warn().Str("type", taskType).Str("message_id", msg.ID).Msg("unknown task type")
		return nil
	}
}

func (p *Processor) handleVote(ctx context.Context, event events.VoteRecorded) error {
	if event.WinnerID == "" || event.LoserID == "" {
		p.logger.Warn().Str("vote_id", event.VoteID).Msg("vote event without image ids")
		return nil
	}
	if err := p.leaderboard.Record(ctx, map[string]int{
		event.WinnerID: event.WinnerNewRating,
		event.LoserID:  event.LoserNewRating,
	}); err != nil {
		return err
	}
	p.logger.Debug().Str("vote_id", event.VoteID).Msg("leaderboard updated")
	return nil
}

func (p *Processor) Rebuild(ctx context.Context) error {
	images, err := p.images.TopRated(ctx, p.size)
	if err != nil {
		return fmt.Errorf("load top rated images: %w", err)
	}
	if err := p.leaderboard.Replace(ctx, images); err != nil {
		return err
	}
	p.logger.Info().Int("entries", len(images)).Msg("leaderboard rebuilt")
	return nil
}
