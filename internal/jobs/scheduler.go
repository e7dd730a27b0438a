package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"hotornot/internal/events"
)

type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload any) error
}

type Scheduler struct {
	cron     *cron.Cron
	queue    Enqueuer
	schedule string
	log      zerolog.Logger
}

func NewScheduler(queue Enqueuer, schedule string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		queue:    queue,
		schedule: schedule,
		log:      log,
	}
}

// Start registers the leaderboard rebuild. A scheduler without a queue or
// schedule does nothing.
func (s *Scheduler) Start() error {
	if s.queue == nil || s.schedule == "" {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.EnqueueRebuild); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("leaderboard rebuild scheduled")
	return nil
}

// Stop waits up to five seconds for a running job to finish.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) EnqueueRebuild() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.queue.Enqueue(ctx, events.TypeLeaderboardRebuild, nil); err != nil {
		s.log.Error().Err(err).Msg("enqueue leaderboard rebuild failed")
	}
}
