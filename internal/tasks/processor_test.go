package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hotornot/internal/events"
	"hotornot/internal/models"
)

type fakeLeaderboard struct {
	recorded []map[string]int
	replaced [][]models.Image
	err      error
}

func (f *fakeLeaderboard) Record(_ context.Context, ratings map[string]int) error {
	f.recorded = append(f.recorded, ratings)
	return f.err
}

func (f *fakeLeaderboard) Replace(_ context.Context, images []models.Image) error {
	f.replaced = append(f.replaced, images)
	return f.err
}

type fakeImages struct {
	images []models.Image
	limit  int
}

func (f *fakeImages) TopRated(_ context.Context, limit int) ([]models.Image, error) {
	f.limit = limit
	return f.images, nil
}

func message(t *testing.T, taskType string, payload any) redis.XMessage {
	t.Helper()
	values, err := events.StreamValues(taskType, payload)
	if err != nil {
		t.Fatal(err)
	}
	return redis.XMessage{ID: "1-0", Values: values}
}

func TestProcessor_VoteRecorded(t *testing.T) {
	board := &fakeLeaderboard{}
	p := NewProcessor(board, &fakeImages{}, 100, zerolog.Nop())

	msg := message(t, events.TypeVoteRecorded, events.VoteRecorded{
		VoteID: "v", WinnerID: "a", LoserID: "b", WinnerNewRating: 1216, LoserNewRating: 1184,
	})
	if err := p.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(board.recorded) != 1 {
		t.Fatalf("recorded = %v", board.recorded)
	}
	if got := board.recorded[0]; got["a"] != 1216 || got["b"] != 1184 {
		t.Errorf("scores = %v", got)
	}
}

func TestProcessor_VoteRecordedFailureIsRetried(t *testing.T) {
	board := &fakeLeaderboard{err: errors.New("redis down")}
	p := NewProcessor(board, &fakeImages{}, 100, zerolog.Nop())

	msg := message(t, events.TypeVoteRecorded, events.VoteRecorded{WinnerID: "a", LoserID: "b"})
	if err := p.Handle(context.Background(), msg); err == nil {
		t.Fatal("expected error so the message stays pending")
	}
}

func TestProcessor_Rebuild(t *testing.T) {
	board := &fakeLeaderboard{}
	images := &fakeImages{images: []models.Image{{ID: "a", Rating: 1300}, {ID: "b", Rating: 1200}}}
	p := NewProcessor(board, images, 25, zerolog.Nop())

	if err := p.Handle(context.Background(), message(t, events.TypeLeaderboardRebuild, nil)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if images.limit != 25 {
		t.Errorf("limit = %d, want 25", images.limit)
	}
	if len(board.replaced) != 1 || len(board.replaced[0]) != 2 {
		t.Fatalf("replaced = %v", board.replaced)
	}
}

func TestProcessor_DropsUnknownAndMalformed(t *testing.T) {
	board := &fakeLeaderboard{}
	p := NewProcessor(board, &fakeImages{}, 100, zerolog.Nop())

	msgs := []redis.XMessage{
		{ID: "1-0", Values: map[string]any{"type": "thumbnail"}},
		{ID: "2-0", Values: map[string]any{"type": events.TypeVoteRecorded, "data": "{not json"}},
		message(t, events.TypeVoteRecorded, events.VoteRecorded{VoteID: "v"}),
	}
	for _, msg := range msgs {
		if err := p.Handle(context.Background(), msg); err != nil {
			t.Errorf("handle %s: %v", msg.ID, err)
		}
	}
	if len(board.recorded) != 0 || len(board.replaced) != 0 {
		t.Errorf("leaderboard touched: %+v", board)
	}
}
