// Package events carries vote results out of the request path: to the redis
// stream the worker consumes and to the live websocket hub.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	TypeVoteRecorded       = "vote.recorded"
	TypeLeaderboardRebuild = "leaderboard.rebuild"
)

type VoteRecorded struct {
	VoteID          string    `json:"voteId"`
	VoterID         string    `json:"userId"`
	WinnerID        string    `json:"winnerId"`
	LoserID         string    `json:"loserId"`
	WinnerNewRating int       `json:"winnerNewElo"`
	LoserNewRating  int       `json:"loserNewElo"`
	At              time.Time `json:"createdAt"`
}

type Publisher interface {
	PublishVote(ctx context.Context, event VoteRecorded) error
}

// Fanout delivers to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) PublishVote(ctx context.Context, event VoteRecorded) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.PublishVote(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StreamPublisher appends tasks to a redis stream as {type, data} entries,
// data being the JSON encoded payload.
type StreamPublisher struct {
	client *redis.Client
	stream string
}

func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream}
}

func (p *StreamPublisher) PublishVote(ctx context.Context, event VoteRecorded) error {
	return p.Enqueue(ctx, TypeVoteRecorded, event)
}

func (p *StreamPublisher) Enqueue(ctx context.Context, taskType string, payload any) error {
	values, err := StreamValues(taskType, payload)
	if err != nil {
		return err
	}
	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

func StreamValues(taskType string, payload any) (map[string]any, error) {
	data := []byte("{}")
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
		}
	}
	return map[string]any{
		"type": taskType,
		"data": string(data),
	}, nil
}
