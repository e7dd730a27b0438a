// Package live pushes vote results to websocket listeners.
package live

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"hotornot/internal/events"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

const MessageVote = events.TypeVoteRecorded

type Message struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps the connected listeners. Only Run touches the client set.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case payload := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Slow listener; drop it rather than stall the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// PublishVote queues a vote for every listener. It never blocks: when the
// broadcast buffer is full the event is dropped.
func (h *Hub) PublishVote(_ context.Context, event events.VoteRecorded) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(Message{Type: MessageVote, Data: data, Timestamp: event.At})
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn().Str("vote_id", event.VoteID).Msg("live broadcast buffer full, dropping event")
	}
	return nil
}

// Serve registers conn and runs its pumps until the connection closes.
func (h *Hub) Serve(conn *websocket.Conn) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
