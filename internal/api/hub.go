package api

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"
)

// Hub maintains the set of connected clients and broadcasts to them.
type Hub struct {
	clients map[*Client]bool

	// Broadcast carries encoded messages for every client.
	Broadcast chan []byte

	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run returns

	live atomic.Int64
	seq  atomic.Int64
}

// NewHub creates a hub. Run it in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Sessions returns the number of connected clients.
func (h *Hub) Sessions() int { return int(h.live.Load()) }

// nextSession numbers sessions for default seeds.
func (h *Hub) nextSession() int64 { return h.seq.Add(1) - 1 }

// Run is the hub's event loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				delete(h.clients, c)
				c.conn.Close()
			}
			h.live.Store(0)
			return

		case c := <-h.register:
			h.clients[c] = true
			h.live.Add(1)
			log.Printf("ws: session %d connected (seed %d)", c.id, c.session.Seed())

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.live.Add(-1)
				log.Printf("ws: session %d closed", c.id)
			}

		case message := <-h.Broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// The read pump also writes to send, so a slow client only
					// loses this broadcast; the channel closes on unregister.
					log.Printf("ws: session %d send buffer full, dropping broadcast", c.id)
				}
			}
		}
	}
}

// Publish encodes msg and queues it for every client. It never blocks.
func (h *Hub) Publish(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws: encode %s: %v", msg.Type, err)
		return
	}
	select {
	case h.Broadcast <- data:
	default:
		log.Printf("ws: broadcast queue full, dropping %s", msg.Type)
	}
}
