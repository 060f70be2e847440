// Package websocket implements the realtime broadcast channel: a single
// process-wide hub that fans vote and bid events out to every connected
// client. Delivery is best effort with no backlog and no acknowledgment.
package websocket

import (
	"encoding/json"
	"sync/atomic"

	"go.uber.org/zap"
)

// Hub owns the set of live client connections. Exactly one Hub is created
// per process and shared by all publishers.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	count      atomic.Int64
	logger     *zap.SugaredLogger
}

// NewHub creates a hub. Run must be started in a goroutine before clients
// connect or events are published.
func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		logger:     logger,
	}
}

// Run drives the hub's connection lifecycle and fan-out. The clients map
// is touched only from this loop, so membership needs no lock.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.count.Add(1)
			h.logger.Infow("client connected", "client_id", client.id, "clients", h.count.Load())

		case client := <-h.unregister:
			h.removeClient(client)

		case payload := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Send buffer full: evict the slow client rather
					// than block the broadcast.
					h.removeClient(client)
				}
			}
		}
	}
}

// Publish marshals an event and hands it to the fan-out loop. It never
// blocks the caller: when the broadcast queue is saturated the event is
// dropped.
func (h *Hub) Publish(event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warnw("failed to marshal event", "error", err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warnw("broadcast queue full, dropping event")
	}
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.count.Add(-1)
	h.logger.Infow("client disconnected", "client_id", client.id, "clients", h.count.Load())
}
