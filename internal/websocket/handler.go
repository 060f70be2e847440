package websocket

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler upgrades HTTP requests to websocket connections and registers
// them with the hub.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *zap.SugaredLogger
}

// NewHandler creates a websocket handler. Cross-origin upgrades are only
// accepted from the allowed origins; requests without an Origin header
// (non-browser clients) are always accepted.
func NewHandler(hub *Hub, allowedOrigins []string, logger *zap.SugaredLogger) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return allowed["*"] || allowed[origin]
			},
		},
		logger: logger,
	}
}

// ServeWS handles a websocket upgrade request.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		id:   uuid.New().String(),
		conn: conn,
		hub:  h.hub,
		send: make(chan []byte, 256),
	}

	// Queue the welcome before the hub knows about the client so the
	// send channel cannot have been closed yet.
	client.send <- []byte(fmt.Sprintf(`{"type":"connected","client_id":"%s"}`, client.id))

	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// Stats reports the number of connected clients.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"clients":%d}`, h.hub.ClientCount())
}
