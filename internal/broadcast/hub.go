package broadcast

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/KirkDiggler/rollcall/internal/models"
)

// Hub implements the Broadcaster interface over websocket connections.
// Writes are serialized under the hub mutex; clients that fail a write are
// dropped rather than retried.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	// last holds the most recently published payload so new clients get the
	// current state on connect
	last []byte
}

// NewHub creates a new websocket hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// Register adds a connection to the hub and sends it the current snapshot
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[conn] = true

	if h.last != nil {
		if err := conn.WriteMessage(websocket.TextMessage, h.last); err != nil {
			h.dropLocked(conn)
		}
	}
}

// Unregister removes a connection from the hub
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(conn)
}

// Publish pushes a snapshot to every connected viewer
func (h *Hub) Publish(snapshot *models.Snapshot) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("Failed to marshal snapshot for broadcast: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = payload

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.dropLocked(conn)
		}
	}
}

// ClientCount returns the number of connected viewers
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) dropLocked(conn *websocket.Conn) {
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
}
