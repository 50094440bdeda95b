package dev

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/approute/pkg/manifest"
)

// MessageType represents the type of hub message.
type MessageType string

const (
	MessageManifest MessageType = "manifest"
	MessageError    MessageType = "error"
)

// Message is sent to clients via WebSocket.
type Message struct {
	Type     MessageType        `json:"type"`
	Hash     string             `json:"hash,omitempty"`
	Manifest *manifest.Manifest `json:"manifest,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// Hub manages WebSocket connections of tools following the route tree.
// The last message broadcast is replayed to every new client.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	writeMu  sync.Mutex
	last     []byte
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub creates a new hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default().With("component", "hub")
	}
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade and connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.writeMu.Lock()
	h.mu.Lock()
	h.clients[conn] = true
	last := h.last
	h.mu.Unlock()
	if last != nil {
		if err := conn.WriteMessage(websocket.TextMessage, last); err != nil {
			h.logger.Debug("initial write failed", "error", err)
		}
	}
	h.writeMu.Unlock()

	h.logger.Debug("client connected", "remote", req.RemoteAddr)

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
	h.logger.Debug("client disconnected", "remote", req.RemoteAddr)
}

// NotifyManifest sends m to all clients.
func (h *Hub) NotifyManifest(m *manifest.Manifest) {
	h.Broadcast(Message{Type: MessageManifest, Hash: m.HashString(), Manifest: m})
}

// NotifyError sends a scan error to all clients.
func (h *Hub) NotifyError(err error) {
	h.Broadcast(Message{Type: MessageError, Error: err.Error()})
}

// Broadcast sends msg to all connected clients and remembers it for new
// ones. Clients that fail a write are dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encoding hub message", "type", msg.Type, "error", err)
		return
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	h.mu.Lock()
	h.last = data
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(client)
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
