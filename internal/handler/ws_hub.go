package handler

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event types sent over WebSocket besides the batch events of the service.
const (
	EventConnected = "connected"
	EventResult    = "result"
)

// WSEvent is the envelope for batch events pushed to subscribers.
type WSEvent struct {
	Type    string `json:"type"`
	BatchID string `json:"batch_id"`
	Data    any    `json:"data"`
}

// WSReply answers one resolve request. Exactly one of Result and Error is set.
type WSReply struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Status int    `json:"status,omitempty"`
}

// ClientMessage is the envelope for messages sent from the client. A frame
// without an action is a scenario document to resolve.
type ClientMessage struct {
	Action   string          `json:"action"` // "resolve", "subscribe" or "unsubscribe"
	ID       string          `json:"id,omitempty"`
	BatchID  string          `json:"batch_id,omitempty"`
	Scenario json.RawMessage `json:"scenario,omitempty"`
}

// WSConn wraps a WebSocket connection with its client and subscriptions.
type WSConn struct {
	conn     *websocket.Conn
	clientID string
	send     chan []byte
}

// Hub manages WebSocket connections and batch subscriptions.
type Hub struct {
	mu          sync.RWMutex
	connections map[*WSConn]bool
	batches     map[string]map[*WSConn]bool // batchID -> set of connections
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*WSConn]bool),
		batches:     make(map[string]map[*WSConn]bool),
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

// Unregister removes a connection from the hub and all its subscriptions.
func (h *Hub) Unregister(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, c)
	for batchID, conns := range h.batches {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.batches, batchID)
		}
	}
	close(c.send)
}

// Subscribe adds a connection to a batch channel.
func (h *Hub) Subscribe(c *WSConn, batchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.batches[batchID] == nil {
		h.batches[batchID] = make(map[*WSConn]bool)
	}
	h.batches[batchID][c] = true
}

// Unsubscribe removes a connection from a batch channel.
func (h *Hub) Unsubscribe(c *WSConn, batchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.batches[batchID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.batches, batchID)
		}
	}
}

// BroadcastToBatch sends an event to all connections subscribed to a batch.
func (h *Hub) BroadcastToBatch(batchID string, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("batchId", batchID).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.batches[batchID] {
		select {
		case c.send <- data:
		default:
			log.Warn().Str("clientId", c.clientID).Str("batchId", batchID).Msg("Dropping WebSocket message, buffer full")
		}
	}
}

// ConnectionCount returns the total number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// BatchSubscriberCount returns the number of connections subscribed to a batch.
func (h *Hub) BatchSubscriberCount(batchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.batches[batchID])
}
