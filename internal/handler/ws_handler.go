package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/polite-betrayal/adjudicator/internal/auth"
	"github.com/freeeve/polite-betrayal/adjudicator/internal/scenario"
	"github.com/freeeve/polite-betrayal/adjudicator/internal/service"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 64 << 10
	sendBufSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS handled by middleware; tighten in production
	},
}

// WSHandler handles WebSocket connections.
type WSHandler struct {
	hub    *Hub
	svc    *service.AdjudicationService
	jwtMgr *auth.JWTManager // nil when authentication is disabled
}

// NewWSHandler creates a WSHandler.
func NewWSHandler(hub *Hub, svc *service.AdjudicationService, jwtMgr *auth.JWTManager) *WSHandler {
	return &WSHandler{hub: hub, svc: svc, jwtMgr: jwtMgr}
}

// ServeWS handles GET /api/v1/ws and upgrades the connection to WebSocket.
// Auth via ?token= query parameter (WebSocket can't send headers).
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	clientID := auth.AnonymousClient
	if h.jwtMgr != nil {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, `{"error":"missing token parameter"}`, http.StatusUnauthorized)
			return
		}
		claims, err := h.jwtMgr.ValidateToken(tokenStr)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}
		clientID = claims.ClientID
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &WSConn{
		conn:     conn,
		clientID: clientID,
		send:     make(chan []byte, sendBufSize),
	}
	h.hub.Register(client)

	// Send a welcome message so the client can confirm the connection is live.
	welcome, _ := json.Marshal(WSEvent{Type: EventConnected, Data: map[string]any{}})
	client.send <- welcome

	go h.writePump(client)
	go h.readPump(client)

	log.Info().Str("clientId", clientID).Int("total", h.hub.ConnectionCount()).Msg("WebSocket client connected")
}

// readPump reads messages from the WebSocket connection.
func (h *WSHandler) readPump(c *WSConn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		h.hub.Unregister(c)
		c.conn.Close()
		log.Info().Str("clientId", c.clientID).Msg("WebSocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("clientId", c.clientID).Msg("WebSocket unexpected close")
			}
			break
		}
		h.handleMessage(ctx, c, message)
	}
}

// handleMessage acts on one client frame. Resolve requests are answered
// in order on the same connection.
func (h *WSHandler) handleMessage(ctx context.Context, c *WSConn, message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		h.reply(c, WSReply{Type: EventResult, Error: "invalid message: " + err.Error(), Status: http.StatusBadRequest})
		return
	}

	switch msg.Action {
	case "subscribe":
		if msg.BatchID != "" {
			h.hub.Subscribe(c, msg.BatchID)
		}
	case "unsubscribe":
		if msg.BatchID != "" {
			h.hub.Unsubscribe(c, msg.BatchID)
		}
	case "resolve":
		h.resolve(ctx, c, msg.ID, msg.Scenario)
	case "":
		h.resolve(ctx, c, msg.ID, message)
	default:
		h.reply(c, WSReply{Type: EventResult, ID: msg.ID, Error: "unknown action " + msg.Action, Status: http.StatusBadRequest})
	}
}

func (h *WSHandler) resolve(ctx context.Context, c *WSConn, id string, raw []byte) {
	doc, err := scenario.Decode(raw, scenario.JSON)
	if err == nil {
		var result *service.Result
		if result, err = h.svc.Resolve(ctx, doc); err == nil {
			h.reply(c, WSReply{Type: EventResult, ID: id, Result: result})
			return
		}
	}
	reply := WSReply{Type: EventResult, ID: id, Status: errorStatus(err), Error: err.Error()}
	if reply.Status == http.StatusInternalServerError {
		log.Error().Err(err).Str("clientId", c.clientID).Msg("WebSocket adjudication failed")
		reply.Error = "internal error"
	}
	h.reply(c, reply)
}

func (h *WSHandler) reply(c *WSConn, r WSReply) {
	data, err := json.Marshal(r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal WebSocket reply")
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn().Str("clientId", c.clientID).Msg("Dropping WebSocket reply, buffer full")
	}
}

// writePump writes messages to the WebSocket connection.
func (h *WSHandler) writePump(c *WSConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
