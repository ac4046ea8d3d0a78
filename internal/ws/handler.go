package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Client represents a connected WebSocket client. Maze runs are solo, so a
// session has at most one live client; a reconnect replaces the old one.
type Client struct {
	conn         *websocket.Conn
	playerID     int
	sessionID    string
	sessionToken string
	send         chan []byte
	done         chan struct{}
}

// Hub maintains the set of active clients keyed by session
type Hub struct {
	clients    map[string]*Client // sessionID -> Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SendToSession sends a message to the client attached to a session
func (h *Hub) SendToSession(sessionID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, exists := h.clients[sessionID]; exists {
		select {
		case client.send <- data:
			// sent
		default:
			log.Printf("[WS] send buffer full for session %s, dropping message", sessionID)
		}
	}
}

// Message types
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			// Connection is being replaced or cleaned up. Best-effort close
			// frame; ignore errors (conn may already be closed).
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error for session %s: %v", c.sessionID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("WebSocket ping error for session %s: %v", c.sessionID, err)
				return
			}
		}
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
	select {
	case c.send <- data:
	default:
	}
}

// touchSessionActivity records last_active and reschedules the reap deadline
// for a session. Called on every inbound client message so the reaper only
// fires on genuinely idle sessions.
func touchSessionActivity(sessionToken string) {
	if rdbClient == nil || wsConfig == nil {
		return
	}
	ctx := context.Background()
	now := time.Now().Unix()
	member := "s:" + sessionToken

	rdbClient.Set(ctx, "last_active:"+member, fmt.Sprintf("%d", now), 0)
	rdbClient.ZAdd(ctx, "session_reap", redis.Z{Score: float64(now + int64(wsConfig.SessionIdleSeconds)), Member: member})
}
