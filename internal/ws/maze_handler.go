package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tiltmaze/backend/internal/game"
)

// TiltData is one device tilt sample from the client.
type TiltData struct {
	GravityX  float64 `json:"gravity_x"`
	GravityY  float64 `json:"gravity_y"`
	FrictionX float64 `json:"friction_x"`
	FrictionY float64 `json:"friction_y"`
}

// GameHub is the single hub for all maze sessions.
var GameHub *Hub

func init() {
	GameHub = NewHub()
	go runGameHub(GameHub)
}

// HandleWebSocket handles WebSocket connections for maze sessions.
func HandleWebSocket(c *gin.Context) {
	sessionToken := c.Query("token")
	playerToken := c.Query("pt")

	if sessionToken == "" || playerToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and pt required"})
		return
	}

	s, err := game.Manager.GetSessionByToken(sessionToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if s.PlayerToken != playerToken {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid player token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:         conn,
		playerID:     s.PlayerID,
		sessionID:    s.ID,
		sessionToken: sessionToken,
		send:         make(chan []byte, 256),
		done:         make(chan struct{}),
	}

	GameHub.register <- client

	go client.writePump()
	go client.readPump()
}

// runGameHub owns the client maps. One client per session: a reconnect for
// the same session replaces the previous connection.
func runGameHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()

			if oldClient, exists := h.clients[client.sessionID]; exists {
				log.Printf("[WS] Session %s reconnecting - closing old connection", client.sessionID)
				if err := oldClient.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"), time.Now().Add(5*time.Second)); err != nil {
					log.Printf("Error writing close control to old client for session %s: %v", oldClient.sessionID, err)
				}
				// done releases the old writePump and tickLoop immediately;
				// the send channel is left open because the tick loop may
				// still be selecting on it, and abandoned channels just get
				// collected.
				close(oldClient.done)
				oldClient.conn.Close()
				delete(h.clients, client.sessionID)
			}

			h.clients[client.sessionID] = client
			h.mu.Unlock()

			log.Printf("[WS] Player %d connected to session %s", client.playerID, client.sessionID)

			s, err := game.Manager.GetSessionByToken(client.sessionToken)
			if err != nil {
				log.Printf("[WS] Session not found for token %s: %v", client.sessionToken, err)
				continue
			}

			s.SetConnected(true)
			touchSessionActivity(client.sessionToken)

			state := s.Snapshot()
			state["type"] = "session_state"
			state["maze_walls"] = s.Walls()
			h.SendToSession(client.sessionID, state)

			go client.tickLoop(s)

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.sessionID]; ok && cur == client {
				delete(h.clients, client.sessionID)

				log.Printf("[WS] Player %d disconnected from session %s", client.playerID, client.sessionID)

				if s, err := game.Manager.GetSessionByToken(client.sessionToken); err == nil {
					s.SetConnected(false)
				}

				close(client.done)
			}
			h.mu.Unlock()
		}
	}
}

// tickLoop drives the session simulation while this client is attached. The
// session mutex serializes it against message handling, so the sim itself
// never sees concurrent calls. Frames are only pushed while a run is live.
func (c *Client) tickLoop(s *game.MazeSession) {
	interval := 16 * time.Millisecond
	if wsConfig != nil && wsConfig.TickIntervalMs > 0 {
		interval = time.Duration(wsConfig.TickIntervalMs) * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if s.SimStatus() != game.SimRunning {
				continue
			}

			frame, won := s.Tick(float64(time.Now().UnixMilli()))

			data, err := json.Marshal(map[string]interface{}{
				"type":   "frame",
				"balls":  frame.Balls,
				"status": frame.Status,
			})
			if err != nil {
				continue
			}
			select {
			case c.send <- data:
			default:
				// Frames are disposable; the next one supersedes this one
			}

			if won {
				GameHub.SendToSession(c.sessionID, map[string]interface{}{
					"type":        "run_complete",
					"session_id":  s.ID,
					"duration_ms": s.DurationMs,
					"ticks":       s.Ticks,
					"message":     "Maze solved!",
				})
			}
		}
	}
}

// readPump reads messages from the maze client.
func (c *Client) readPump() {
	defer func() {
		GameHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error (unexpected) for session %s: %v", c.sessionID, err)
			} else {
				log.Printf("WebSocket read error for session %s: %v", c.sessionID, err)
			}
			break
		}

		touchSessionActivity(c.sessionToken)

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage processes incoming maze session messages.
func (c *Client) handleMessage(msg WSMessage) {
	s, err := game.Manager.GetSessionByToken(c.sessionToken)
	if err != nil {
		c.sendError("Session not found")
		return
	}

	switch msg.Type {
	case "tilt":
		var data TiltData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid tilt data")
			return
		}
		s.SetTilt(game.TiltReading{
			GravityX:  data.GravityX,
			GravityY:  data.GravityY,
			FrictionX: data.FrictionX,
			FrictionY: data.FrictionY,
		})

	case "start":
		if err := s.StartRun(); err != nil {
			c.sendError(err.Error())
			return
		}
		GameHub.SendToSession(c.sessionID, map[string]interface{}{
			"type":    "run_started",
			"message": "Tilt to roll the balls into the goal",
		})

	case "reset":
		balls := s.ResetRun()
		GameHub.SendToSession(c.sessionID, map[string]interface{}{
			"type":   "run_reset",
			"balls":  balls,
			"status": game.SimIdle,
		})

	case "get_state":
		state := s.Snapshot()
		state["type"] = "session_state"
		state["maze_walls"] = s.Walls()
		d, _ := json.Marshal(state)
		select {
		case c.send <- d:
		default:
		}

	default:
		c.sendError("Unknown message type")
	}
}
