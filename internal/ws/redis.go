package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/tiltmaze/backend/internal/config"
	"github.com/tiltmaze/backend/internal/game"
)

var rdbClient *redis.Client
var wsConfig *config.Config

func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
}

// StartGameEventSubscriber subscribes to the game_events channel and relays
// incoming events to the attached clients. Events arrive from the manager
// (run_won) and from the background workers (session_expired), so they reach
// the client even when the originating code path has no hub reference.
func StartGameEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; game event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, "game_events")
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] game_events subscriber started")
		for msg := range ch {
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				log.Printf("[WS] invalid event payload: %v", err)
				continue
			}

			typeStr, _ := payload["type"].(string)
			sessionID, _ := payload["session_id"].(string)
			if sessionID == "" {
				if token, _ := payload["game_token"].(string); token != "" {
					if s, err := game.Manager.GetSessionByToken(token); err == nil {
						sessionID = s.ID
					}
				}
			}

			log.Printf("[WS] event received: type=%s session_id=%s", typeStr, sessionID)

			switch typeStr {
			case "run_won":
				GameHub.SendToSession(sessionID, map[string]interface{}{
					"type":        "leaderboard_update",
					"session_id":  sessionID,
					"player_id":   payload["player_id"],
					"duration_ms": payload["duration_ms"],
					"ticks":       payload["ticks"],
				})

			case "session_expired":
				GameHub.SendToSession(sessionID, map[string]interface{}{
					"type":       "session_expired",
					"session_id": sessionID,
					"message":    payload["message"],
				})
				// Drop the attached client, if any; the session is gone
				GameHub.mu.RLock()
				client, exists := GameHub.clients[sessionID]
				GameHub.mu.RUnlock()
				if exists {
					client.conn.Close()
				}

			default:
				log.Printf("[WS] unknown event type: %s", typeStr)
			}
		}
	}()
}
