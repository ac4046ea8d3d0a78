package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/tiltmaze/backend/internal/config"
)

// StartSessionReaper starts a background worker that expires abandoned
// sessions using Redis sorted sets. The WS layer schedules a reap deadline
// for a session on every client message; when a deadline comes due and the
// session is still inactive, the reaper expires it and publishes a
// session_expired event for the WS subscriber to broadcast.
func StartSessionReaper(ctx context.Context, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	if rdb == nil || cfg == nil {
		log.Println("[REAPER] Redis or config missing; session reaper not started")
		return
	}

	log.Println("[REAPER] Session reaper started")
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.ReaperPollSeconds) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[REAPER] Session reaper stopping")
				return
			case <-ticker.C:
				now := time.Now().Unix()

				members, err := rdb.ZRangeByScore(ctx, "session_reap", &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now)}).Result()
				if err != nil {
					log.Printf("[REAPER] Failed to fetch reap deadlines: %v", err)
					continue
				}

				for _, m := range members {
					// Remove first so a concurrent reaper can't double-fire
					if removed, _ := rdb.ZRem(ctx, "session_reap", m).Result(); removed == 0 {
						continue
					}

					last, _ := rdb.Get(ctx, "last_active:"+m).Result()
					lastTs, _ := strconv.ParseInt(last, 10, 64)
					if time.Now().Unix()-lastTs < int64(cfg.SessionIdleSeconds) {
						// Client was active again after this deadline was set
						continue
					}

					token := parseReapMember(m)
					if token == "" {
						continue
					}

					s, err := Manager.GetSessionByToken(token)
					if err != nil {
						continue
					}
					if !s.Expire() {
						log.Printf("[REAPER] Skipping session %s (status=%s)", s.ID, s.Status)
						continue
					}

					log.Printf("[REAPER] Expired idle session %s (player %d)", s.ID, s.PlayerID)
					Manager.SaveSessionToRedis(s)
					Manager.RemoveSession(s.ID)

					payload := map[string]interface{}{
						"type":       "session_expired",
						"game_token": token,
						"session_id": s.ID,
						"message":    "Session expired due to inactivity",
					}
					b, _ := json.Marshal(payload)
					if n, err := rdb.Publish(ctx, "game_events", b).Result(); err != nil {
						log.Printf("[REAPER] publish failed: session=%s err=%v", s.ID, err)
					} else {
						log.Printf("[REAPER] published session_expired: session=%s subscribers=%d", s.ID, n)
					}
				}
			}
		}
	}()
}

// parseReapMember expects member format s:<sessionToken>
func parseReapMember(m string) string {
	parts := strings.Split(m, ":")
	if len(parts) >= 2 && parts[0] == "s" {
		return parts[1]
	}
	return ""
}
