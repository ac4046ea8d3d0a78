package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/tiltmaze/backend/internal/config"
)

// GameManager owns all live maze sessions and their persistence hooks.
type GameManager struct {
	sessions        map[string]*MazeSession // keyed by session ID
	tokenToSession  map[string]string       // session token -> session ID
	playerToSession map[int]string          // player ID -> session ID
	rdb             *redis.Client
	db              *sqlx.DB
	config          *config.Config
	mu              sync.RWMutex
}

// Manager is the global game manager instance.
var Manager *GameManager

// InitializeManager initializes the global manager and starts its
// background expiry checker.
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	Manager = NewGameManager(db, rdb, cfg)
	go Manager.StartExpiryChecker()
}

// NewGameManager creates a manager without starting background jobs.
func NewGameManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *GameManager {
	return &GameManager{
		sessions:        make(map[string]*MazeSession),
		tokenToSession:  make(map[string]string),
		playerToSession: make(map[int]string),
		rdb:             rdb,
		db:              db,
		config:          cfg,
	}
}

// GetConfig returns the application config the manager was built with.
func (gm *GameManager) GetConfig() *config.Config {
	return gm.config
}

// generateToken generates a secure random hex token.
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// generateSessionID generates a unique session ID.
func generateSessionID() string {
	return "run_" + generateToken(8)
}

// CreateSession creates a new maze session for a player. Any previous
// unfinished session for the same player is expired first.
func (gm *GameManager) CreateSession(playerID int, displayName string) (*MazeSession, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if oldID, exists := gm.playerToSession[playerID]; exists {
		if old, ok := gm.sessions[oldID]; ok {
			if old.Expire() {
				log.Printf("[MAZE] Expired previous session %s for player %d", oldID, playerID)
			}
			delete(gm.tokenToSession, old.Token)
			delete(gm.sessions, oldID)
		}
		delete(gm.playerToSession, playerID)
	}

	expiry := 30 * time.Minute
	if gm.config != nil && gm.config.SessionExpiryMinutes > 0 {
		expiry = time.Duration(gm.config.SessionExpiryMinutes) * time.Minute
	}

	s := NewMazeSession(generateSessionID(), generateToken(16), generateToken(16), playerID, displayName, expiry)
	gm.sessions[s.ID] = s
	gm.tokenToSession[s.Token] = s.ID
	gm.playerToSession[playerID] = s.ID

	log.Printf("[MAZE] Session %s created for player %d", s.ID, playerID)
	return s, nil
}

// GetSession returns a session by ID.
func (gm *GameManager) GetSession(id string) (*MazeSession, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	s, ok := gm.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	return s, nil
}

// GetSessionByToken returns a session by its public token.
func (gm *GameManager) GetSessionByToken(token string) (*MazeSession, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	id, ok := gm.tokenToSession[token]
	if !ok {
		return nil, errors.New("session not found")
	}
	s, ok := gm.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	return s, nil
}

// RemoveSession drops a session from the live maps.
func (gm *GameManager) RemoveSession(id string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	if s, ok := gm.sessions[id]; ok {
		delete(gm.tokenToSession, s.Token)
		delete(gm.playerToSession, s.PlayerID)
		delete(gm.sessions, id)
	}
}

// ActiveSessionCount returns the number of live sessions.
func (gm *GameManager) ActiveSessionCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.sessions)
}

// RecordRun persists a completed run and updates player aggregates. Called
// from MazeSession.Tick on the winning frame, with the session lock held;
// the run fields are final by then.
func (gm *GameManager) RecordRun(s *MazeSession) {
	if gm == nil || gm.db == nil || s.PlayerID == 0 {
		return
	}

	_, err := gm.db.Exec(
		`INSERT INTO maze_runs (player_id, session_token, duration_ms, ticks, completed_at) VALUES ($1,$2,$3,$4,NOW())`,
		s.PlayerID, s.Token, s.DurationMs, s.Ticks,
	)
	if err != nil {
		log.Printf("[DB] Failed to record run for session %s: %v", s.ID, err)
		return
	}

	_, err = gm.db.Exec(
		`UPDATE players SET total_runs = total_runs + 1,
		        best_time_ms = LEAST(COALESCE(best_time_ms, $2), $2),
		        last_active = NOW()
		 WHERE id = $1`,
		s.PlayerID, s.DurationMs,
	)
	if err != nil {
		log.Printf("[DB] Failed to update player %d aggregates: %v", s.PlayerID, err)
	}

	gm.PublishEvent(map[string]interface{}{
		"type":        "run_won",
		"session_id":  s.ID,
		"game_token":  s.Token,
		"player_id":   s.PlayerID,
		"duration_ms": s.DurationMs,
		"ticks":       s.Ticks,
	})
}

// SaveSessionToRedis snapshots session state to Redis with a 1h TTL. It
// takes the session lock to read a consistent snapshot, so it must not be
// called while already holding it; lock-held paths use saveSessionState
// with redisState directly.
func (gm *GameManager) SaveSessionToRedis(s *MazeSession) {
	if gm == nil || gm.rdb == nil {
		return
	}
	gm.saveSessionState(s.ID, s.Token, s.RedisState())
}

// saveSessionState writes a prepared session snapshot. ID and token are
// immutable, so they are passed alongside instead of re-read.
func (gm *GameManager) saveSessionState(id, token string, state map[string]interface{}) {
	if gm == nil || gm.rdb == nil {
		return
	}

	data, err := json.Marshal(state)
	if err != nil {
		log.Printf("[REDIS] Failed to marshal session %s: %v", id, err)
		return
	}

	key := "session:" + token + ":state"
	if err := gm.rdb.SetEx(context.Background(), key, data, time.Hour).Err(); err != nil {
		log.Printf("[REDIS] Failed to save session %s: %v", id, err)
	}
}

// PublishEvent publishes a payload on the game_events channel.
func (gm *GameManager) PublishEvent(payload map[string]interface{}) {
	if gm == nil || gm.rdb == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[REDIS] Failed to marshal event: %v", err)
		return
	}
	if err := gm.rdb.Publish(context.Background(), "game_events", data).Err(); err != nil {
		log.Printf("[REDIS] Failed to publish event: %v", err)
	}
}

// StartExpiryChecker periodically sweeps sessions past their absolute
// expiry time.
func (gm *GameManager) StartExpiryChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		gm.checkExpiredSessions()
	}
}

func (gm *GameManager) checkExpiredSessions() {
	now := time.Now()

	gm.mu.RLock()
	var expired []*MazeSession
	for _, s := range gm.sessions {
		if now.After(s.ExpiresAt) {
			expired = append(expired, s)
		}
	}
	gm.mu.RUnlock()

	for _, s := range expired {
		if s.Expire() {
			log.Printf("[MAZE] Session %s expired (player %d)", s.ID, s.PlayerID)
			gm.PublishEvent(map[string]interface{}{
				"type":       "session_expired",
				"session_id": s.ID,
				"game_token": s.Token,
				"message":    "Session expired",
			})
		}
		gm.SaveSessionToRedis(s)
		gm.RemoveSession(s.ID)
	}
}
