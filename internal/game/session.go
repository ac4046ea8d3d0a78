package game

import (
	"errors"
	"log"
	"sync"
	"time"
)

// MazeSession binds one player to one Simulation instance. The session is
// the single logical owner of its simulation: every call into the sim goes
// through the session mutex, so the core itself stays lock-free and
// single-threaded as designed.
type MazeSession struct {
	ID          string        `json:"id"`
	Token       string        `json:"token"`
	PlayerID    int           `json:"player_id"`
	DisplayName string        `json:"display_name"`
	PlayerToken string        `json:"-"`
	Status      SessionStatus `json:"status"`
	Connected   bool          `json:"connected"`

	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	LastActivity time.Time  `json:"last_activity"`
	RunStartedAt *time.Time `json:"run_started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	Ticks      int   `json:"ticks"`
	DurationMs int64 `json:"duration_ms"`

	sim  *Simulation
	tilt *TiltReading
	mu   sync.Mutex
}

// NewMazeSession creates a session with a fresh simulation.
func NewMazeSession(id, token, playerToken string, playerID int, displayName string, expiry time.Duration) *MazeSession {
	now := time.Now()
	return &MazeSession{
		ID:           id,
		Token:        token,
		PlayerID:     playerID,
		DisplayName:  displayName,
		PlayerToken:  playerToken,
		Status:       StatusWaiting,
		CreatedAt:    now,
		ExpiresAt:    now.Add(expiry),
		LastActivity: now,
		sim:          NewSimulation(),
	}
}

// SetConnected marks the client socket attached or detached.
func (s *MazeSession) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Connected = connected
	if connected && s.Status == StatusWaiting {
		s.Status = StatusActive
	}
	s.LastActivity = time.Now()
}

// SetTilt stores the latest gravity/friction reading from the client. The
// tick loop picks it up on the next frame.
func (s *MazeSession) SetTilt(t TiltReading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reading := t
	s.tilt = &reading
	s.LastActivity = time.Now()
}

// StartRun begins ticking the simulation. No-op unless the sim is Idle.
func (s *MazeSession) StartRun() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status != StatusActive {
		return errors.New("session is not active")
	}
	if s.sim.Status() != SimIdle {
		return nil
	}
	s.sim.Start()
	now := time.Now()
	s.RunStartedAt = &now
	s.Ticks = 0
	s.LastActivity = now
	log.Printf("[MAZE] Session %s run started by player %d", s.ID, s.PlayerID)
	return nil
}

// ResetRun puts the balls back on their corner cells and clears the latest
// tilt reading. Callable from any state.
func (s *MazeSession) ResetRun() [NumBalls]Ball {
	s.mu.Lock()
	defer s.mu.Unlock()
	balls := s.sim.Reset()
	s.tilt = nil
	s.RunStartedAt = nil
	s.Ticks = 0
	s.LastActivity = time.Now()
	return balls
}

// Tick advances the simulation one frame with the most recent tilt reading.
// The returned won flag is true exactly once, on the tick that completes
// the run; the session then records the result via the manager.
func (s *MazeSession) Tick(timestamp float64) (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasRunning := s.sim.Status() == SimRunning
	frame := s.sim.Tick(timestamp, s.tilt)
	if wasRunning && s.sim.Status() == SimRunning {
		s.Ticks++
	}

	if !wasRunning || frame.Status != SimWon {
		return frame, false
	}

	now := time.Now()
	s.CompletedAt = &now
	s.Status = StatusCompleted
	if s.RunStartedAt != nil {
		s.DurationMs = now.Sub(*s.RunStartedAt).Milliseconds()
	}
	log.Printf("[MAZE] Session %s won in %dms (%d ticks)", s.ID, s.DurationMs, s.Ticks)

	if Manager != nil {
		Manager.RecordRun(s)
		Manager.saveSessionState(s.ID, s.Token, s.redisState())
	}
	return frame, true
}

// Walls returns the maze wall list for the client renderer. The wall list
// is immutable, so no locking is needed.
func (s *MazeSession) Walls() []Wall {
	return s.sim.Walls()
}

// SimStatus reports the inner simulation state.
func (s *MazeSession) SimStatus() SimStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.Status()
}

// Expire marks an abandoned session expired. Returns false if the session
// already completed.
func (s *MazeSession) Expire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status == StatusCompleted || s.Status == StatusExpired {
		return false
	}
	s.Status = StatusExpired
	return true
}

// Snapshot returns the session state for serialization to the client.
func (s *MazeSession) Snapshot() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]interface{}{
		"session_id":   s.ID,
		"token":        s.Token,
		"status":       s.Status,
		"sim_status":   s.sim.Status(),
		"balls":        s.sim.Balls(),
		"ticks":        s.Ticks,
		"duration_ms":  s.DurationMs,
		"display_name": s.DisplayName,
		"goal_radius":  GoalRadius,
		"maze_size":    MazeSize,
	}
}

// RedisState returns the fields the manager snapshots to Redis.
func (s *MazeSession) RedisState() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redisState()
}

// redisState builds the snapshot payload. Caller holds s.mu.
func (s *MazeSession) redisState() map[string]interface{} {
	return map[string]interface{}{
		"id":           s.ID,
		"token":        s.Token,
		"player_id":    s.PlayerID,
		"display_name": s.DisplayName,
		"status":       s.Status,
		"balls":        s.sim.Balls(),
		"ticks":        s.Ticks,
		"duration_ms":  s.DurationMs,
		"created_at":   s.CreatedAt,
		"completed_at": s.CompletedAt,
		"game_type":    "maze",
	}
}

// IdleFor reports how long the session has gone without client activity.
func (s *MazeSession) IdleFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.LastActivity)
}
