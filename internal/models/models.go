package models

import (
	"database/sql"
	"time"
)

// Player represents a user in the system
type Player struct {
	ID          int            `db:"id" json:"id"`
	PhoneNumber string         `db:"phone_number" json:"phone_number"`
	DisplayName string         `db:"display_name" json:"display_name"`
	PINHash     sql.NullString `db:"pin_hash" json:"-"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	TotalRuns   int            `db:"total_runs" json:"total_runs"`
	BestTimeMs  sql.NullInt64  `db:"best_time_ms" json:"best_time_ms,omitempty"`
	IsActive    bool           `db:"is_active" json:"is_active"`
	LastActive  sql.NullTime   `db:"last_active" json:"last_active,omitempty"`
}

// MazeRun represents one completed maze run
type MazeRun struct {
	ID           int       `db:"id" json:"id"`
	PlayerID     int       `db:"player_id" json:"player_id"`
	SessionToken string    `db:"session_token" json:"session_token"`
	DurationMs   int64     `db:"duration_ms" json:"duration_ms"`
	Ticks        int       `db:"ticks" json:"ticks"`
	CompletedAt  time.Time `db:"completed_at" json:"completed_at"`
}
