package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/tiltmaze/backend/internal/config"
	"github.com/tiltmaze/backend/internal/game"
	"github.com/tiltmaze/backend/internal/models"
)

// CreateMazeSession starts a new maze session for the authenticated player
// POST /api/v1/maze/session
func CreateMazeSession(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, _, err := authPlayer(c, cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		var player struct {
			DisplayName string `db:"display_name"`
			IsActive    bool   `db:"is_active"`
		}
		if err := db.Get(&player, `SELECT display_name, is_active FROM players WHERE id=$1`, playerID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		if !player.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			return
		}

		s, err := game.Manager.CreateSession(playerID, player.DisplayName)
		if err != nil {
			log.Printf("CreateMazeSession error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"session_id":   s.ID,
			"token":        s.Token,
			"player_token": s.PlayerToken,
			"status":       s.Status,
			"expires_at":   s.ExpiresAt,
			"ws_path":      "/api/v1/maze/ws?token=" + s.Token + "&pt=" + s.PlayerToken,
		})
	}
}

// GetMazeSession returns the public state of a session by its token
// GET /api/v1/maze/session/:token
func GetMazeSession(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		s, err := game.Manager.GetSessionByToken(token)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, s.Snapshot())
	}
}

// GetMazeLayout returns the wall list and board geometry for the renderer.
// The layout is static, so the client can cache it across sessions.
// GET /api/v1/maze/layout
func GetMazeLayout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"maze_size":   game.MazeSize,
		"cell_pitch":  game.CellPitch,
		"wall_width":  game.WallWidth,
		"ball_size":   game.BallSize,
		"goal_center": game.MazeCenter(),
		"goal_radius": game.GoalRadius,
		"walls":       game.BuildWalls(),
		"starts":      game.StartPositions(),
	})
}

// GetLeaderboard returns the fastest completed runs
// GET /api/v1/maze/leaderboard
func GetLeaderboard(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 20
		if cfg != nil && cfg.LeaderboardLimit > 0 {
			limit = cfg.LeaderboardLimit
		}

		var rows []struct {
			PlayerID    int    `db:"player_id" json:"player_id"`
			DisplayName string `db:"display_name" json:"display_name"`
			DurationMs  int64  `db:"duration_ms" json:"duration_ms"`
			Ticks       int    `db:"ticks" json:"ticks"`
			CompletedAt string `db:"completed_at" json:"completed_at"`
		}
		err := db.Select(&rows, `
			SELECT r.player_id, p.display_name, r.duration_ms, r.ticks, r.completed_at
			FROM maze_runs r
			JOIN players p ON p.id = r.player_id
			ORDER BY r.duration_ms ASC
			LIMIT $1
		`, limit)
		if err != nil {
			log.Printf("GetLeaderboard DB error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"leaderboard": rows})
	}
}

// GetPlayerStats returns a player's aggregates and recent runs
// GET /api/v1/player/stats
func GetPlayerStats(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, _, err := authPlayer(c, cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		var player models.Player
		if err := db.Get(&player, `SELECT * FROM players WHERE id=$1`, playerID); err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
				return
			}
			log.Printf("GetPlayerStats DB error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		var runs []models.MazeRun
		if err := db.Select(&runs, `
			SELECT * FROM maze_runs WHERE player_id=$1 ORDER BY completed_at DESC LIMIT 10
		`, playerID); err != nil {
			log.Printf("GetPlayerStats runs DB error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"player":      player,
			"recent_runs": runs,
		})
	}
}
