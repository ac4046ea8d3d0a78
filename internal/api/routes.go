package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/tiltmaze/backend/internal/api/handlers"
	"github.com/tiltmaze/backend/internal/config"
	"github.com/tiltmaze/backend/internal/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			// Aggressive no-cache for development
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] Aggressive no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// Auth endpoints
		auth := v1.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db, cfg))
			auth.POST("/login", handlers.Login(db, cfg))
		}

		// Maze endpoints
		maze := v1.Group("/maze")
		{
			maze.GET("/layout", handlers.GetMazeLayout)
			maze.GET("/leaderboard", handlers.GetLeaderboard(db, cfg))
			maze.POST("/session", handlers.CreateMazeSession(db, cfg))
			maze.GET("/session/:token", handlers.GetMazeSession(cfg))
			maze.GET("/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleMazeWebSocket())
		}

		// Player endpoints
		player := v1.Group("/player")
		{
			player.GET("/stats", handlers.GetPlayerStats(db, cfg))
		}
	}
}
