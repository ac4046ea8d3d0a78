package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Game Settings
	SessionExpiryMinutes int
	SessionIdleSeconds   int
	ReaperPollSeconds    int
	TickIntervalMs       int
	LeaderboardLimit     int

	// Security
	JWTSecret         string
	SessionTimeoutMin int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/tiltmaze?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Game Settings
		SessionExpiryMinutes: getEnvInt("SESSION_EXPIRY_MINUTES", 30),
		SessionIdleSeconds:   getEnvInt("SESSION_IDLE_SECONDS", 120),
		ReaperPollSeconds:    getEnvInt("REAPER_POLL_SECONDS", 15),
		TickIntervalMs:       getEnvInt("TICK_INTERVAL_MS", 16),
		LeaderboardLimit:     getEnvInt("LEADERBOARD_LIMIT", 20),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTimeoutMin: getEnvInt("SESSION_TIMEOUT_MINUTES", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
