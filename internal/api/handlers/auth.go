package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"github.com/tiltmaze/backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a player account with a 4-digit PIN and issues a JWT
// POST /api/v1/auth/register
func Register(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Phone       string `json:"phone"`
			PIN         string `json:"pin"`
			DisplayName string `json:"display_name"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone and pin required"})
			return
		}

		phone := strings.TrimSpace(req.Phone)
		pin := strings.TrimSpace(req.PIN)
		displayName := strings.TrimSpace(req.DisplayName)

		if phone == "" || pin == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone and pin required"})
			return
		}
		if len(pin) != 4 || !isDigits(pin) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "PIN must be exactly 4 digits"})
			return
		}

		var exists int
		if err := db.Get(&exists, `SELECT COUNT(*) FROM players WHERE phone_number=$1`, phone); err != nil {
			log.Printf("Register DB error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if exists > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "player already registered"})
			return
		}

		pinHash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Register bcrypt error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		var playerID int
		err = db.Get(&playerID, `
			INSERT INTO players (phone_number, display_name, pin_hash, created_at, is_active)
			VALUES ($1, $2, $3, NOW(), true)
			RETURNING id
		`, phone, displayName, string(pinHash))
		if err != nil {
			log.Printf("Register insert error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		signed, err := issueJWT(cfg, playerID, phone)
		if err != nil {
			log.Printf("Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"token":  signed,
			"player": gin.H{"id": playerID, "phone": phone, "display_name": displayName},
		})
	}
}

// Login verifies phone + PIN and issues a JWT
// POST /api/v1/auth/login
func Login(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Phone string `json:"phone"`
			PIN   string `json:"pin"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone and pin required"})
			return
		}

		phone := strings.TrimSpace(req.Phone)
		pin := strings.TrimSpace(req.PIN)
		if phone == "" || pin == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone and pin required"})
			return
		}

		var player struct {
			ID          int            `db:"id"`
			DisplayName string         `db:"display_name"`
			PINHash     sql.NullString `db:"pin_hash"`
			IsActive    bool           `db:"is_active"`
		}
		err := db.Get(&player, `SELECT id, display_name, pin_hash, is_active FROM players WHERE phone_number=$1`, phone)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid phone or PIN"})
			return
		}
		if err != nil {
			log.Printf("Login DB error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !player.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			return
		}
		if !player.PINHash.Valid || bcrypt.CompareHashAndPassword([]byte(player.PINHash.String), []byte(pin)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid phone or PIN"})
			return
		}

		if _, err := db.Exec(`UPDATE players SET last_active = NOW() WHERE id = $1`, player.ID); err != nil {
			log.Printf("Login last_active update error: %v", err)
		}

		signed, err := issueJWT(cfg, player.ID, phone)
		if err != nil {
			log.Printf("Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":  signed,
			"player": gin.H{"id": player.ID, "phone": phone, "display_name": player.DisplayName},
		})
	}
}

// issueJWT signs a 24h player token
func issueJWT(cfg *config.Config, playerID int, phone string) (string, error) {
	exp := time.Now().Add(24 * time.Hour)
	claims := jwt.MapClaims{"player_id": playerID, "phone": phone, "exp": exp.Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
