package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/tiltmaze/backend/internal/config"
)

// authPlayer validates the Authorization bearer token and returns the
// player ID and phone from its claims.
func authPlayer(c *gin.Context, cfg *config.Config) (int, string, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return 0, "", errors.New("missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errors.New("invalid claims")
	}
	playerID, ok := claims["player_id"].(float64)
	if !ok || playerID <= 0 {
		return 0, "", errors.New("invalid player_id claim")
	}
	phone, _ := claims["phone"].(string)
	return int(playerID), phone, nil
}
