package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tiltmaze/backend/internal/ws"
)

// HandleMazeWebSocket handles real-time session communication
func HandleMazeWebSocket() gin.HandlerFunc {
	return ws.HandleWebSocket
}
