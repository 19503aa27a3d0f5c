package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"trip-chat-service/internal/api/middleware"
	"trip-chat-service/internal/realtime"
)

// WebSocketHandler upgrades authenticated requests into live sessions.
type WebSocketHandler struct {
	hub         *realtime.Hub
	upgrader    *websocket.Upgrader
	burstPerSec int
}

func NewWebSocketHandler(hub *realtime.Hub, upgrader *websocket.Upgrader, burstPerSec int) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, upgrader: upgrader, burstPerSec: burstPerSec}
}

// Connect handles GET /ws. The auth middleware has already refused anything
// without a valid, unrevoked credential.
func (h *WebSocketHandler) Connect(c *gin.Context) {
	userID := middleware.UserID(c)
	realtime.ServeWS(h.hub, h.upgrader, c.Writer, c.Request, userID, h.burstPerSec)
}
