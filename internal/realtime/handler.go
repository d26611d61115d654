// Package realtime implements the websocket hub that pushes
// notification events to per-user private channels.
package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/todocollab/backend/internal/token"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades HTTP requests to websocket connections.
type Handler struct {
	hub    *Hub
	tokens *token.Manager
}

// NewHandler creates a new websocket handler.
func NewHandler(hub *Hub, tokens *token.Manager) *Handler {
	return &Handler{
		hub:    hub,
		tokens: tokens,
	}
}

// HandleConnection upgrades the request and registers the client. A
// valid token query parameter binds the connection to the user's private
// channel; an invalid or missing token still connects, but the client
// receives no events and must rely on the polling endpoint.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("Failed to upgrade websocket connection")
		return
	}

	var userID uint64
	if raw := c.Query("token"); raw != "" {
		if claims, err := h.tokens.Parse(raw); err == nil {
			userID = claims.UserID
		}
	}

	client := NewClient(h.hub, conn, userID)
	h.hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
