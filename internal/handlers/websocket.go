package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	ws "github.com/teamline/teamline/internal/websocket"
)

// WebSocketHandler upgrades chat connections and hands them to the hub.
type WebSocketHandler struct {
	hub      *ws.Hub
	chat     *ChatHandler
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, chat *ChatHandler) *WebSocketHandler {
	return &WebSocketHandler{
		hub:  hub,
		chat: chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict origin once the client origin is fixed
				return true
			},
		},
	}
}

// HandleWebSocket upgrades the connection. The display name comes from the
// username query parameter and defaults to Anonymous.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	displayName := c.Query("username")
	if displayName == "" {
		displayName = "Anonymous"
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, displayName)
	h.hub.Register(client)

	h.chat.Welcome(client)

	go client.WritePump()
	go client.ReadPump(h.chat)
}
