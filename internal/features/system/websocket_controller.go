package system

import (
	"log"

	"github.com/gofiber/contrib/websocket"
)

type WebSocketController struct {
	Hub *EventHub
}

func NewWebSocketController(hub *EventHub) *WebSocketController {
	return &WebSocketController{Hub: hub}
}

// HandleWebSocket streams pipeline events to the connected client until the
// connection drops
func (h *WebSocketController) HandleWebSocket(c *websocket.Conn) {
	events, unsubscribe := h.Hub.Subscribe()
	defer unsubscribe()

	for event := range events {
		if err := c.WriteJSON(event); err != nil {
			log.Println("write:", err)
			break
		}
	}
}
