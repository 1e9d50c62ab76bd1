package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches an agent console connection to the hub.
func ServeWs(hub *Hub, c *websocket.Conn, agentID string) {
	client := &Client{Hub: hub, Conn: c, AgentID: agentID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
