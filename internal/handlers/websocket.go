package handlers

import (
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// WebSocketUpgrade checks if the request should be upgraded to WebSocket
func (h *Handler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}

	return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{
		"success": false,
		"error":   "WebSocket upgrade required",
	})
}

// WebSocketHandler handles WebSocket connections
func (h *Handler) WebSocketHandler(c *websocket.Conn) {
	// Set by the auth middleware before the upgrade
	userID := c.Locals("userID").(string)

	client := ws.NewClient(userID, c, h.hub)
	h.hub.Register <- client

	go client.WritePump()
	client.ReadPump() // Blocks until the connection closes
}

// WebSocketStats returns WebSocket connection statistics
func (h *Handler) WebSocketStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"onlineUsers": h.hub.OnlineCount(),
			"userIds":     h.hub.OnlineUsers(),
		},
	})
}
