package routes

import (
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/handlers"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, h *handlers.Handler) {
	// API v1 group
	api := app.Group("/api/v1")

	// Health check (public)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "CodeBros API is running",
		})
	})

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", middleware.StrictRateLimiter(), h.Register)
	auth.Post("/login", middleware.StrictRateLimiter(), h.Login)
	auth.Post("/logout", middleware.AuthMiddleware, h.Logout)
	auth.Get("/me", middleware.AuthMiddleware, h.Me)

	// User routes (protected)
	users := api.Group("/users", middleware.AuthMiddleware)
	users.Get("/", h.ListUsers)
	users.Get("/search", h.SearchUsers)
	users.Get("/:id", h.GetUser)
	users.Patch("/:id", h.UpdateUser)
	users.Post("/:id/online-status", h.SetOnlineStatus)

	// Connection routes (protected)
	conns := api.Group("/connections", middleware.AuthMiddleware)
	conns.Post("/", h.CreateConnection)
	conns.Patch("/:id/status", h.UpdateConnectionStatus)
	conns.Get("/user/:userId", h.ConnectionsByUser)
	conns.Get("/pending/:userId", h.PendingConnections)
	conns.Get("/accepted/:userId", h.AcceptedConnections)

	// Message routes (protected)
	messages := api.Group("/messages", middleware.AuthMiddleware)
	messages.Post("/", h.SendMessage)
	messages.Get("/conversations", h.GetConversations)
	messages.Get("/conversation/:userId", h.GetHistory)
	messages.Post("/mark-read", h.MarkRead)

	// Notification routes (protected)
	notifications := api.Group("/notifications", middleware.AuthMiddleware)
	notifications.Get("/", h.NotificationFeed)
	notifications.Get("/count", h.NotificationCount)

	// WebSocket route (protected)
	api.Get("/ws", middleware.AuthMiddleware, h.WebSocketUpgrade, websocket.New(h.WebSocketHandler))

	// WebSocket stats (protected, for debugging)
	api.Get("/ws/stats", middleware.AuthMiddleware, h.WebSocketStats)
}
