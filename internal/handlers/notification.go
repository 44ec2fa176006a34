package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// NotificationFeed returns one entry per sender with unread messages for the
// authenticated user, most recently active sender first
func (h *Handler) NotificationFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	feed, err := h.messaging.NotificationFeed(c.Context(), userID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    feed,
	})
}

// NotificationCount returns the authenticated user's unread badge count
func (h *Handler) NotificationCount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	count, err := h.messaging.UnreadCount(c.Context(), userID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"count": count,
		},
	})
}
