package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// SendMessageRequest represents send message request body
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

// MarkReadRequest represents mark as read request body. SenderID is
// optional: empty means every sender.
type MarkReadRequest struct {
	SenderID string `json:"senderId"`
}

// SendMessage sends a direct message from the authenticated user
func (h *Handler) SendMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req SendMessageRequest
	if err := h.parseAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	message, err := h.messaging.Send(c.Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		return h.fail(c, err)
	}

	// Push to the receiver if they are connected
	h.hub.PushMessage(message)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    message,
	})
}

// GetHistory returns the message history between the authenticated user and
// another user, oldest first
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	messages, err := h.messaging.History(c.Context(), userID, c.Params("userId"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    messages,
	})
}

// GetConversations returns per-counterpart conversation summaries for the
// authenticated user, most recent first
func (h *Handler) GetConversations(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	conversations, err := h.messaging.Conversations(c.Context(), userID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    conversations,
	})
}

// MarkRead marks unread messages addressed to the authenticated user as read
func (h *Handler) MarkRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req MarkReadRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.messaging.MarkRead(c.Context(), userID, req.SenderID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Messages marked as read",
		"data": fiber.Map{
			"updatedCount": updated,
		},
	})
}
