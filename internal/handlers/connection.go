package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// CreateConnectionRequest represents a connection request body
type CreateConnectionRequest struct {
	ReceiverID string  `json:"receiverId" validate:"required"`
	Message    *string `json:"message"`
}

// UpdateConnectionStatusRequest represents a status transition body
type UpdateConnectionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateConnection sends a connection request from the authenticated user
func (h *Handler) CreateConnection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req CreateConnectionRequest
	if err := h.parseAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	connection, err := h.connections.Request(c.Context(), userID, req.ReceiverID, req.Message)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    connection,
	})
}

// UpdateConnectionStatus accepts or declines a pending connection
func (h *Handler) UpdateConnectionStatus(c *fiber.Ctx) error {
	var req UpdateConnectionStatusRequest
	if err := h.parseAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	connection, err := h.connections.Respond(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    connection,
	})
}

// ConnectionsByUser returns every connection the user participates in
func (h *Handler) ConnectionsByUser(c *fiber.Ctx) error {
	connections, err := h.connections.ByUser(c.Context(), c.Params("userId"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    connections,
	})
}

// PendingConnections returns pending requests addressed to the user
func (h *Handler) PendingConnections(c *fiber.Ctx) error {
	connections, err := h.connections.PendingFor(c.Context(), c.Params("userId"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    connections,
	})
}

// AcceptedConnections returns the users connected with the given user
func (h *Handler) AcceptedConnections(c *fiber.Ctx) error {
	users, err := h.connections.AcceptedFor(c.Context(), c.Params("userId"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    toResponses(users),
	})
}
