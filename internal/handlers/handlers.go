package handlers

import (
	"errors"

	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/connections"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/messaging"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/store"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/ws"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Handler carries the injected services shared by all route handlers.
type Handler struct {
	store       store.EntityStore
	connections *connections.Service
	messaging   *messaging.Service
	hub         *ws.Hub
	validate    *validator.Validate
}

// New wires the handlers to their services.
func New(st store.EntityStore, connSvc *connections.Service, msgSvc *messaging.Service, hub *ws.Hub) *Handler {
	return &Handler{
		store:       st,
		connections: connSvc,
		messaging:   msgSvc,
		hub:         hub,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// fail maps a service or store error to the JSON error envelope.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, store.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, store.ErrDuplicateConnection),
		errors.Is(err, store.ErrDuplicateUser),
		errors.Is(err, connections.ErrInvalidTransition):
		status = fiber.StatusConflict
	case errors.Is(err, connections.ErrSelfConnection),
		errors.Is(err, connections.ErrInvalidStatus),
		errors.Is(err, messaging.ErrEmptyContent),
		errors.Is(err, messaging.ErrContentTooLong):
		status = fiber.StatusBadRequest
	case errors.Is(err, store.ErrUnavailable):
		status = fiber.StatusServiceUnavailable
		message = "Database error"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// badRequest returns a 400 with a fixed message.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// parseAndValidate parses the request body into req and runs struct
// validation on it.
func (h *Handler) parseAndValidate(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errors.New("Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return err
	}
	return nil
}
