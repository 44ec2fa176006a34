package handlers

import (
	"strings"

	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/models"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/store"

	"github.com/gofiber/fiber/v2"
)

// UpdateUserRequest represents a partial profile update
type UpdateUserRequest struct {
	FirstName         *string  `json:"firstName"`
	LastName          *string  `json:"lastName"`
	Title             *string  `json:"title"`
	Bio               *string  `json:"bio"`
	ExperienceLevel   *string  `json:"experienceLevel" validate:"omitempty,oneof=beginner intermediate professional"`
	Skills            []string `json:"skills"`
	ProfileImage      *string  `json:"profileImage"`
	OpenToCollaborate *bool    `json:"openToCollaborate"`
}

// OnlineStatusRequest represents a presence update
type OnlineStatusRequest struct {
	IsOnline bool `json:"isOnline"`
}

// ListUsers returns all users
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.store.ListUsers(c.Context())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    toResponses(users),
	})
}

// SearchUsers filters users by free text, experience level, skills,
// collaboration preference and presence
func (h *Handler) SearchUsers(c *fiber.Ctx) error {
	filter := store.SearchFilter{
		Query: c.Query("query"),
	}

	if levels := c.Query("experienceLevel"); levels != "" {
		for _, level := range strings.Split(levels, ",") {
			if !models.ValidExperienceLevel(level) {
				return badRequest(c, "Unknown experience level: "+level)
			}
			filter.ExperienceLevels = append(filter.ExperienceLevels, level)
		}
	}
	if skills := c.Query("skills"); skills != "" {
		filter.Skills = strings.Split(skills, ",")
	}
	if c.Query("openToCollaborate") == "true" {
		v := true
		filter.OpenToCollaborate = &v
	}
	if c.Query("isOnline") == "true" {
		v := true
		filter.IsOnline = &v
	}

	users, err := h.store.SearchUsers(c.Context(), filter)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    toResponses(users),
	})
}

// GetUser returns a single user by id
func (h *Handler) GetUser(c *fiber.Ctx) error {
	user, err := h.store.GetUser(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user.ToResponse(),
	})
}

// UpdateUser applies a partial profile update to the authenticated user
func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if c.Params("id") != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "You can only update your own profile",
		})
	}

	var req UpdateUserRequest
	if err := h.parseAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.store.UpdateUser(c.Context(), userID, store.UserUpdate{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Title:             req.Title,
		Bio:               req.Bio,
		ExperienceLevel:   req.ExperienceLevel,
		Skills:            req.Skills,
		ProfileImage:      req.ProfileImage,
		OpenToCollaborate: req.OpenToCollaborate,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user.ToResponse(),
	})
}

// SetOnlineStatus updates the authenticated user's presence
func (h *Handler) SetOnlineStatus(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if c.Params("id") != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "You can only update your own status",
		})
	}

	var req OnlineStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.store.SetOnlineStatus(c.Context(), userID, req.IsOnline); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Status updated",
	})
}

func toResponses(users []models.User) []models.UserResponse {
	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	return responses
}
