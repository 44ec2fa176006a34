package handlers

import (
	"errors"
	"time"

	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/store"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Username          string   `json:"username" validate:"required,min=3,max=32"`
	Email             string   `json:"email" validate:"required,email"`
	Password          string   `json:"password" validate:"required,min=8"`
	FirstName         string   `json:"firstName" validate:"required"`
	LastName          string   `json:"lastName" validate:"required"`
	Title             string   `json:"title" validate:"required"`
	Bio               *string  `json:"bio"`
	ExperienceLevel   string   `json:"experienceLevel" validate:"required,oneof=beginner intermediate professional"`
	Skills            []string `json:"skills"`
	ProfileImage      *string  `json:"profileImage"`
	OpenToCollaborate bool     `json:"openToCollaborate"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles user registration
func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := h.parseAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to hash password",
		})
	}

	user, err := h.store.CreateUser(c.Context(), store.NewUser{
		Username:          req.Username,
		Email:             req.Email,
		PasswordHash:      hashedPassword,
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

	token, err := utils.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to generate token",
		})
	}

	setAuthCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    user.ToResponse(),
	})
}

// Login handles user login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := h.parseAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.store.GetUserByEmail(c.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid email or password",
		})
	}
	if err != nil {
		return h.fail(c, err)
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid email or password",
		})
	}

	// Mark the user online; a failure here must not fail the login
	if err := h.store.SetOnlineStatus(c.Context(), user.ID, true); err == nil {
		user.IsOnline = true
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to generate token",
		})
	}

	setAuthCookie(c, token)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user.ToResponse(),
	})
}

// Me returns the current authenticated user
func (h *Handler) Me(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	user, err := h.store.GetUser(c.Context(), userID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user.ToResponse(),
	})
}

// Logout handles user logout
func (h *Handler) Logout(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	// Mark the user offline; a failure here must not fail the logout
	_ = h.store.SetOnlineStatus(c.Context(), userID, false)

	// Clear access token cookie
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   -1, // Delete cookie
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

func setAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		HTTPOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: "Lax",
		MaxAge:   int((24 * time.Hour).Seconds()),
	})
}
