package api

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobsphere/jobsphere/internal/auth"
	"github.com/jobsphere/jobsphere/internal/database"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new user with a digest of their password.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	if _, err := h.Users.GetUserByEmail(c.UserContext(), req.Email); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User already exists"})
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.Logger.Error("signup lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Signup failed"})
	}

	user, err := h.Users.CreateUser(c.UserContext(), database.CreateUserParams{
		ID:             uuid.New(),
		Email:          req.Email,
		PasswordDigest: auth.HashPassword(req.Password),
	})
	if err != nil {
		h.Logger.Error("signup insert failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Signup failed"})
	}

	return c.JSON(fiber.Map{
		"message": "User created successfully",
		"user_id": user.ID.String(),
	})
}

// Login verifies the credentials and sets the session cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.Users.GetUserByEmail(c.UserContext(), req.Email)
	if err != nil || user.PasswordDigest != auth.HashPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	token, err := h.Tokens.Issue(user.ID.String())
	if err != nil {
		h.Logger.Error("token issue failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Login failed"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		HTTPOnly: true,
		MaxAge:   int(h.Tokens.TTL().Seconds()),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"message": "Login successful"})
}

// Logout clears the session cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		HTTPOnly: true,
		MaxAge:   -1,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"message": "Logout successful"})
}

// Me returns the authenticated user's id.
func (h *Handlers) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user_id": c.Locals("user_id")})
}

// RequireUser rejects requests without a valid session cookie and stores
// the user id in the request locals.
func (h *Handlers) RequireUser(c *fiber.Ctx) error {
	token := c.Cookies(auth.CookieName)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in"})
	}

	userID, err := h.Tokens.Verify(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in"})
	}

	c.Locals("user_id", userID)
	return c.Next()
}
