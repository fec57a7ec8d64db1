package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "stockroom/internal/log"
	"stockroom/internal/services"
	"stockroom/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed request body")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return badRequest(c, "enter a valid email")
	}

	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
	}
	u, err := h.Auth.Login(sid, email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			applog.Security(c, "auth.login.fail", map[string]any{"email": email})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
		}
		return writeErr(c, "auth.login.fail", err)
	}

	c.Cookie(&fiber.Cookie{Name: "sid", Value: sid, HTTPOnly: true, SameSite: "Lax"})
	applog.Audit(c, "auth.login", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{"id": u.ID, "name": u.Name, "email": u.Email})
}

// POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		_ = h.Auth.Logout(sid)
	}
	c.Cookie(&fiber.Cookie{Name: "sid", Value: "", MaxAge: -1, HTTPOnly: true, SameSite: "Lax"})
	return c.SendStatus(fiber.StatusNoContent)
}
